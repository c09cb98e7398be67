package decision

// ruleSchema declares the Datalog program the rule-based engine
// evaluates per GenerateActions call. Go-side logic classifies each
// candidate ActionDef against the issue (node/keyword match, severity
// gate) and asserts the result as a candidate/4 fact; qualifies/1
// derives which action codes survive rule 1 or rule 2 of the decision
// matching (either path requires the severity gate to hold).
const ruleSchema = `
Decl candidate(Code, NodeMatch, KeywordMatch, SeverityOk).
Decl qualifies(Code).

qualifies(Code) :- candidate(Code, /true, _, /true).
qualifies(Code) :- candidate(Code, _, /true, /true).
`

const (
	candidatePredicate = "candidate"
	qualifiesPredicate = "qualifies"
)
