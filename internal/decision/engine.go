// Package decision implements the rule-based action-recommendation
// engine: given an Issue, it proposes the ActionDefs whose remediation
// template applies, ranked by priority. Qualification itself is
// evaluated as a small Datalog program via google/mangle; the fuzzy
// parts (does this template mention this node, does this keyword
// heuristic apply) are classified in Go before being asserted as facts.
package decision

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	_ "github.com/google/mangle/packages"
	"github.com/google/mangle/parse"

	"lsscore/internal/logging"
	"lsscore/internal/types"
)

// LookupKey is the explicit (node_code, param_code, severity) -> action
// table rule 1 of the matching algorithm may consult ahead of the
// template substring check.
type LookupKey struct {
	NodeCode  string
	ParamCode string
	Severity  types.Severity
}

// RuleEngine is the mangle-backed implementation of orchestrator.DecisionEngine.
type RuleEngine struct {
	catalog []types.ActionDef
	lookup  map[LookupKey]string

	mu           sync.Mutex
	programInfo  *analysis.ProgramInfo
	candidateSym ast.PredicateSym
	qualifiesSym ast.PredicateSym
}

// NewRuleEngine compiles the matching schema once and returns an engine
// ready to evaluate GenerateActions calls against catalog. lookup may be
// nil.
func NewRuleEngine(catalog []types.ActionDef, lookup map[LookupKey]string) (*RuleEngine, error) {
	unit, err := parse.Unit(bytes.NewReader([]byte(ruleSchema)))
	if err != nil {
		return nil, fmt.Errorf("decision: parse rule schema: %w", err)
	}

	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("decision: analyze rule schema: %w", err)
	}

	var candidateSym, qualifiesSym ast.PredicateSym
	for sym := range programInfo.Decls {
		switch sym.Symbol {
		case candidatePredicate:
			candidateSym = sym
		case qualifiesPredicate:
			qualifiesSym = sym
		}
	}
	if candidateSym.Symbol == "" || qualifiesSym.Symbol == "" {
		return nil, fmt.Errorf("decision: rule schema missing expected predicates")
	}

	return &RuleEngine{
		catalog:      catalog,
		lookup:       lookup,
		programInfo:  programInfo,
		candidateSym: candidateSym,
		qualifiesSym: qualifiesSym,
	}, nil
}

// GenerateActions implements orchestrator.DecisionEngine. It classifies
// every catalog ActionDef against issue, asserts the result into a
// fresh fact store, evaluates the qualification rules, and returns the
// qualifying ActionDefs ordered by descending priority then ascending
// code.
func (e *RuleEngine) GenerateActions(ctx context.Context, issue types.Issue) ([]types.ActionDef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	store := factstore.NewSimpleInMemoryStore()

	byCode := make(map[string]types.ActionDef, len(e.catalog))
	for _, action := range e.catalog {
		byCode[action.Code] = action

		nodeMatch := e.matchesNode(action, issue)
		keywordMatch := matchesTemperatureKeyword(action, issue)
		severityOk := severityGateSatisfied(action, issue)

		atom := ast.Atom{
			Predicate: e.candidateSym,
			Args: []ast.BaseTerm{
				ast.String(action.Code),
				boolName(nodeMatch),
				boolName(keywordMatch),
				boolName(severityOk),
			},
		}
		store.Add(atom)
	}

	if _, err := mengine.EvalProgramWithStats(e.programInfo, store); err != nil {
		return nil, fmt.Errorf("decision: evaluate rules: %w", err)
	}

	var codes []string
	err := store.GetFacts(ast.NewQuery(e.qualifiesSym), func(fact ast.Atom) error {
		if len(fact.Args) != 1 {
			return nil
		}
		if code, ok := fact.Args[0].(ast.Constant); ok && code.Type == ast.StringType {
			codes = append(codes, code.Symbol)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decision: read qualifies facts: %w", err)
	}

	actions := make([]types.ActionDef, 0, len(codes))
	for _, code := range codes {
		if action, ok := byCode[code]; ok {
			actions = append(actions, action)
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Priority.Rank() != actions[j].Priority.Rank() {
			return actions[i].Priority.Rank() > actions[j].Priority.Rank()
		}
		return actions[i].Code < actions[j].Code
	})

	logging.Decision("generated %d action(s) for issue %s/%s (severity=%s)", len(actions), issue.NodeCode, issue.ParamCode, issue.Severity)
	return actions, nil
}

// matchesNode implements rule 1: an explicit lookup entry, or an exact
// node_code mention in the action's instruction template.
func (e *RuleEngine) matchesNode(action types.ActionDef, issue types.Issue) bool {
	if e.lookup != nil {
		key := LookupKey{NodeCode: issue.NodeCode, ParamCode: issue.ParamCode, Severity: issue.Severity}
		if code, ok := e.lookup[key]; ok {
			return code == action.Code
		}
	}
	if issue.NodeCode == "" {
		return false
	}
	return strings.Contains(action.InstructionTemplate, issue.NodeCode)
}

// matchesTemperatureKeyword implements rule 2: a case-insensitive
// "temp"/"温度" substring match between the template and param_code,
// null-guarded against an empty param_code.
func matchesTemperatureKeyword(action types.ActionDef, issue types.Issue) bool {
	if issue.ParamCode == "" {
		return false
	}
	template := strings.ToLower(action.InstructionTemplate)
	param := strings.ToLower(issue.ParamCode)
	templateHasKeyword := strings.Contains(template, "temp") || strings.Contains(action.InstructionTemplate, "温度")
	paramHasKeyword := strings.Contains(param, "temp") || strings.Contains(issue.ParamCode, "温度")
	return templateHasKeyword && paramHasKeyword
}

// severityGateSatisfied implements rule 3: priority >= HIGH actions
// require a CRITICAL or HIGH issue severity; lower-priority actions
// have no gate.
func severityGateSatisfied(action types.ActionDef, issue types.Issue) bool {
	if action.Priority.Rank() < types.PriorityHigh.Rank() {
		return true
	}
	return issue.Severity == types.SeverityCritical || issue.Severity == types.SeverityHigh
}

func boolName(v bool) ast.Constant {
	if v {
		return ast.TrueConstant
	}
	return ast.FalseConstant
}
