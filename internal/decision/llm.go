package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"

	"lsscore/internal/logging"
	"lsscore/internal/types"
)

// llmSelection is the JSON shape the model is constrained to respond with:
// the subset of catalog codes it judges applicable to the issue.
type llmSelection struct {
	Codes []string `json:"codes"`
}

// GeminiDecisionEngine is the generative alternative to RuleEngine: instead
// of evaluating a Datalog program, it asks a Gemini model to pick the
// qualifying ActionDefs directly from a description of the catalog.
type GeminiDecisionEngine struct {
	client  *genai.Client
	model   string
	catalog []types.ActionDef
}

// NewGeminiDecisionEngine constructs a GenAI-backed decision engine. model
// defaults to "gemini-2.0-flash" when empty, matching config.DefaultConfig's
// Decision.LLM.Model.
func NewGeminiDecisionEngine(ctx context.Context, apiKey, model string, catalog []types.ActionDef) (*GeminiDecisionEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("decision: gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("decision: create genai client: %w", err)
	}

	return &GeminiDecisionEngine{client: client, model: model, catalog: catalog}, nil
}

// GenerateActions implements orchestrator.DecisionEngine. It prompts the
// model with the issue and the full catalog, constrains the response to a
// JSON object of qualifying codes, and maps those codes back onto the
// injected ActionDefs ordered by descending priority then ascending code -
// the same convention RuleEngine.GenerateActions returns.
func (e *GeminiDecisionEngine) GenerateActions(ctx context.Context, issue types.Issue) ([]types.ActionDef, error) {
	if len(e.catalog) == 0 {
		return nil, nil
	}

	byCode := make(map[string]types.ActionDef, len(e.catalog))
	for _, action := range e.catalog {
		byCode[action.Code] = action
	}

	contents := []*genai.Content{
		genai.NewContentFromText(e.prompt(issue), genai.RoleUser),
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("decision: generate content: %w", err)
	}

	var selection llmSelection
	if err := json.Unmarshal([]byte(result.Text()), &selection); err != nil {
		return nil, fmt.Errorf("decision: parse model response: %w", err)
	}

	actions := make([]types.ActionDef, 0, len(selection.Codes))
	for _, code := range selection.Codes {
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

	logging.Decision("generated %d action(s) via gemini for issue %s/%s (severity=%s)", len(actions), issue.NodeCode, issue.ParamCode, issue.Severity)
	return actions, nil
}

// prompt renders the issue and catalog into a plain-text instruction asking
// for a JSON {"codes": [...]} response restricted to catalog codes.
func (e *GeminiDecisionEngine) prompt(issue types.Issue) string {
	var b strings.Builder
	b.WriteString("You are selecting remediation actions for a manufacturing process issue.\n")
	fmt.Fprintf(&b, "Issue: node=%s param=%s severity=%s process_status=%s violation_count=%d\n",
		issue.NodeCode, issue.ParamCode, issue.Severity, issue.ProcessStatus, issue.ViolationCount)
	b.WriteString("Candidate actions:\n")
	for _, action := range e.catalog {
		fmt.Fprintf(&b, "- code=%s priority=%s template=%q\n", action.Code, action.Priority, action.InstructionTemplate)
	}
	b.WriteString("Return a JSON object {\"codes\": [...]} listing only the codes of actions that apply to this issue. Use an empty array if none apply.")
	return b.String()
}
