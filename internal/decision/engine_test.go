package decision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsscore/internal/types"
)

func catalog() []types.ActionDef {
	return []types.ActionDef{
		{Code: "ACT-TEMP-HIGH", Name: "Cool extractor", InstructionTemplate: "Lower the temperature on {node_name}", Priority: types.PriorityHigh},
		{Code: "ACT-NODE-E1", Name: "Inspect E1", InstructionTemplate: "Inspect node E1 for blockage", Priority: types.PriorityCritical},
		{Code: "ACT-LOG-ONLY", Name: "Log for review", InstructionTemplate: "Log {node_name} reading for QA review", Priority: types.PriorityLow},
	}
}

func newTestEngine(t *testing.T, actions []types.ActionDef, lookup map[LookupKey]string) *RuleEngine {
	t.Helper()
	eng, err := NewRuleEngine(actions, lookup)
	require.NoError(t, err)
	return eng
}

func actionCodes(actions []types.ActionDef) []string {
	codes := make([]string, len(actions))
	for i, a := range actions {
		codes[i] = a.Code
	}
	return codes
}

func TestGenerateActionsMatchesByNodeCode(t *testing.T) {
	eng := newTestEngine(t, catalog(), nil)

	issue := types.Issue{NodeCode: "E1", ParamCode: "PH", Severity: types.SeverityCritical}
	actions, err := eng.GenerateActions(context.Background(), issue)
	require.NoError(t, err)

	assert.Contains(t, actionCodes(actions), "ACT-NODE-E1", "expected ACT-NODE-E1 to qualify by node_code match")
}

func TestGenerateActionsMatchesByTemperatureKeyword(t *testing.T) {
	eng := newTestEngine(t, catalog(), nil)

	issue := types.Issue{NodeCode: "U9", ParamCode: "TEMP_OUT", Severity: types.SeverityHigh}
	actions, err := eng.GenerateActions(context.Background(), issue)
	require.NoError(t, err)

	assert.Contains(t, actionCodes(actions), "ACT-TEMP-HIGH", "expected ACT-TEMP-HIGH to qualify via keyword heuristic")
}

func TestGenerateActionsSeverityGateExcludesHighPriorityOnWarning(t *testing.T) {
	eng := newTestEngine(t, catalog(), nil)

	issue := types.Issue{NodeCode: "U9", ParamCode: "TEMP_OUT", Severity: types.SeverityWarning}
	actions, err := eng.GenerateActions(context.Background(), issue)
	require.NoError(t, err)

	assert.NotContains(t, actionCodes(actions), "ACT-TEMP-HIGH", "HIGH priority action should not qualify for a WARNING severity issue")
}

func TestGenerateActionsCriticalPriorityGateExcludesNormalSeverity(t *testing.T) {
	eng := newTestEngine(t, catalog(), nil)

	issue := types.Issue{NodeCode: "E1", ParamCode: "TEMP", Severity: types.SeverityNormal}
	actions, err := eng.GenerateActions(context.Background(), issue)
	require.NoError(t, err)

	assert.NotContains(t, actionCodes(actions), "ACT-NODE-E1", "CRITICAL priority action should not qualify for a NORMAL severity issue")
}

func TestGenerateActionsLowPriorityStillRequiresMatch(t *testing.T) {
	eng := newTestEngine(t, catalog(), nil)

	issue := types.Issue{NodeCode: "X9", ParamCode: "FLOW", Severity: types.SeverityNormal}
	actions, err := eng.GenerateActions(context.Background(), issue)
	require.NoError(t, err)

	assert.NotContains(t, actionCodes(actions), "ACT-LOG-ONLY", "ACT-LOG-ONLY should not match an unrelated node/param pair regardless of gate")
}

func TestGenerateActionsOrderedByPriorityThenCode(t *testing.T) {
	eng := newTestEngine(t, []types.ActionDef{
		{Code: "B-ACT", InstructionTemplate: "touch node N1", Priority: types.PriorityLow},
		{Code: "A-ACT", InstructionTemplate: "touch node N1", Priority: types.PriorityLow},
	}, nil)

	actions, err := eng.GenerateActions(context.Background(), types.Issue{NodeCode: "N1", Severity: types.SeverityNormal})
	require.NoError(t, err)

	assert.Equal(t, []string{"A-ACT", "B-ACT"}, actionCodes(actions), "same priority, code ascending")
}

func TestGenerateActionsExplicitLookupOverridesTemplateMatch(t *testing.T) {
	lookup := map[LookupKey]string{
		{NodeCode: "U5", ParamCode: "PH", Severity: types.SeverityCritical}: "ACT-LOG-ONLY",
	}
	eng := newTestEngine(t, catalog(), lookup)

	issue := types.Issue{NodeCode: "U5", ParamCode: "PH", Severity: types.SeverityCritical}
	actions, err := eng.GenerateActions(context.Background(), issue)
	require.NoError(t, err)

	assert.Contains(t, actionCodes(actions), "ACT-LOG-ONLY", "expected ACT-LOG-ONLY to qualify via explicit lookup table")
}
