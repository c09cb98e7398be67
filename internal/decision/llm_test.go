package decision

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsscore/internal/types"
)

func TestNewGeminiDecisionEngineRejectsEmptyAPIKey(t *testing.T) {
	_, err := NewGeminiDecisionEngine(context.Background(), "", "", catalog())
	require.Error(t, err)
}

func TestNewGeminiDecisionEngineDefaultsModel(t *testing.T) {
	eng, err := NewGeminiDecisionEngine(context.Background(), "test-key", "", catalog())
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", eng.model)
}

func TestGeminiDecisionEnginePromptListsCatalogCodes(t *testing.T) {
	eng, err := NewGeminiDecisionEngine(context.Background(), "test-key", "", catalog())
	require.NoError(t, err)

	issue := types.Issue{NodeCode: "E1", ParamCode: "PH", Severity: types.SeverityCritical}
	prompt := eng.prompt(issue)

	assert.Contains(t, prompt, "E1")
	for _, action := range catalog() {
		assert.Contains(t, prompt, action.Code, "prompt should list every candidate action code")
	}
	assert.True(t, strings.Contains(prompt, "codes"), "prompt should instruct a {\"codes\": [...]} response")
}

func TestGeminiDecisionEngineGenerateActionsNoCatalogReturnsNil(t *testing.T) {
	eng, err := NewGeminiDecisionEngine(context.Background(), "test-key", "", nil)
	require.NoError(t, err)

	actions, err := eng.GenerateActions(context.Background(), types.Issue{NodeCode: "E1"})
	require.NoError(t, err)
	assert.Empty(t, actions)
}
