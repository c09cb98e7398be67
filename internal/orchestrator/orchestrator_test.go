package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsscore/internal/providers"
	"lsscore/internal/types"
)

type fakeProviders struct {
	dc  *types.DataContext
	err error
}

func (f *fakeProviders) ByPerson(string, providers.Interval, int) (*types.DataContext, error) { return f.dc, f.err }
func (f *fakeProviders) ByBatch(string, int) (*types.DataContext, error)                       { return f.dc, f.err }
func (f *fakeProviders) ByProcess(string, string, int) (*types.DataContext, error)             { return f.dc, f.err }
func (f *fakeProviders) ByWorkshop(string, int) (*types.DataContext, error)                    { return f.dc, f.err }
func (f *fakeProviders) ByTime(providers.Interval, int) (*types.DataContext, error)            { return f.dc, f.err }

type fakeWorkflow struct {
	report *types.AnalysisReport
	err    error
}

func (f *fakeWorkflow) Evaluate(ctx context.Context, dc *types.DataContext) (*types.AnalysisReport, error) {
	return f.report, f.err
}

type fakeDecision struct {
	actions []types.ActionDef
}

func (f *fakeDecision) GenerateActions(ctx context.Context, issue types.Issue) ([]types.ActionDef, error) {
	return f.actions, nil
}

func TestAnalyzeByBatchPropagatesProviderError(t *testing.T) {
	o := New(&fakeProviders{err: errors.New("boom")}, &fakeWorkflow{}, nil)
	_, err := o.AnalyzeByBatch(context.Background(), "B1", Options{})
	require.Error(t, err)
}

func TestAnalyzeByBatchReturnsReportWithNoDecisionEngine(t *testing.T) {
	report := &types.AnalysisReport{
		Dimension:      types.DimensionBatch,
		Key:            "B1",
		Status:         types.SeverityCritical,
		CriticalIssues: []types.Issue{{NodeCode: "U1", ParamCode: "PH", Severity: types.SeverityCritical}},
	}
	o := New(&fakeProviders{dc: types.NewDataContext(types.DimensionBatch, "B1")}, &fakeWorkflow{report: report}, nil)

	got, err := o.AnalyzeByBatch(context.Background(), "B1", Options{})
	require.NoError(t, err)
	assert.Empty(t, got.QuickActions, "no decision engine means no quick actions")

	want := *report
	want.QuickActions = nil
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("AnalyzeByBatch report mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeByProcessAddsQuickActionsForCriticalIssues(t *testing.T) {
	report := &types.AnalysisReport{
		Dimension: types.DimensionProcess,
		Key:       "U1",
		Status:    types.SeverityCritical,
		CriticalIssues: []types.Issue{
			{NodeCode: "U1", ParamCode: "TEMP", Severity: types.SeverityCritical},
			{NodeCode: "U1", ParamCode: "PH", Severity: types.SeverityHigh},
		},
	}
	decision := &fakeDecision{actions: []types.ActionDef{{Code: "ACT-1", Priority: types.PriorityCritical}}}
	o := New(&fakeProviders{dc: types.NewDataContext(types.DimensionProcess, "U1")}, &fakeWorkflow{report: report}, decision)

	got, err := o.AnalyzeByProcess(context.Background(), "U1", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ACT-1"}, got.QuickActions, "only the CRITICAL issue qualifies")
}

func TestAnalyzeByWorkshopPropagatesWorkflowError(t *testing.T) {
	o := New(&fakeProviders{dc: types.NewDataContext(types.DimensionWorkshop, "BLK1")}, &fakeWorkflow{err: errors.New("boom")}, nil)
	_, err := o.AnalyzeByWorkshop(context.Background(), "BLK1", Options{})
	require.Error(t, err)
}

func TestAnalyzeDispatchesByDimension(t *testing.T) {
	report := &types.AnalysisReport{Dimension: types.DimensionBatch, Key: "B1"}
	o := New(&fakeProviders{dc: types.NewDataContext(types.DimensionBatch, "B1")}, &fakeWorkflow{report: report}, nil)

	got, err := o.Analyze(context.Background(), Request{Dimension: types.DimensionBatch, Key: "B1"})
	require.NoError(t, err)
	assert.Equal(t, "B1", got.Key)
}

func TestAnalyzeRejectsUnknownDimension(t *testing.T) {
	o := New(&fakeProviders{}, &fakeWorkflow{}, nil)
	_, err := o.Analyze(context.Background(), Request{Dimension: types.Dimension("bogus"), Key: "X"})
	assert.ErrorIs(t, err, types.ErrBadRequest)
}
