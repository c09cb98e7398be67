package instructions

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"lsscore/internal/orchestrator"
	"lsscore/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

type fakeAnalyzer struct {
	reports map[string]*types.AnalysisReport
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req orchestrator.Request) (*types.AnalysisReport, error) {
	return f.reports[req.Key], nil
}

type fakeDecision struct {
	actions []types.ActionDef
}

func (f *fakeDecision) GenerateActions(ctx context.Context, issue types.Issue) ([]types.ActionDef, error) {
	return f.actions, nil
}

type fakeStore struct {
	mu      sync.Mutex
	byTuple map[string]string
	rows    []types.Instruction
}

func newFakeStore() *fakeStore { return &fakeStore{byTuple: make(map[string]string)} }

func (s *fakeStore) InsertInstructionIfAbsent(in types.Instruction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := in.TargetDate + "|" + string(in.Role) + "|" + in.ActionCode + "|" + in.BatchID + "|" + in.NodeCode
	if id, ok := s.byTuple[key]; ok {
		return id, nil
	}
	id := key
	s.byTuple[key] = id
	in.ID = id
	s.rows = append(s.rows, in)
	return id, nil
}

func (s *fakeStore) ListInstructionsByRole(role types.Role, targetDate string, status types.InstructionStatus) ([]types.Instruction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Instruction
	for _, r := range s.rows {
		if r.Role == role && r.TargetDate == targetDate {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkRead(id string) error         { return nil }
func (s *fakeStore) MarkDone(id, feedback string) error { return nil }

func TestGenerateDailyOrdersCreatesOneInstructionPerAction(t *testing.T) {
	report := &types.AnalysisReport{
		CriticalIssues: []types.Issue{{NodeCode: "U1", ParamCode: "TEMP", Severity: types.SeverityCritical, BatchID: "B1"}},
	}
	analyzer := &fakeAnalyzer{reports: map[string]*types.AnalysisReport{"B1": report}}
	decision := &fakeDecision{actions: []types.ActionDef{
		{Code: "ACT-1", TargetRole: types.RoleOperator, InstructionTemplate: "Check {node_name} ({param_code})", Priority: types.PriorityCritical},
	}}
	store := newFakeStore()
	eng := New(analyzer, decision, store)

	byRole, errs, err := eng.GenerateDailyOrders(context.Background(), "2026-08-01", []orchestrator.Request{
		{Dimension: types.DimensionBatch, Key: "B1"},
	})
	if err != nil {
		t.Fatalf("GenerateDailyOrders error = %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(byRole[types.RoleOperator]) != 1 {
		t.Fatalf("byRole[Operator] = %v, want 1 instruction", byRole[types.RoleOperator])
	}
	if byRole[types.RoleOperator][0].Content != "Check  (TEMP)" {
		t.Errorf("Content = %q, want rendered template with empty node_name", byRole[types.RoleOperator][0].Content)
	}
}

func TestGenerateDailyOrdersDedupesSecondRun(t *testing.T) {
	report := &types.AnalysisReport{
		CriticalIssues: []types.Issue{{NodeCode: "U1", ParamCode: "TEMP", Severity: types.SeverityCritical, BatchID: "B1"}},
	}
	analyzer := &fakeAnalyzer{reports: map[string]*types.AnalysisReport{"B1": report}}
	decision := &fakeDecision{actions: []types.ActionDef{
		{Code: "ACT-1", TargetRole: types.RoleOperator, InstructionTemplate: "Check it", Priority: types.PriorityCritical},
	}}
	store := newFakeStore()
	eng := New(analyzer, decision, store)

	reqs := []orchestrator.Request{{Dimension: types.DimensionBatch, Key: "B1"}}
	if _, _, err := eng.GenerateDailyOrders(context.Background(), "2026-08-01", reqs); err != nil {
		t.Fatalf("first run error = %v", err)
	}
	if _, _, err := eng.GenerateDailyOrders(context.Background(), "2026-08-01", reqs); err != nil {
		t.Fatalf("second run error = %v", err)
	}

	if len(store.rows) != 1 {
		t.Errorf("len(store.rows) = %d, want 1 (second run should add zero new instructions)", len(store.rows))
	}
}

func TestGenerateDailyOrdersSkipsErroredIssues(t *testing.T) {
	report := &types.AnalysisReport{
		Warnings: []types.Issue{{NodeCode: "U1", ParamCode: "TEMP", Errored: true, ErrorDetail: "insufficient data"}},
	}
	analyzer := &fakeAnalyzer{reports: map[string]*types.AnalysisReport{"B1": report}}
	decision := &fakeDecision{actions: []types.ActionDef{{Code: "ACT-1", TargetRole: types.RoleOperator, Priority: types.PriorityLow}}}
	store := newFakeStore()
	eng := New(analyzer, decision, store)

	byRole, _, err := eng.GenerateDailyOrders(context.Background(), "2026-08-01", []orchestrator.Request{
		{Dimension: types.DimensionBatch, Key: "B1"},
	})
	if err != nil {
		t.Fatalf("GenerateDailyOrders error = %v", err)
	}
	if len(byRole) != 0 {
		t.Errorf("byRole = %v, want empty (errored issues produce no instructions)", byRole)
	}
}

func TestGenerateDailyOrdersFansOutConcurrently(t *testing.T) {
	const batches = 8
	reports := make(map[string]*types.AnalysisReport, batches)
	reqs := make([]orchestrator.Request, batches)
	for i := 0; i < batches; i++ {
		key := fmt.Sprintf("B%d", i)
		reports[key] = &types.AnalysisReport{
			CriticalIssues: []types.Issue{{NodeCode: "U1", ParamCode: "TEMP", Severity: types.SeverityCritical, BatchID: key}},
		}
		reqs[i] = orchestrator.Request{Dimension: types.DimensionBatch, Key: key}
	}
	analyzer := &fakeAnalyzer{reports: reports}
	decision := &fakeDecision{actions: []types.ActionDef{
		{Code: "ACT-1", TargetRole: types.RoleOperator, InstructionTemplate: "Check {node_name}", Priority: types.PriorityCritical},
	}}
	store := newFakeStore()
	eng := New(analyzer, decision, store)

	byRole, errs, err := eng.GenerateDailyOrders(context.Background(), "2026-08-01", reqs)
	if err != nil {
		t.Fatalf("GenerateDailyOrders error = %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(byRole[types.RoleOperator]) != batches {
		t.Errorf("byRole[Operator] = %d instructions, want %d (one per concurrently analyzed batch)", len(byRole[types.RoleOperator]), batches)
	}
}
