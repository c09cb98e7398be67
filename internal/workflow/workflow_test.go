package workflow

import (
	"context"
	"testing"

	"lsscore/internal/types"
)

type fakeRunner struct {
	result types.Result
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, key string, data interface{}, config map[string]interface{}) (types.Result, error) {
	return f.result, f.err
}

func controlledResult() types.Result {
	cpk := 1.5
	return types.Result{
		Success: true,
		Result: map[string]interface{}{
			"process_status": types.ProcessStatusControlled,
			"cpk":            &cpk,
			"violations":     []types.SPCViolation{},
		},
	}
}

func criticalResult() types.Result {
	return types.Result{
		Success: true,
		Result: map[string]interface{}{
			"process_status": types.ProcessStatusOutOfControl,
			"cpk":            (*float64)(nil),
			"violations":     []types.SPCViolation{{Index: 0, Value: 99, Rule: "Out of control limit"}},
		},
	}
}

func dcWithGroup(key types.GroupKey, n int) *types.DataContext {
	dc := types.NewDataContext(types.DimensionProcess, key.NodeCode)
	for i := 0; i < n; i++ {
		dc.Groups[key] = append(dc.Groups[key], types.Measurement{NodeCode: key.NodeCode, ParamCode: key.ParamCode, Value: float64(i)})
	}
	return dc
}

func TestEvaluateControlledGroupIsNormal(t *testing.T) {
	key := types.GroupKey{NodeCode: "U1", ParamCode: "PH"}
	dc := dcWithGroup(key, 5)
	w := New(&fakeRunner{result: controlledResult()})

	report, err := w.Evaluate(context.Background(), dc)
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if report.Status != types.SeverityNormal {
		t.Errorf("Status = %v, want Normal", report.Status)
	}
	if len(report.CriticalIssues) != 0 || len(report.Warnings) != 0 {
		t.Errorf("expected no issues, got critical=%v warnings=%v", report.CriticalIssues, report.Warnings)
	}
}

func TestEvaluateOutOfControlIsCritical(t *testing.T) {
	key := types.GroupKey{NodeCode: "U1", ParamCode: "PH"}
	dc := dcWithGroup(key, 5)
	w := New(&fakeRunner{result: criticalResult()})

	report, err := w.Evaluate(context.Background(), dc)
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if report.Status != types.SeverityCritical {
		t.Errorf("Status = %v, want Critical", report.Status)
	}
	if len(report.CriticalIssues) != 1 {
		t.Fatalf("len(CriticalIssues) = %d, want 1", len(report.CriticalIssues))
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	key := types.GroupKey{NodeCode: "U1", ParamCode: "PH"}
	dc := dcWithGroup(key, 5)
	w := New(&fakeRunner{result: controlledResult()})

	r1, err := w.Evaluate(context.Background(), dc)
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	r2, err := w.Evaluate(context.Background(), dc)
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if r1.Status != r2.Status || len(r1.Insights) != len(r2.Insights) {
		t.Errorf("Evaluate not idempotent: %+v vs %+v", r1, r2)
	}
}

func TestEvaluateInsufficientDataGroupIsErrored(t *testing.T) {
	key := types.GroupKey{NodeCode: "U1", ParamCode: "PH"}
	dc := types.NewDataContext(types.DimensionProcess, "U1")
	dc.Groups[key] = []types.Measurement{{NodeCode: "U1", ParamCode: "PH", Value: 1}}
	w := New(&fakeRunner{result: controlledResult()})

	report, err := w.Evaluate(context.Background(), dc)
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if report.Status != types.SeverityWarning {
		t.Errorf("Status = %v, want Warning (an errored group escalates the report)", report.Status)
	}
	if len(report.Warnings) != 1 || !report.Warnings[0].Errored {
		t.Fatalf("Warnings = %+v, want one errored issue", report.Warnings)
	}
}
