package spc

import (
	"context"
	"testing"

	"lsscore/internal/types"
)

func TestValidateRejectsShortSeries(t *testing.T) {
	tool := New()
	ok, errs := tool.Validate([]float64{1}, nil)
	if ok || len(errs) == 0 {
		t.Errorf("Validate([]float64{1}) = %v, %v; want false with errors", ok, errs)
	}
}

func TestValidateRejectsWrongType(t *testing.T) {
	tool := New()
	ok, errs := tool.Validate("not a series", nil)
	if ok || len(errs) == 0 {
		t.Errorf("Validate(string) = %v, %v; want false with errors", ok, errs)
	}
}

func TestRunControlledProcess(t *testing.T) {
	tool := New()
	x := []float64{10.1, 10.0, 9.9, 10.2, 10.0, 9.8, 10.1, 10.0}
	usl, lsl := 12.0, 8.0

	result := tool.Run(context.Background(), x, map[string]interface{}{"usl": usl, "lsl": lsl})
	if !result.Success {
		t.Fatalf("Run() success = false, errors = %v", result.Errors)
	}
	if result.Result["process_status"] != types.ProcessStatusControlled {
		t.Errorf("process_status = %v, want %v", result.Result["process_status"], types.ProcessStatusControlled)
	}
	if _, ok := result.Metrics["cpk"]; !ok {
		t.Errorf("expected cpk metric when both limits present")
	}
}

func TestRunFlagsOutOfControl(t *testing.T) {
	tool := New()
	x := []float64{10, 10, 10, 10, 10, 10, 50}

	result := tool.Run(context.Background(), x, nil)
	if result.Result["process_status"] != types.ProcessStatusOutOfControl {
		t.Errorf("process_status = %v, want %v", result.Result["process_status"], types.ProcessStatusOutOfControl)
	}
}

func TestRunWithoutLimitsLeavesCpkNil(t *testing.T) {
	tool := New()
	x := []float64{1, 2, 3, 4, 5}

	result := tool.Run(context.Background(), x, nil)
	if result.Result["cpk"] != (*float64)(nil) {
		t.Errorf("cpk = %v, want nil", result.Result["cpk"])
	}
}
