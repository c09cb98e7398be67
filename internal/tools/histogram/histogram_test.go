package histogram

import (
	"context"
	"testing"

	"lsscore/internal/types"
)

func TestValidateRejectsEmpty(t *testing.T) {
	tool := New()
	ok, errs := tool.Validate([]float64{}, nil)
	if ok || len(errs) == 0 {
		t.Errorf("Validate(empty) = %v, %v; want false with errors", ok, errs)
	}
}

func TestRunBinsCoverFullRange(t *testing.T) {
	tool := New()
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	result := tool.Run(context.Background(), x, map[string]interface{}{"bins": 5})
	if !result.Success {
		t.Fatalf("Run() success = false")
	}
	if result.Result["min"] != 1.0 || result.Result["max"] != 10.0 {
		t.Errorf("min/max = %v/%v, want 1/10", result.Result["min"], result.Result["max"])
	}

	plot := result.PlotData.(types.HistogramPlotData)
	if len(plot.Bins) != 6 {
		t.Errorf("len(Bins) = %d, want 6 (bins+1)", len(plot.Bins))
	}
	total := 0
	for _, c := range plot.Counts {
		total += c
	}
	if total != len(x) {
		t.Errorf("sum(Counts) = %d, want %d", total, len(x))
	}
}

func TestRunFlagsOutOfSpecWarnings(t *testing.T) {
	tool := New()
	x := []float64{5, 6, 7, 15}

	result := tool.Run(context.Background(), x, map[string]interface{}{"usl": 10.0})
	found := false
	for _, w := range result.Warnings {
		if w != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning for max exceeding USL")
	}
}
