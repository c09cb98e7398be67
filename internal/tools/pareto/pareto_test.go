package pareto

import (
	"context"
	"testing"
)

func TestValidateRejectsNegativeCount(t *testing.T) {
	tool := New()
	ok, errs := tool.Validate([]Category{{Name: "a", Count: -1}}, nil)
	if ok || len(errs) == 0 {
		t.Errorf("Validate(negative count) = %v, %v; want false with errors", ok, errs)
	}
}

func TestRunKeyFewAndABC(t *testing.T) {
	tool := New()
	data := []Category{
		{Name: "cracking", Count: 50},
		{Name: "discoloration", Count: 30},
		{Name: "moisture", Count: 10},
		{Name: "weight", Count: 6},
		{Name: "other", Count: 4},
	}

	result := tool.Run(context.Background(), data, map[string]interface{}{"threshold": 0.8})
	if !result.Success {
		t.Fatalf("Run() success = false")
	}
	if result.Result["total_count"] != 100.0 {
		t.Errorf("total_count = %v, want 100", result.Result["total_count"])
	}
	keyFew := result.Result["key_few_count"].(int)
	if keyFew < 1 || keyFew > len(data) {
		t.Errorf("key_few_count = %v out of range", keyFew)
	}

	rows := result.Result["rows"].([]map[string]interface{})
	if rows[0]["category"] != "cracking" {
		t.Errorf("rows not sorted descending by count: %+v", rows[0])
	}
}

func TestRunDefaultThreshold(t *testing.T) {
	tool := New()
	data := []Category{{Name: "a", Count: 1}, {Name: "b", Count: 1}}
	result := tool.Run(context.Background(), data, nil)
	if !result.Success {
		t.Fatalf("Run() success = false")
	}
}
