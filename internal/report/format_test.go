package report

import (
	"strings"
	"testing"

	"lsscore/internal/types"
)

func sampleReport() *types.AnalysisReport {
	cpk := 0.75
	target := 85.0
	return &types.AnalysisReport{
		Dimension: types.DimensionBatch,
		Key:       "B-100",
		Status:    types.SeverityCritical,
		CriticalIssues: []types.Issue{
			{NodeCode: "E1", NodeName: "Extractor 1", ParamCode: "TEMP", Severity: types.SeverityCritical,
				ProcessStatus: "失控", Cpk: &cpk, CurrentValue: 92.4, TargetValue: &target, ViolationCount: 2, BatchID: "B-100"},
		},
		Warnings: []types.Issue{
			{NodeCode: "E1", ParamCode: "PH", Severity: types.SeverityWarning, Errored: true, ErrorDetail: "insufficient data"},
		},
		Insights: []string{"status: CRITICAL", "1 warnings"},
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := sampleReport()
	p1 := Render(r)
	p2 := Render(r)
	if len(p1) != len(p2) {
		t.Fatalf("len mismatch: %d vs %d", len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Errorf("paragraph %d differs: %q vs %q", i, p1[i], p2[i])
		}
	}
}

func TestRenderIncludesHeadlineAndEvidence(t *testing.T) {
	paragraphs := Render(sampleReport())
	if !strings.Contains(paragraphs[0], "B-100") {
		t.Errorf("headline = %q, want batch key present", paragraphs[0])
	}
	joined := strings.Join(paragraphs, "\n")
	if !strings.Contains(joined, "Cpk=0.750") {
		t.Errorf("expected Cpk evidence in output:\n%s", joined)
	}
	if !strings.Contains(joined, "insufficient data") {
		t.Errorf("expected errored warning detail in output:\n%s", joined)
	}
}
