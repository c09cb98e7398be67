package types

import "context"

// Tool is the uniform contract every analysis procedure implements.
// Metadata is static; Validate is pure; Run performs the analysis and
// returns a Result envelope (never panics, never returns a bare error for
// a domain-level failure — those go in Result.Errors).
type Tool interface {
	Key() string
	Name() string
	Category() ToolCategory
	RequiredDataShape() RequiredDataShape
	Validate(data interface{}, config map[string]interface{}) (bool, []string)
	Run(ctx context.Context, data interface{}, config map[string]interface{}) Result
}

// Result is the uniform result envelope every Tool.Run returns.
type Result struct {
	Success  bool                   `json:"success"`
	Result   map[string]interface{} `json:"result,omitempty"`
	PlotData interface{}            `json:"plot_data,omitempty"`
	Metrics  map[string]float64     `json:"metrics,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
	Errors   []string               `json:"errors,omitempty"`
	Insights []string               `json:"insights,omitempty"`
}

// Failure builds a Result with success=false and the given errors, the
// shape every tool returns on a validation or InsufficientData failure
// instead of propagating a Go error.
func Failure(errs ...string) Result {
	return Result{Success: false, Errors: errs}
}

// SPCViolation records one SPC rule breach.
type SPCViolation struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
	Type  string  `json:"type"` // "USL" | "LSL" | "" for a control-limit breach
	Rule  string  `json:"rule"`
}

// SPCPlotData is the bit-exact plot_data payload for the spc tool.
type SPCPlotData struct {
	Type       string         `json:"type"`
	Values     []float64      `json:"values"`
	UCL        *float64       `json:"ucl"`
	LCL        *float64       `json:"lcl"`
	Target     *float64       `json:"target"`
	USL        *float64       `json:"usl"`
	LSL        *float64       `json:"lsl"`
	Violations []SPCViolation `json:"violations"`
}

// ParetoPlotData is the bit-exact plot_data payload for the pareto tool.
type ParetoPlotData struct {
	Type          string    `json:"type"`
	Categories    []string  `json:"categories"`
	Counts        []float64 `json:"counts"`
	Cumulative    []float64 `json:"cumulative"`
	ThresholdLine float64   `json:"threshold_line"`
	Colors        []string  `json:"colors"`
}

// HistogramLine annotates a vertical reference line on a histogram.
type HistogramLine struct {
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// HistogramLines groups the reference lines a histogram chart overlays.
type HistogramLines struct {
	Mean   HistogramLine  `json:"mean"`
	Median HistogramLine  `json:"median"`
	USL    *HistogramLine `json:"usl,omitempty"`
	LSL    *HistogramLine `json:"lsl,omitempty"`
}

// HistogramPlotData is the bit-exact plot_data payload for the histogram tool.
type HistogramPlotData struct {
	Type   string         `json:"type"`
	Bins   []float64      `json:"bins"`
	Counts []int          `json:"counts"`
	Lines  HistogramLines `json:"lines"`
}

// BoxplotSeriesPlot is one series' plot-ready summary.
type BoxplotSeriesPlot struct {
	Name     string    `json:"name"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers"`
}

// BoxplotPlotData is the bit-exact plot_data payload for the boxplot tool.
type BoxplotPlotData struct {
	Type   string              `json:"type"`
	Series []BoxplotSeriesPlot `json:"series"`
}
