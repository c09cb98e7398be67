// Package histogram implements the distribution-shape tool: binning,
// descriptive moments and an approximate normality test.
package histogram

import (
	"context"
	"fmt"
	"math"

	"lsscore/internal/stats"
	"lsscore/internal/types"
)

// Tool implements types.Tool for key "histogram".
type Tool struct{}

// New returns a histogram Tool.
func New() *Tool { return &Tool{} }

func (t *Tool) Key() string                                { return "histogram" }
func (t *Tool) Name() string                               { return "Histogram / Distribution Shape" }
func (t *Tool) Category() types.ToolCategory               { return types.ToolDescriptive }
func (t *Tool) RequiredDataShape() types.RequiredDataShape { return types.ShapeTimeSeries }

// Validate reports whether data is a non-empty []float64.
func (t *Tool) Validate(data interface{}, config map[string]interface{}) (bool, []string) {
	x, ok := data.([]float64)
	if !ok {
		return false, []string{"histogram requires data of type []float64"}
	}
	if len(x) < 1 {
		return false, []string{"histogram requires at least 1 data point"}
	}
	return true, nil
}

func intConfig(config map[string]interface{}, key string, fallback int) int {
	if v, ok := config[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return fallback
}

func floatConfig(config map[string]interface{}, key string) *float64 {
	v, ok := config[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	}
	return nil
}

// Run executes the histogram analysis. data must already have passed Validate.
func (t *Tool) Run(ctx context.Context, data interface{}, config map[string]interface{}) types.Result {
	x := data.([]float64)
	n := len(x)
	bins := intConfig(config, "bins", 10)
	if bins < 1 {
		bins = 1
	}
	usl := floatConfig(config, "usl")
	lsl := floatConfig(config, "lsl")

	mean := stats.Mean(x)
	std := stats.SampleStdDev(x)
	median := stats.Median(x)
	min, max := stats.MinMax(x)
	skewness := stats.Skewness(x)
	kurtosis := stats.Kurtosis(x)

	counts, boundaries := histogramBins(x, min, max, bins)

	var pValue *float64
	var isNormal *bool
	if p, ok := stats.ShapiroWilkP(x); ok {
		pValue = &p
		normal := p >= 0.05
		isNormal = &normal
	}

	label := distributionLabel(isNormal, skewness, kurtosis)

	var warnings []string
	if usl != nil && max > *usl {
		warnings = append(warnings, fmt.Sprintf("max value %.4g exceeds USL %.4g", max, *usl))
	}
	if lsl != nil && min < *lsl {
		warnings = append(warnings, fmt.Sprintf("min value %.4g is below LSL %.4g", min, *lsl))
	}
	if isNormal != nil && !*isNormal {
		warnings = append(warnings, "distribution is not normal")
	}

	lines := types.HistogramLines{
		Mean:   types.HistogramLine{X: mean, Label: "mean"},
		Median: types.HistogramLine{X: median, Label: "median"},
	}
	if usl != nil {
		lines.USL = &types.HistogramLine{X: *usl, Label: "USL"}
	}
	if lsl != nil {
		lines.LSL = &types.HistogramLine{X: *lsl, Label: "LSL"}
	}

	result := map[string]interface{}{
		"mean": mean, "std": std, "median": median, "min": min, "max": max, "n": n,
		"skewness": skewness, "kurtosis": kurtosis, "p_value": pValue, "is_normal": isNormal,
		"distribution_label": label,
	}

	plot := types.HistogramPlotData{Type: "histogram", Bins: boundaries, Counts: counts, Lines: lines}

	metrics := map[string]float64{"mean": mean, "std": std, "skewness": skewness, "kurtosis": kurtosis}
	if pValue != nil {
		metrics["p_value"] = *pValue
	}

	insights := []string{fmt.Sprintf("distribution shape: %s (n=%d)", label, n)}

	return types.Result{Success: true, Result: result, PlotData: plot, Metrics: metrics, Warnings: warnings, Insights: insights}
}

// histogramBins returns per-bin counts and the bin boundary array
// (len(boundaries) == bins+1), uniform over [min,max], each bin
// right-open except the last.
func histogramBins(x []float64, min, max float64, bins int) ([]int, []float64) {
	boundaries := make([]float64, bins+1)
	width := (max - min) / float64(bins)
	if width == 0 {
		width = 1
	}
	for i := 0; i <= bins; i++ {
		boundaries[i] = min + float64(i)*width
	}

	counts := make([]int, bins)
	for _, v := range x {
		idx := int((v - min) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts, boundaries
}

func distributionLabel(isNormal *bool, skewness, kurtosis float64) string {
	if isNormal != nil && *isNormal {
		return types.DistributionNormal
	}
	if math.Abs(skewness) < 1 && math.Abs(kurtosis) < 2 {
		return types.DistributionNearNormal
	}
	if skewness < 0 {
		return types.DistributionLeftSkewed
	}
	if skewness > 0 {
		return types.DistributionRightSkewed
	}
	return types.DistributionIrregular
}
