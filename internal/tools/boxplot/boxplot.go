// Package boxplot implements the multi-series quartile/outlier
// comparison tool.
package boxplot

import (
	"context"
	"fmt"
	"sort"

	"lsscore/internal/stats"
	"lsscore/internal/types"
)

// Tool implements types.Tool for key "boxplot".
type Tool struct{}

// New returns a boxplot Tool.
func New() *Tool { return &Tool{} }

func (t *Tool) Key() string                                { return "boxplot" }
func (t *Tool) Name() string                               { return "Boxplot Comparison" }
func (t *Tool) Category() types.ToolCategory               { return types.ToolDescriptive }
func (t *Tool) RequiredDataShape() types.RequiredDataShape { return types.ShapeMultipleTimeSeries }

// Validate reports whether data is a map[string][]float64 with at least
// one non-empty series.
func (t *Tool) Validate(data interface{}, config map[string]interface{}) (bool, []string) {
	series, ok := data.(map[string][]float64)
	if !ok {
		return false, []string{"boxplot requires data of type map[string][]float64"}
	}
	if len(series) == 0 {
		return false, []string{"boxplot requires at least 1 series"}
	}
	for name, values := range series {
		if len(values) == 0 {
			return false, []string{fmt.Sprintf("series %q has no values", name)}
		}
	}
	return true, nil
}

func outlierFactor(config map[string]interface{}) float64 {
	if v, ok := config["outlier_factor"]; ok {
		if f, ok := v.(float64); ok && f > 0 {
			return f
		}
	}
	return 1.5
}

type seriesSummary struct {
	name                            string
	min, q1, q2, q3, max, mean, std float64
	n                               int
	outliers                        []outlier
}

type outlier struct {
	value float64
	side  string // "low" | "high"
}

// Run executes the boxplot analysis. data must already have passed Validate.
func (t *Tool) Run(ctx context.Context, data interface{}, config map[string]interface{}) types.Result {
	series := data.(map[string][]float64)
	k := outlierFactor(config)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]seriesSummary, 0, len(names))
	for _, name := range names {
		values := series[name]
		q1, q2, q3 := stats.Quartiles(values)
		iqr := q3 - q1
		lowFence := q1 - k*iqr
		highFence := q3 + k*iqr
		min, max := stats.MinMax(values)

		var outliers []outlier
		for _, v := range values {
			if v < lowFence {
				outliers = append(outliers, outlier{value: v, side: "low"})
			} else if v > highFence {
				outliers = append(outliers, outlier{value: v, side: "high"})
			}
		}

		summaries = append(summaries, seriesSummary{
			name: name, min: min, q1: q1, q2: q2, q3: q3, max: max,
			mean: stats.Mean(values), std: stats.SampleStdDev(values), n: len(values), outliers: outliers,
		})
	}

	mostVariable := summaries[0]
	mostOutliers := summaries[0]
	maxMedianSeries := summaries[0]
	minMedianSeries := summaries[0]
	for _, s := range summaries[1:] {
		if s.std > mostVariable.std {
			mostVariable = s
		}
		if len(s.outliers) > len(mostOutliers.outliers) {
			mostOutliers = s
		}
		if s.q2 > maxMedianSeries.q2 {
			maxMedianSeries = s
		}
		if s.q2 < minMedianSeries.q2 {
			minMedianSeries = s
		}
	}
	medianRange := maxMedianSeries.q2 - minMedianSeries.q2

	minStd := summaries[0].std
	for _, s := range summaries[1:] {
		if s.std < minStd {
			minStd = s.std
		}
	}

	rows := make([]map[string]interface{}, len(summaries))
	plotSeries := make([]types.BoxplotSeriesPlot, len(summaries))
	for i, s := range summaries {
		outlierValues := make([]float64, len(s.outliers))
		for j, o := range s.outliers {
			outlierValues[j] = o.value
		}
		rows[i] = map[string]interface{}{
			"name": s.name, "min": s.min, "q1": s.q1, "median": s.q2, "q3": s.q3, "max": s.max,
			"mean": s.mean, "std": s.std, "n": s.n, "outliers": outlierValues,
		}
		plotSeries[i] = types.BoxplotSeriesPlot{
			Name: s.name, Min: s.min, Q1: s.q1, Median: s.q2, Q3: s.q3, Max: s.max, Outliers: outlierValues,
		}
	}

	insights := []string{
		fmt.Sprintf("%s is the most variable series (std=%.4g)", mostVariable.name, mostVariable.std),
		fmt.Sprintf("%s has the most outliers (%d)", mostOutliers.name, len(mostOutliers.outliers)),
		fmt.Sprintf("median spread between %s and %s is %.4g", minMedianSeries.name, maxMedianSeries.name, medianRange),
	}
	for _, s := range summaries {
		if len(s.outliers) == 0 && s.std <= minStd*1.5 {
			insights = append(insights, fmt.Sprintf("%s is the most stable series: no outliers, low variability", s.name))
			break
		}
	}

	result := map[string]interface{}{
		"series": rows, "most_variable": mostVariable.name, "most_outliers": mostOutliers.name,
		"max_median_series": maxMedianSeries.name, "min_median_series": minMedianSeries.name,
		"median_range": medianRange,
	}

	plot := types.BoxplotPlotData{Type: "boxplot", Series: plotSeries}

	return types.Result{
		Success: true, Result: result, PlotData: plot,
		Metrics: map[string]float64{"median_range": medianRange}, Insights: insights,
	}
}
