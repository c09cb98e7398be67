// Package pareto implements the Pareto / ABC classification tool over
// categorical counts.
package pareto

import (
	"context"
	"fmt"
	"sort"

	"lsscore/internal/types"
)

// Category is one input row: a named bucket and its count.
type Category struct {
	Name  string
	Count float64
}

// Tool implements types.Tool for key "pareto".
type Tool struct{}

// New returns a pareto Tool.
func New() *Tool { return &Tool{} }

func (t *Tool) Key() string                                { return "pareto" }
func (t *Tool) Name() string                               { return "Pareto Analysis" }
func (t *Tool) Category() types.ToolCategory               { return types.ToolDescriptive }
func (t *Tool) RequiredDataShape() types.RequiredDataShape { return types.ShapeCategoricalCounts }

// Validate reports whether data is a []Category with non-negative counts.
func (t *Tool) Validate(data interface{}, config map[string]interface{}) (bool, []string) {
	cats, ok := data.([]Category)
	if !ok {
		return false, []string{"pareto requires data of type []pareto.Category"}
	}
	if len(cats) == 0 {
		return false, []string{"pareto requires at least 1 category"}
	}
	for _, c := range cats {
		if c.Count < 0 {
			return false, []string{fmt.Sprintf("category %q has negative count %v", c.Name, c.Count)}
		}
	}
	return true, nil
}

func threshold(config map[string]interface{}) float64 {
	if v, ok := config["threshold"]; ok {
		if f, ok := v.(float64); ok && f > 0 && f <= 1 {
			return f
		}
	}
	return 0.8
}

// Run executes the Pareto/ABC analysis. data must already have passed Validate.
func (t *Tool) Run(ctx context.Context, data interface{}, config map[string]interface{}) types.Result {
	cats := append([]Category(nil), data.([]Category)...)
	thr := threshold(config)

	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Count > cats[j].Count })

	total := 0.0
	for _, c := range cats {
		total += c.Count
	}

	cumCounts := make([]float64, len(cats))
	cumPct := make([]float64, len(cats))
	running := 0.0
	for i, c := range cats {
		running += c.Count
		cumCounts[i] = running
		if total > 0 {
			cumPct[i] = running / total * 100
		}
	}

	keyFewCount := len(cats)
	for i, pct := range cumPct {
		if pct >= thr*100 {
			keyFewCount = i + 1
			break
		}
	}
	keyFewContribution := 0.0
	if keyFewCount > 0 {
		keyFewContribution = cumPct[keyFewCount-1]
	}

	classes := make([]string, len(cats))
	for i, pct := range cumPct {
		switch {
		case i < keyFewCount:
			classes[i] = "A"
		case pct <= 95:
			classes[i] = "B"
		default:
			classes[i] = "C"
		}
	}

	rows := make([]map[string]interface{}, len(cats))
	names := make([]string, len(cats))
	counts := make([]float64, len(cats))
	colors := make([]string, len(cats))
	for i, c := range cats {
		rows[i] = map[string]interface{}{
			"category": c.Name, "count": c.Count, "cumulative_count": cumCounts[i],
			"cumulative_percentage": cumPct[i], "class": classes[i],
		}
		names[i] = c.Name
		counts[i] = c.Count
		colors[i] = classColor(classes[i])
	}

	keyFewPercentage := 0.0
	if len(cats) > 0 {
		keyFewPercentage = float64(keyFewCount) / float64(len(cats)) * 100
	}

	insights := []string{
		fmt.Sprintf("%d of %d categories (%.1f%%) account for %.1f%% of the total", keyFewCount, len(cats), keyFewPercentage, keyFewContribution),
	}
	topN := keyFewCount
	if topN > 3 {
		topN = 3
	}
	for i := 0; i < topN; i++ {
		insights = append(insights, fmt.Sprintf("#%d: %s (%v, %.1f%% cumulative)", i+1, cats[i].Name, cats[i].Count, cumPct[i]))
	}

	result := map[string]interface{}{
		"total_count": total, "total_categories": len(cats),
		"key_few_count": keyFewCount, "key_few_percentage": keyFewPercentage,
		"key_few_contribution": keyFewContribution, "rows": rows,
	}

	plot := types.ParetoPlotData{
		Type: "pareto", Categories: names, Counts: counts, Cumulative: cumPct,
		ThresholdLine: thr * 100, Colors: colors,
	}

	return types.Result{
		Success: true, Result: result, PlotData: plot,
		Metrics: map[string]float64{"key_few_count": float64(keyFewCount), "key_few_contribution": keyFewContribution},
		Insights: insights,
	}
}

func classColor(class string) string {
	switch class {
	case "A":
		return "#d73027"
	case "B":
		return "#fee08b"
	default:
		return "#1a9850"
	}
}
