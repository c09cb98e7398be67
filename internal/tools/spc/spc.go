// Package spc implements the statistical process control tool: control
// limits, capability indices and violation detection over an ordered
// sequence of measurements.
package spc

import (
	"context"
	"fmt"
	"math"

	"lsscore/internal/stats"
	"lsscore/internal/types"
)

const controlLimitConstant = 2.66 // 3/d2 for moving-range subgroup size 2

// Tool implements types.Tool for key "spc".
type Tool struct{}

// New returns an spc Tool.
func New() *Tool { return &Tool{} }

func (t *Tool) Key() string                                { return "spc" }
func (t *Tool) Name() string                               { return "Statistical Process Control" }
func (t *Tool) Category() types.ToolCategory               { return types.ToolDiagnostic }
func (t *Tool) RequiredDataShape() types.RequiredDataShape { return types.ShapeTimeSeries }

// Validate reports whether data is a []float64 of at least 2 values.
func (t *Tool) Validate(data interface{}, config map[string]interface{}) (bool, []string) {
	x, ok := data.([]float64)
	if !ok {
		return false, []string{"spc requires data of type []float64"}
	}
	if len(x) < 2 {
		return false, []string{fmt.Sprintf("spc requires at least 2 data points, got %d", len(x))}
	}
	return true, nil
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

// Run executes the spc analysis. data must already have passed Validate.
func (t *Tool) Run(ctx context.Context, data interface{}, config map[string]interface{}) types.Result {
	x := data.([]float64)
	n := len(x)

	usl := floatConfig(config, "usl")
	lsl := floatConfig(config, "lsl")
	target := floatConfig(config, "target")

	mean := stats.Mean(x)
	std := stats.SampleStdDev(x)

	mrSum := 0.0
	for i := 1; i < n; i++ {
		mrSum += math.Abs(x[i] - x[i-1])
	}
	mrBar := mrSum / float64(n-1)

	ucl := mean + controlLimitConstant*mrBar
	lcl := mean - controlLimitConstant*mrBar

	var cp, cpu, cpl, cpk *float64
	if usl != nil && lsl != nil && std > 0 {
		v := (*usl - *lsl) / (6 * std)
		cp = &v
	}
	if usl != nil && std > 0 {
		v := (*usl - mean) / (3 * std)
		cpu = &v
	}
	if lsl != nil && std > 0 {
		v := (mean - *lsl) / (3 * std)
		cpl = &v
	}
	switch {
	case cpu != nil && cpl != nil:
		v := math.Min(*cpu, *cpl)
		cpk = &v
	case cpu != nil:
		cpk = cpu
	case cpl != nil:
		cpk = cpl
	}

	var violations []types.SPCViolation
	anyThreeSigma := false
	for i, v := range x {
		if v > ucl || v < lcl {
			violations = append(violations, types.SPCViolation{Index: i, Value: v, Type: "", Rule: "Out of control limit"})
		}
		if usl != nil && v > *usl {
			violations = append(violations, types.SPCViolation{Index: i, Value: v, Type: "USL", Rule: "USL"})
		}
		if lsl != nil && v < *lsl {
			violations = append(violations, types.SPCViolation{Index: i, Value: v, Type: "LSL", Rule: "LSL"})
		}
		if std > 0 && math.Abs(v-mean) > 3*std {
			anyThreeSigma = true
		}
	}

	processStatus := types.ProcessStatusControlled
	switch {
	case anyThreeSigma || len(violations) > 0:
		processStatus = types.ProcessStatusOutOfControl
	case cpk != nil && *cpk < 1.33:
		processStatus = types.ProcessStatusWarning
	}

	insights := []string{cpkGradeInsight(cpk), fmt.Sprintf("%d data points analysed", n), fmt.Sprintf("%d violations detected", len(violations))}
	if len(violations) > 0 {
		worst := violations[0]
		worstDev := math.Abs(worst.Value - mean)
		for _, v := range violations {
			if d := math.Abs(v.Value - mean); d > worstDev {
				worst, worstDev = v, d
			}
		}
		insights = append(insights, fmt.Sprintf("largest deviation at index %d (value %.4g)", worst.Index, worst.Value))
	}

	plot := types.SPCPlotData{
		Type: "spc", Values: x, UCL: &ucl, LCL: &lcl, Target: target, USL: usl, LSL: lsl, Violations: violations,
	}

	metrics := map[string]float64{"mean": mean, "std": std, "ucl": ucl, "lcl": lcl}
	if cp != nil {
		metrics["cp"] = *cp
	}
	if cpk != nil {
		metrics["cpk"] = *cpk
	}

	result := map[string]interface{}{
		"mean": mean, "std": std, "ucl": ucl, "lcl": lcl,
		"cp": cp, "cpu": cpu, "cpl": cpl, "cpk": cpk,
		"process_status": processStatus, "violations": violations,
	}

	return types.Result{
		Success: true, Result: result, PlotData: plot, Metrics: metrics, Insights: insights,
	}
}

func cpkGradeInsight(cpk *float64) string {
	if cpk == nil {
		return "Cpk unavailable: insufficient specification limits"
	}
	grade := "不足"
	switch {
	case *cpk >= 1.33:
		grade = "优秀"
	case *cpk >= 1.0:
		grade = "良好"
	case *cpk >= 0.67:
		grade = "勉强"
	}
	return fmt.Sprintf("Cpk = %.3f (%s)", *cpk, grade)
}
