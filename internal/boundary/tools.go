package boundary

import (
	"context"

	"lsscore/internal/tools/pareto"
	"lsscore/internal/types"
)

// ToolRunRequest is the POST body for /api/lss/tools/{tool_key}/run.
type ToolRunRequest struct {
	Data   interface{}            `json:"data"`
	Config map[string]interface{} `json:"config,omitempty"`
}

// ToolRunResponse mirrors types.Result, already the uniform envelope the
// operation surface has always returned for tool runs.
type ToolRunResponse struct {
	types.Result
}

// RunTool dispatches to the named tool with the caller-supplied data shape
// already decoded (ShapeTimeSeries -> []float64, ShapeCategoricalCounts ->
// []pareto.Category, ShapeMultipleTimeSeries -> map[string][]float64).
func (d *Dispatcher) RunTool(ctx context.Context, toolKey string, req ToolRunRequest) ToolRunResponse {
	result, err := d.tools.Run(ctx, toolKey, req.Data, req.Config)
	if err != nil {
		logRequest("run_tool:"+toolKey, err)
		return ToolRunResponse{Result: types.Failure(err.Error())}
	}
	logRequest("run_tool:"+toolKey, nil)
	return ToolRunResponse{Result: result}
}

// SPCRequest is the body for POST /api/lss/spc/analyze.
type SPCRequest struct {
	Values []float64 `json:"values"`
	USL    *float64  `json:"usl,omitempty"`
	LSL    *float64  `json:"lsl,omitempty"`
	Target *float64  `json:"target,omitempty"`
}

// AnalyzeSPC runs the spc tool directly against an explicit series,
// bypassing the provider/dimension layer for ad hoc UI charting.
func (d *Dispatcher) AnalyzeSPC(ctx context.Context, req SPCRequest) ToolRunResponse {
	config := configFromLimits(req.USL, req.LSL, req.Target)
	return d.RunTool(ctx, "spc", ToolRunRequest{Data: req.Values, Config: config})
}

// HistogramRequest is the body for POST /api/lss/histogram/analyze.
type HistogramRequest struct {
	Values []float64 `json:"values"`
	USL    *float64  `json:"usl,omitempty"`
	LSL    *float64  `json:"lsl,omitempty"`
	Bins   *int       `json:"bins,omitempty"`
}

// AnalyzeHistogram runs the histogram tool directly against an explicit series.
func (d *Dispatcher) AnalyzeHistogram(ctx context.Context, req HistogramRequest) ToolRunResponse {
	config := configFromLimits(req.USL, req.LSL, nil)
	if req.Bins != nil {
		config["bins"] = float64(*req.Bins)
	}
	return d.RunTool(ctx, "histogram", ToolRunRequest{Data: req.Values, Config: config})
}

// ParetoCategory is one wire-decoded category count for POST /api/lss/pareto/analyze.
type ParetoCategory struct {
	Name  string  `json:"name"`
	Count float64 `json:"count"`
}

// ParetoRequest is the body for POST /api/lss/pareto/analyze.
type ParetoRequest struct {
	Categories []ParetoCategory `json:"categories"`
	Threshold  *float64         `json:"threshold,omitempty"`
}

// AnalyzePareto runs the pareto tool directly against explicit category counts.
func (d *Dispatcher) AnalyzePareto(ctx context.Context, req ParetoRequest) ToolRunResponse {
	cats := make([]pareto.Category, len(req.Categories))
	for i, c := range req.Categories {
		cats[i] = pareto.Category{Name: c.Name, Count: c.Count}
	}
	config := map[string]interface{}{}
	if req.Threshold != nil {
		config["threshold"] = *req.Threshold
	}
	return d.RunTool(ctx, "pareto", ToolRunRequest{Data: cats, Config: config})
}

// BoxplotRequest is the body for POST /api/lss/boxplot/analyze.
type BoxplotRequest struct {
	Series map[string][]float64 `json:"series"`
}

// AnalyzeBoxplot runs the boxplot tool directly against explicit named series.
func (d *Dispatcher) AnalyzeBoxplot(ctx context.Context, req BoxplotRequest) ToolRunResponse {
	return d.RunTool(ctx, "boxplot", ToolRunRequest{Data: req.Series})
}

func configFromLimits(usl, lsl, target *float64) map[string]interface{} {
	config := map[string]interface{}{}
	if usl != nil {
		config["usl"] = *usl
	}
	if lsl != nil {
		config["lsl"] = *lsl
	}
	if target != nil {
		config["target"] = *target
	}
	return config
}
