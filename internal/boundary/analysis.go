package boundary

import (
	"context"
	"fmt"

	"lsscore/internal/orchestrator"
	"lsscore/internal/providers"
	"lsscore/internal/types"
)

// AnalysisRequest is the POST body shape for the one-endpoint-per-dimension
// analysis surface: dimension names which endpoint it came in on, key is
// the dimension-scoped identifier (batch_id, node_code, block_code,
// operator_id, or empty for by_time).
type AnalysisRequest struct {
	Dimension types.Dimension `json:"dimension"`
	Key       string          `json:"key,omitempty"`
	ParamCode string          `json:"param_code,omitempty"`
	Limit     int             `json:"limit,omitempty"`
	Start     string          `json:"start,omitempty"` // RFC3339, person/time only
	End       string          `json:"end,omitempty"`
}

// AnalysisResponse wraps an AnalysisReport in the minimum wire envelope.
type AnalysisResponse struct {
	Envelope
	Report *types.AnalysisReport `json:"report,omitempty"`
}

// Analyze validates req and runs the matching dimension analysis.
func (d *Dispatcher) Analyze(ctx context.Context, req AnalysisRequest) AnalysisResponse {
	if req.Dimension != types.DimensionTime && req.Key == "" {
		err := fmt.Errorf("key is required for dimension %q: %w", req.Dimension, types.ErrBadRequest)
		logRequest("analyze", err)
		return AnalysisResponse{Envelope: fail(err.Error())}
	}

	opts := orchestrator.Options{Limit: req.Limit, ParamCode: req.ParamCode}
	if req.Dimension == types.DimensionPerson || req.Dimension == types.DimensionTime {
		iv, err := parseInterval(req.Start, req.End)
		if err != nil {
			logRequest("analyze", err)
			return AnalysisResponse{Envelope: fail(err.Error())}
		}
		opts.Interval = iv
	}

	report, err := d.analyzer.Analyze(ctx, orchestrator.Request{Dimension: req.Dimension, Key: req.Key, Options: opts})
	if err != nil {
		logRequest("analyze", err)
		return AnalysisResponse{Envelope: fail(err.Error())}
	}

	logRequest("analyze", nil)
	return AnalysisResponse{Envelope: ok(), Report: report}
}

func parseInterval(start, end string) (providers.Interval, error) {
	if start == "" || end == "" {
		return providers.Interval{}, nil
	}
	s, err := parseRFC3339(start)
	if err != nil {
		return providers.Interval{}, fmt.Errorf("start: %w: %v", types.ErrBadRequest, err)
	}
	e, err := parseRFC3339(end)
	if err != nil {
		return providers.Interval{}, fmt.Errorf("end: %w: %v", types.ErrBadRequest, err)
	}
	return providers.Interval{Start: s, End: e}, nil
}
