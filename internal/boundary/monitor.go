package boundary

import (
	"context"
	"fmt"

	"lsscore/internal/monitor"
	"lsscore/internal/types"
)

// NodeMonitorResponse answers GET /api/monitor/node/{code}.
type NodeMonitorResponse struct {
	Envelope
	*monitor.NodeMonitor
}

// NodeMonitorView returns the per-parameter series, latest value and
// rolling Cpk for a node.
func (d *Dispatcher) NodeMonitorView(ctx context.Context, nodeCode string) NodeMonitorResponse {
	if nodeCode == "" {
		err := fmt.Errorf("node_code is required: %w", types.ErrBadRequest)
		logRequest("node_monitor", err)
		return NodeMonitorResponse{Envelope: fail(err.Error())}
	}

	result, err := d.monitor.NodeMonitor(ctx, nodeCode)
	if err != nil {
		logRequest("node_monitor", err)
		return NodeMonitorResponse{Envelope: fail(err.Error())}
	}

	logRequest("node_monitor", nil)
	return NodeMonitorResponse{Envelope: ok(), NodeMonitor: result}
}

// LatestStatusResponse answers GET /api/monitor/latest.
type LatestStatusResponse struct {
	Envelope
	Units []monitor.UnitStatus `json:"units,omitempty"`
}

// LatestStatusView returns the plant-wide Unit status snapshot.
func (d *Dispatcher) LatestStatusView(ctx context.Context) LatestStatusResponse {
	units, err := d.monitor.LatestStatus(ctx)
	if err != nil {
		logRequest("latest_status", err)
		return LatestStatusResponse{Envelope: fail(err.Error())}
	}
	logRequest("latest_status", nil)
	return LatestStatusResponse{Envelope: ok(), Units: units}
}
