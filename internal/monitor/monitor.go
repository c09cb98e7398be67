// Package monitor implements the two read-only monitoring views: a
// per-node drill-down with rolling capability, and a plant-wide latest
// status snapshot for map colouring.
package monitor

import (
	"context"
	"time"

	"lsscore/internal/logging"
	"lsscore/internal/types"
)

// Store is the subset of *store.Store the monitor depends on.
type Store interface {
	ListNodes() ([]types.Node, error)
	ListParametersForNode(nodeCode string) ([]types.ParameterDef, error)
	QueryMeasurementsByNode(nodeCode, paramCode string, limit int) ([]types.Measurement, error)
}

// ToolRunner is the subset of tools.Registry the monitor depends on, used
// to compute rolling Cpk with the same rules as the spc tool.
type ToolRunner interface {
	Run(ctx context.Context, key string, data interface{}, config map[string]interface{}) (types.Result, error)
}

// Monitor implements node_monitor and latest_status.
type Monitor struct {
	store      Store
	tools      ToolRunner
	windowSize int
}

// New returns a Monitor. windowSize bounds how many recent measurements
// per parameter feed the rolling Cpk computation; zero selects a
// built-in default.
func New(store Store, tools ToolRunner, windowSize int) *Monitor {
	if windowSize <= 0 {
		windowSize = 30
	}
	return &Monitor{store: store, tools: tools, windowSize: windowSize}
}

// SeriesPoint is one chart-ready (timestamp, value) sample.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// ParameterMonitor is one parameter's monitoring view within a node_monitor response.
type ParameterMonitor struct {
	ParamCode   string        `json:"param_code"`
	Series      []SeriesPoint `json:"series"`
	LatestValue *float64      `json:"latest_value,omitempty"`
	Cpk         *float64      `json:"cpk,omitempty"`
}

// NodeMonitor is the node_monitor(node_code) response.
type NodeMonitor struct {
	NodeCode   string             `json:"node_code"`
	Parameters []ParameterMonitor `json:"parameters"`
}

// NodeMonitor returns the last-window measurements, rolling Cpk and
// latest value for every parameter of nodeCode.
func (m *Monitor) NodeMonitor(ctx context.Context, nodeCode string) (*NodeMonitor, error) {
	params, err := m.store.ListParametersForNode(nodeCode)
	if err != nil {
		return nil, err
	}

	result := &NodeMonitor{NodeCode: nodeCode}
	for _, param := range params {
		measurements, err := m.store.QueryMeasurementsByNode(nodeCode, param.Code, m.windowSize)
		if err != nil {
			return nil, err
		}

		pm := ParameterMonitor{ParamCode: param.Code}
		for _, meas := range measurements {
			pm.Series = append(pm.Series, SeriesPoint{Timestamp: meas.Timestamp, Value: meas.Value})
		}
		if len(measurements) > 0 {
			v := measurements[len(measurements)-1].Value
			pm.LatestValue = &v
		}
		if cpk, ok := m.rollingCpk(ctx, measurements, param); ok {
			pm.Cpk = cpk
		}
		result.Parameters = append(result.Parameters, pm)
	}

	return result, nil
}

// Status classifies a Unit node for map colouring.
type Status string

const (
	StatusNormal  Status = "Normal"
	StatusWarning Status = "Warning"
	StatusError   Status = "Error"
)

// UnitStatus is one row of the latest_status() response.
type UnitStatus struct {
	NodeCode       string    `json:"node_code"`
	LatestObserved time.Time `json:"latest_observed"`
	Status         Status    `json:"status"`
}

// LatestStatus returns, for every Unit node, the latest observation
// timestamp across its parameters and a status derived from the worst
// (lowest) rolling Cpk among them: >= 1.33 Normal, >= 1.0 Warning, else
// Error. A Unit with no computable Cpk on any parameter is omitted.
func (m *Monitor) LatestStatus(ctx context.Context) ([]UnitStatus, error) {
	nodes, err := m.store.ListNodes()
	if err != nil {
		return nil, err
	}

	var out []UnitStatus
	for _, node := range nodes {
		if node.Type != types.NodeUnit {
			continue
		}

		params, err := m.store.ListParametersForNode(node.Code)
		if err != nil {
			return nil, err
		}

		var worstCpk *float64
		var latest time.Time
		haveCpk := false
		for _, param := range params {
			measurements, err := m.store.QueryMeasurementsByNode(node.Code, param.Code, m.windowSize)
			if err != nil {
				return nil, err
			}
			if len(measurements) > 0 {
				if ts := measurements[len(measurements)-1].Timestamp; ts.After(latest) {
					latest = ts
				}
			}
			cpk, ok := m.rollingCpk(ctx, measurements, param)
			if !ok {
				continue
			}
			haveCpk = true
			if worstCpk == nil || *cpk < *worstCpk {
				worstCpk = cpk
			}
		}
		if !haveCpk {
			continue
		}

		status := StatusError
		switch {
		case *worstCpk >= 1.33:
			status = StatusNormal
		case *worstCpk >= 1.0:
			status = StatusWarning
		}

		out = append(out, UnitStatus{NodeCode: node.Code, LatestObserved: latest, Status: status})
	}

	logging.Monitor("latest_status: %d unit(s) with computable capability", len(out))
	return out, nil
}

func (m *Monitor) rollingCpk(ctx context.Context, measurements []types.Measurement, param types.ParameterDef) (*float64, bool) {
	if len(measurements) < 2 {
		return nil, false
	}
	values := make([]float64, len(measurements))
	for i, meas := range measurements {
		values[i] = meas.Value
	}

	config := map[string]interface{}{}
	if param.USL != nil {
		config["usl"] = *param.USL
	}
	if param.LSL != nil {
		config["lsl"] = *param.LSL
	}
	if param.Target != nil {
		config["target"] = *param.Target
	}

	result, err := m.tools.Run(ctx, "spc", values, config)
	if err != nil || !result.Success {
		return nil, false
	}
	v, ok := result.Result["cpk"]
	if !ok || v == nil {
		return nil, false
	}
	cpk, ok := v.(*float64)
	if !ok || cpk == nil {
		return nil, false
	}
	return cpk, true
}
