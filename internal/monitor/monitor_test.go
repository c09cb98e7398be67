package monitor

import (
	"context"
	"testing"
	"time"

	"lsscore/internal/types"
)

type fakeStore struct {
	nodes  []types.Node
	params map[string][]types.ParameterDef
	meas   map[string][]types.Measurement
}

func (f *fakeStore) ListNodes() ([]types.Node, error) { return f.nodes, nil }

func (f *fakeStore) ListParametersForNode(nodeCode string) ([]types.ParameterDef, error) {
	return f.params[nodeCode], nil
}

func (f *fakeStore) QueryMeasurementsByNode(nodeCode, paramCode string, limit int) ([]types.Measurement, error) {
	return f.meas[nodeCode+"|"+paramCode], nil
}

type fakeTools struct {
	cpkByKey map[string]float64 // keyed by fmt of values length, simplistic per test
	fail     bool
}

func (f *fakeTools) Run(ctx context.Context, key string, data interface{}, config map[string]interface{}) (types.Result, error) {
	if f.fail {
		return types.Result{Success: false}, nil
	}
	values, _ := data.([]float64)
	cpk := f.cpkByKey[lenKey(len(values))]
	return types.Result{Success: true, Result: map[string]interface{}{"cpk": &cpk}}, nil
}

func lenKey(n int) string {
	switch n {
	case 2:
		return "low"
	case 3:
		return "high"
	default:
		return "default"
	}
}

func ts(minute int) time.Time {
	return time.Date(2026, 8, 1, 0, minute, 0, 0, time.UTC)
}

func TestNodeMonitorReturnsSeriesLatestValueAndCpk(t *testing.T) {
	store := &fakeStore{
		params: map[string][]types.ParameterDef{
			"E1": {{NodeCode: "E1", Code: "TEMP"}},
		},
		meas: map[string][]types.Measurement{
			"E1|TEMP": {
				{NodeCode: "E1", ParamCode: "TEMP", Value: 10, Timestamp: ts(1)},
				{NodeCode: "E1", ParamCode: "TEMP", Value: 12, Timestamp: ts(2)},
				{NodeCode: "E1", ParamCode: "TEMP", Value: 14, Timestamp: ts(3)},
			},
		},
	}
	tools := &fakeTools{cpkByKey: map[string]float64{"high": 1.5}}
	mon := New(store, tools, 0)

	result, err := mon.NodeMonitor(context.Background(), "E1")
	if err != nil {
		t.Fatalf("NodeMonitor error = %v", err)
	}
	if len(result.Parameters) != 1 {
		t.Fatalf("len(Parameters) = %d, want 1", len(result.Parameters))
	}
	pm := result.Parameters[0]
	if len(pm.Series) != 3 {
		t.Errorf("len(Series) = %d, want 3", len(pm.Series))
	}
	if pm.LatestValue == nil || *pm.LatestValue != 14 {
		t.Errorf("LatestValue = %v, want 14", pm.LatestValue)
	}
	if pm.Cpk == nil || *pm.Cpk != 1.5 {
		t.Errorf("Cpk = %v, want 1.5", pm.Cpk)
	}
}

func TestNodeMonitorOmitsCpkWhenToolFails(t *testing.T) {
	store := &fakeStore{
		params: map[string][]types.ParameterDef{"E1": {{NodeCode: "E1", Code: "TEMP"}}},
		meas: map[string][]types.Measurement{
			"E1|TEMP": {
				{NodeCode: "E1", ParamCode: "TEMP", Value: 10, Timestamp: ts(1)},
				{NodeCode: "E1", ParamCode: "TEMP", Value: 11, Timestamp: ts(2)},
			},
		},
	}
	tools := &fakeTools{fail: true}
	mon := New(store, tools, 0)

	result, err := mon.NodeMonitor(context.Background(), "E1")
	if err != nil {
		t.Fatalf("NodeMonitor error = %v", err)
	}
	if result.Parameters[0].Cpk != nil {
		t.Errorf("Cpk = %v, want nil when tool fails", result.Parameters[0].Cpk)
	}
}

func TestLatestStatusClassifiesByWorstCpkAcrossParameters(t *testing.T) {
	store := &fakeStore{
		nodes: []types.Node{
			{Code: "U1", Type: types.NodeUnit},
			{Code: "B1", Type: types.NodeBlock}, // not a Unit, excluded
		},
		params: map[string][]types.ParameterDef{
			"U1": {{NodeCode: "U1", Code: "TEMP"}, {NodeCode: "U1", Code: "PH"}},
		},
		meas: map[string][]types.Measurement{
			"U1|TEMP": {
				{NodeCode: "U1", ParamCode: "TEMP", Value: 1, Timestamp: ts(1)},
				{NodeCode: "U1", ParamCode: "TEMP", Value: 2, Timestamp: ts(5)},
			},
			"U1|PH": {
				{NodeCode: "U1", ParamCode: "PH", Value: 1, Timestamp: ts(2)},
				{NodeCode: "U1", ParamCode: "PH", Value: 2, Timestamp: ts(3)},
				{NodeCode: "U1", ParamCode: "PH", Value: 3, Timestamp: ts(4)},
			},
		},
	}
	// "low" key (2 values, TEMP) -> 1.2 (Warning band); "high" key (3 values, PH) -> 1.5 (Normal).
	// Worst (minimum) across the node's parameters should win: 1.2 -> Warning.
	tools := &fakeTools{cpkByKey: map[string]float64{"low": 1.2, "high": 1.5}}
	mon := New(store, tools, 0)

	statuses, err := mon.LatestStatus(context.Background())
	if err != nil {
		t.Fatalf("LatestStatus error = %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("len(statuses) = %d, want 1 (non-Unit node excluded)", len(statuses))
	}
	got := statuses[0]
	if got.NodeCode != "U1" {
		t.Errorf("NodeCode = %q, want U1", got.NodeCode)
	}
	if got.Status != StatusWarning {
		t.Errorf("Status = %q, want Warning (worst Cpk 1.2 across parameters)", got.Status)
	}
	if !got.LatestObserved.Equal(ts(5)) {
		t.Errorf("LatestObserved = %v, want %v (max across parameters)", got.LatestObserved, ts(5))
	}
}

func TestLatestStatusOmitsUnitWithNoComputableCpk(t *testing.T) {
	store := &fakeStore{
		nodes:  []types.Node{{Code: "U1", Type: types.NodeUnit}},
		params: map[string][]types.ParameterDef{"U1": {{NodeCode: "U1", Code: "TEMP"}}},
		meas:   map[string][]types.Measurement{"U1|TEMP": {{NodeCode: "U1", ParamCode: "TEMP", Value: 1, Timestamp: ts(1)}}},
	}
	tools := &fakeTools{}
	mon := New(store, tools, 0)

	statuses, err := mon.LatestStatus(context.Background())
	if err != nil {
		t.Fatalf("LatestStatus error = %v", err)
	}
	if len(statuses) != 0 {
		t.Errorf("statuses = %v, want empty (single measurement can't produce Cpk)", statuses)
	}
}
