// Package providers assembles DataContexts for the five dimensions the
// analysis pipeline reasons over: person, batch, process, workshop and
// time. Every operation is read-only; an unknown code returns an empty
// DataContext rather than an error, while a malformed interval fails
// with types.ErrBadRequest.
package providers

import (
	"fmt"
	"time"

	"lsscore/internal/logging"
	"lsscore/internal/store"
	"lsscore/internal/types"
)

// Store is the subset of *store.Store the providers depend on.
type Store interface {
	GetNode(code string) (types.Node, error)
	ListNodes() ([]types.Node, error)
	DescendantUnitCodes(blockCode string) ([]string, error)
	GetParameter(nodeCode, paramCode string) (types.ParameterDef, error)
	ListParametersForNode(nodeCode string) ([]types.ParameterDef, error)
	QueryMeasurementsByBatch(batchID string, limit int) ([]types.Measurement, error)
	QueryMeasurementsByNode(nodeCode, paramCode string, limit int) ([]types.Measurement, error)
	QueryMeasurementsByNodes(nodeCodes []string, paramCode string, limit int) ([]types.Measurement, error)
	QueryMeasurementsByTimeRange(start, end time.Time, limit int) ([]types.Measurement, error)
	QueryMeasurementsByOperator(operatorID string, start, end time.Time, limit int) ([]types.Measurement, error)
}

// QueryLimiter clamps a requested row limit to configured bounds.
type QueryLimiter interface {
	EffectiveQueryLimit(requested int) int
}

// Providers assembles DataContexts from the store.
type Providers struct {
	store  Store
	limits QueryLimiter
}

// New returns a Providers backed by s, bounding reads per limits.
func New(s Store, limits QueryLimiter) *Providers {
	return &Providers{store: s, limits: limits}
}

// Interval is a half-open-in-spirit, inclusive time window. A zero Start
// or End is treated as missing; both present and Start after End is
// malformed.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) validate() error {
	if iv.Start.IsZero() || iv.End.IsZero() {
		return fmt.Errorf("interval: both start and end are required: %w", types.ErrBadRequest)
	}
	if iv.Start.After(iv.End) {
		return fmt.Errorf("interval: start %s is after end %s: %w", iv.Start, iv.End, types.ErrBadRequest)
	}
	return nil
}

func (p *Providers) attachParams(ctx *types.DataContext, nodeCode, paramCode string) {
	key := types.GroupKey{NodeCode: nodeCode, ParamCode: paramCode}
	if _, ok := ctx.Params[key]; ok {
		return
	}
	if def, err := p.store.GetParameter(nodeCode, paramCode); err == nil {
		ctx.Params[key] = def
	}
	if _, ok := ctx.Nodes[nodeCode]; ok {
		return
	}
	if n, err := p.store.GetNode(nodeCode); err == nil {
		ctx.Nodes[nodeCode] = n
	}
}

func (p *Providers) fill(ctx *types.DataContext, measurements []types.Measurement) {
	for _, m := range measurements {
		key := types.GroupKey{NodeCode: m.NodeCode, ParamCode: m.ParamCode}
		ctx.Groups[key] = append(ctx.Groups[key], m)
		p.attachParams(ctx, m.NodeCode, m.ParamCode)
	}
}

// ByPerson returns measurements recorded by operatorID within iv.
func (p *Providers) ByPerson(operatorID string, iv Interval, limit int) (*types.DataContext, error) {
	if err := iv.validate(); err != nil {
		return nil, err
	}
	limit = p.limits.EffectiveQueryLimit(limit)

	ctx := types.NewDataContext(types.DimensionPerson, operatorID)
	measurements, err := p.store.QueryMeasurementsByOperator(operatorID, iv.Start, iv.End, limit)
	if err != nil {
		return nil, err
	}
	p.fill(ctx, measurements)
	ctx.Metadata["operator_id"] = operatorID
	ctx.Metadata["start"] = iv.Start
	ctx.Metadata["end"] = iv.End
	logging.ProvidersDebug("by_person(%s): %d measurements", operatorID, len(measurements))
	return ctx, nil
}

// ByBatch returns all measurements within batchID.
func (p *Providers) ByBatch(batchID string, limit int) (*types.DataContext, error) {
	limit = p.limits.EffectiveQueryLimit(limit)

	ctx := types.NewDataContext(types.DimensionBatch, batchID)
	measurements, err := p.store.QueryMeasurementsByBatch(batchID, limit)
	if err != nil {
		return nil, err
	}
	p.fill(ctx, measurements)
	ctx.Metadata["batch_id"] = batchID
	logging.ProvidersDebug("by_batch(%s): %d measurements", batchID, len(measurements))
	return ctx, nil
}

// ByProcess returns all measurements at nodeCode, scoped to paramCode
// when it is non-empty.
func (p *Providers) ByProcess(nodeCode, paramCode string, limit int) (*types.DataContext, error) {
	limit = p.limits.EffectiveQueryLimit(limit)

	ctx := types.NewDataContext(types.DimensionProcess, nodeCode)
	ctx.Metadata["node_code"] = nodeCode

	if paramCode != "" {
		measurements, err := p.store.QueryMeasurementsByNode(nodeCode, paramCode, limit)
		if err != nil {
			return nil, err
		}
		p.fill(ctx, measurements)
		logging.ProvidersDebug("by_process(%s,%s): %d measurements", nodeCode, paramCode, len(measurements))
		return ctx, nil
	}

	params, err := p.store.ListParametersForNode(nodeCode)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, def := range params {
		measurements, err := p.store.QueryMeasurementsByNode(nodeCode, def.Code, limit)
		if err != nil {
			return nil, err
		}
		p.fill(ctx, measurements)
		total += len(measurements)
	}
	logging.ProvidersDebug("by_process(%s): %d measurements across %d parameters", nodeCode, total, len(params))
	return ctx, nil
}

// ByWorkshop returns the union of measurements for every Unit descended
// from blockCode, across all of that block's parameters.
func (p *Providers) ByWorkshop(blockCode string, limit int) (*types.DataContext, error) {
	limit = p.limits.EffectiveQueryLimit(limit)

	ctx := types.NewDataContext(types.DimensionWorkshop, blockCode)
	ctx.Metadata["block_code"] = blockCode

	units, err := p.store.DescendantUnitCodes(blockCode)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return ctx, nil
	}

	paramCodes := make(map[string]bool)
	for _, unitCode := range units {
		defs, err := p.store.ListParametersForNode(unitCode)
		if err != nil {
			return nil, err
		}
		for _, def := range defs {
			paramCodes[def.Code] = true
		}
	}

	total := 0
	for paramCode := range paramCodes {
		measurements, err := p.store.QueryMeasurementsByNodes(units, paramCode, limit)
		if err != nil {
			return nil, err
		}
		p.fill(ctx, measurements)
		total += len(measurements)
	}
	logging.ProvidersDebug("by_workshop(%s): %d units, %d measurements", blockCode, len(units), total)
	return ctx, nil
}

// ByTime returns all measurements within iv.
func (p *Providers) ByTime(iv Interval, limit int) (*types.DataContext, error) {
	if err := iv.validate(); err != nil {
		return nil, err
	}
	limit = p.limits.EffectiveQueryLimit(limit)

	ctx := types.NewDataContext(types.DimensionTime, iv.Start.Format(time.RFC3339)+"/"+iv.End.Format(time.RFC3339))
	measurements, err := p.store.QueryMeasurementsByTimeRange(iv.Start, iv.End, limit)
	if err != nil {
		return nil, err
	}
	p.fill(ctx, measurements)
	ctx.Metadata["start"] = iv.Start
	ctx.Metadata["end"] = iv.End
	logging.ProvidersDebug("by_time: %d measurements", len(measurements))
	return ctx, nil
}

var _ Store = (*store.Store)(nil)
