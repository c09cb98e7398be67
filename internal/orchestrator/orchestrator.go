// Package orchestrator exposes the five public per-dimension analysis
// operations: each calls its Data Provider, runs the Workflow, and
// wraps the result in an AnalysisReport with an optional quick-actions
// list.
package orchestrator

import (
	"context"
	"fmt"

	"lsscore/internal/logging"
	"lsscore/internal/providers"
	"lsscore/internal/types"
)

// Providers is the subset of providers.Providers the orchestrator depends on.
type Providers interface {
	ByPerson(operatorID string, iv providers.Interval, limit int) (*types.DataContext, error)
	ByBatch(batchID string, limit int) (*types.DataContext, error)
	ByProcess(nodeCode, paramCode string, limit int) (*types.DataContext, error)
	ByWorkshop(blockCode string, limit int) (*types.DataContext, error)
	ByTime(iv providers.Interval, limit int) (*types.DataContext, error)
}

// Workflow evaluates a DataContext into an AnalysisReport.
type Workflow interface {
	Evaluate(ctx context.Context, dc *types.DataContext) (*types.AnalysisReport, error)
}

// DecisionEngine proposes remediation ActionDefs for an Issue.
type DecisionEngine interface {
	GenerateActions(ctx context.Context, issue types.Issue) ([]types.ActionDef, error)
}

// Orchestrator composes Providers, Workflow and an optional DecisionEngine.
type Orchestrator struct {
	providers Providers
	workflow  Workflow
	decision  DecisionEngine
}

// New returns an Orchestrator. decision may be nil, in which case
// quick_actions is always empty.
func New(p Providers, w Workflow, decision DecisionEngine) *Orchestrator {
	return &Orchestrator{providers: p, workflow: w, decision: decision}
}

// Options carries the dimension-specific parameters and shared bounds
// for an analyze_by_* call.
type Options struct {
	Limit     int
	ParamCode string             // by_process: optional
	Interval  providers.Interval // by_person / by_time
}

// Request names one dimension-scoped analysis call, the shape the
// instruction engine fans out over when generating daily orders.
type Request struct {
	Dimension types.Dimension
	Key       string
	Options   Options
}

// Analyze dispatches req to the matching AnalyzeBy* method.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*types.AnalysisReport, error) {
	switch req.Dimension {
	case types.DimensionBatch:
		return o.AnalyzeByBatch(ctx, req.Key, req.Options)
	case types.DimensionProcess:
		return o.AnalyzeByProcess(ctx, req.Key, req.Options)
	case types.DimensionWorkshop:
		return o.AnalyzeByWorkshop(ctx, req.Key, req.Options)
	case types.DimensionPerson:
		return o.AnalyzeByPerson(ctx, req.Key, req.Options)
	case types.DimensionTime:
		return o.AnalyzeByTime(ctx, req.Options)
	default:
		return nil, fmt.Errorf("orchestrator: unknown dimension %q: %w", req.Dimension, types.ErrBadRequest)
	}
}

// AnalyzeByBatch runs the batch-dimension analysis.
func (o *Orchestrator) AnalyzeByBatch(ctx context.Context, batchID string, opts Options) (*types.AnalysisReport, error) {
	dc, err := o.providers.ByBatch(batchID, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: by_batch: %w", err)
	}
	return o.evaluateAndDecorate(ctx, dc)
}

// AnalyzeByProcess runs the process-dimension analysis.
func (o *Orchestrator) AnalyzeByProcess(ctx context.Context, nodeCode string, opts Options) (*types.AnalysisReport, error) {
	dc, err := o.providers.ByProcess(nodeCode, opts.ParamCode, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: by_process: %w", err)
	}
	return o.evaluateAndDecorate(ctx, dc)
}

// AnalyzeByWorkshop runs the workshop-dimension analysis.
func (o *Orchestrator) AnalyzeByWorkshop(ctx context.Context, blockCode string, opts Options) (*types.AnalysisReport, error) {
	dc, err := o.providers.ByWorkshop(blockCode, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: by_workshop: %w", err)
	}
	return o.evaluateAndDecorate(ctx, dc)
}

// AnalyzeByPerson runs the person-dimension analysis.
func (o *Orchestrator) AnalyzeByPerson(ctx context.Context, operatorID string, opts Options) (*types.AnalysisReport, error) {
	dc, err := o.providers.ByPerson(operatorID, opts.Interval, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: by_person: %w", err)
	}
	return o.evaluateAndDecorate(ctx, dc)
}

// AnalyzeByTime runs the time-dimension analysis.
func (o *Orchestrator) AnalyzeByTime(ctx context.Context, opts Options) (*types.AnalysisReport, error) {
	dc, err := o.providers.ByTime(opts.Interval, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: by_time: %w", err)
	}
	return o.evaluateAndDecorate(ctx, dc)
}

func (o *Orchestrator) evaluateAndDecorate(ctx context.Context, dc *types.DataContext) (*types.AnalysisReport, error) {
	report, err := o.workflow.Evaluate(ctx, dc)
	if err != nil {
		return nil, err
	}

	if o.decision != nil {
		report.QuickActions = o.quickActions(ctx, report)
	}

	logging.Orchestrator("report %s/%s: status=%s quick_actions=%d", report.Dimension, report.Key, report.Status, len(report.QuickActions))
	return report, nil
}

// quickActions suggests up to one ActionDef.code per CRITICAL issue.
func (o *Orchestrator) quickActions(ctx context.Context, report *types.AnalysisReport) []string {
	var actions []string
	for _, issue := range report.CriticalIssues {
		if issue.Severity != types.SeverityCritical {
			continue
		}
		candidates, err := o.decision.GenerateActions(ctx, issue)
		if err != nil || len(candidates) == 0 {
			continue
		}
		actions = append(actions, candidates[0].Code)
	}
	return actions
}
