// Package instructions implements daily order generation: it fans out
// across the dimension keys in scope, asks the Orchestrator for an
// AnalysisReport per key, consults the Decision Engine for candidate
// ActionDefs on every issue, renders each into a per-role Instruction,
// and persists it with dedup-on-insert semantics. Generated Instructions
// are never retracted.
package instructions

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"lsscore/internal/logging"
	"lsscore/internal/orchestrator"
	"lsscore/internal/types"
)

// Analyzer is the subset of orchestrator.Orchestrator the engine depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req orchestrator.Request) (*types.AnalysisReport, error)
}

// DecisionEngine proposes remediation ActionDefs for an Issue.
type DecisionEngine interface {
	GenerateActions(ctx context.Context, issue types.Issue) ([]types.ActionDef, error)
}

// Store is the subset of *store.Store the engine depends on.
type Store interface {
	InsertInstructionIfAbsent(in types.Instruction) (string, error)
	ListInstructionsByRole(role types.Role, targetDate string, status types.InstructionStatus) ([]types.Instruction, error)
	MarkRead(id string) error
	MarkDone(id, feedback string) error
}

// Engine generates and tracks daily Instructions.
type Engine struct {
	analyzer Analyzer
	decision DecisionEngine
	store    Store
}

// New returns an Engine.
func New(analyzer Analyzer, decision DecisionEngine, store Store) *Engine {
	return &Engine{analyzer: analyzer, decision: decision, store: store}
}

// GenerateDailyOrders runs the requested dimension analyses concurrently
// (one goroutine per request with no concurrency limit, no nested
// parallelism within a single analysis),
// generates candidate Instructions for every critical issue and
// warning, deduplicates them at the store, and returns the persisted
// Instructions grouped by role. A per-request failure is recorded
// rather than aborting the whole run.
func (e *Engine) GenerateDailyOrders(ctx context.Context, targetDate string, requests []orchestrator.Request) (map[types.Role][]types.Instruction, []string, error) {
	var mu sync.Mutex
	byRole := make(map[types.Role][]types.Instruction)
	var errs []string
	addError := func(msg string) {
		mu.Lock()
		errs = append(errs, msg)
		mu.Unlock()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, req := range requests {
		req := req
		eg.Go(func() error {
			report, err := e.analyzer.Analyze(egCtx, req)
			if err != nil {
				addError(fmt.Sprintf("analyze %s/%s: %v", req.Dimension, req.Key, err))
				return nil
			}

			issues := append(append([]types.Issue{}, report.CriticalIssues...), report.Warnings...)
			for _, issue := range issues {
				if issue.Errored {
					continue
				}
				created, err := e.generateForIssue(egCtx, targetDate, issue)
				if err != nil {
					addError(fmt.Sprintf("generate instructions for %s/%s: %v", issue.NodeCode, issue.ParamCode, err))
					continue
				}
				mu.Lock()
				for _, in := range created {
					byRole[in.Role] = append(byRole[in.Role], in)
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	logging.Instructions("generate_daily_orders %s: %d dimension request(s), %d error(s)", targetDate, len(requests), len(errs))
	return byRole, errs, nil
}

func (e *Engine) generateForIssue(ctx context.Context, targetDate string, issue types.Issue) ([]types.Instruction, error) {
	actions, err := e.decision.GenerateActions(ctx, issue)
	if err != nil {
		return nil, err
	}

	bag := valueBag(issue)
	var created []types.Instruction
	for _, action := range actions {
		content := render(action.InstructionTemplate, bag)

		evidence := types.Evidence{
			"current_value":   issue.CurrentValue,
			"violation_count": issue.ViolationCount,
			"process_status":  issue.ProcessStatus,
		}
		if issue.Cpk != nil {
			evidence["cpk"] = *issue.Cpk
		}
		if issue.TargetValue != nil {
			evidence["target_value"] = *issue.TargetValue
		}

		in := types.Instruction{
			TargetDate:      targetDate,
			Role:            action.TargetRole,
			ActionCode:      action.Code,
			BatchID:         issue.BatchID,
			NodeCode:        issue.NodeCode,
			Content:         content,
			Priority:        action.Priority,
			Evidence:        evidence,
			InstructionType: types.InstructionTactical,
		}

		id, err := e.store.InsertInstructionIfAbsent(in)
		if err != nil {
			return created, err
		}
		in.ID = id
		in.Status = types.StatusPending
		created = append(created, in)
	}
	return created, nil
}

// GetInstructionsByRole is a read-only filter over persisted Instructions.
func (e *Engine) GetInstructionsByRole(role types.Role, targetDate string, status types.InstructionStatus) ([]types.Instruction, error) {
	return e.store.ListInstructionsByRole(role, targetDate, status)
}

// MarkRead transitions an Instruction Pending -> Read.
func (e *Engine) MarkRead(id string) error {
	return e.store.MarkRead(id)
}

// MarkDone transitions an Instruction Read -> Done, recording feedback.
func (e *Engine) MarkDone(id, feedback string) error {
	return e.store.MarkDone(id, feedback)
}
