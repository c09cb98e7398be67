package main

import (
	"context"
	"fmt"

	"lsscore/internal/boundary"
	"lsscore/internal/config"
	"lsscore/internal/decision"
	"lsscore/internal/instructions"
	"lsscore/internal/monitor"
	"lsscore/internal/orchestrator"
	"lsscore/internal/providers"
	"lsscore/internal/store"
	"lsscore/internal/tools"
	"lsscore/internal/tools/boxplot"
	"lsscore/internal/tools/histogram"
	"lsscore/internal/tools/pareto"
	"lsscore/internal/tools/spc"
	"lsscore/internal/types"
	"lsscore/internal/workflow"
)

// app composes every component the CLI dispatches to, wired once per
// process from a loaded Config.
type app struct {
	cfg          *config.Config
	store        *store.Store
	tools        *tools.Registry
	orchestrator *orchestrator.Orchestrator
	instructions *instructions.Engine
	monitor      *monitor.Monitor
	boundary     *boundary.Dispatcher
}

// newApp opens the store and wires every component from cfg.
func newApp(cfg *config.Config) (*app, error) {
	st, err := store.New(cfg.Store.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	registry := tools.NewRegistry()
	registry.MustRegister(spc.New())
	registry.MustRegister(pareto.New())
	registry.MustRegister(histogram.New())
	registry.MustRegister(boxplot.New())

	prov := providers.New(st, cfg)
	wf := workflow.New(registry)

	catalog, err := st.ListActionDefs()
	if err != nil {
		return nil, fmt.Errorf("load action catalog: %w", err)
	}
	decisionEngine, err := newDecisionEngine(cfg, catalog)
	if err != nil {
		return nil, fmt.Errorf("build decision engine: %w", err)
	}

	orch := orchestrator.New(prov, wf, decisionEngine)
	instrEngine := instructions.New(orch, decisionEngine, st)
	mon := monitor.New(st, registry, 0)
	disp := boundary.New(st, orch, registry, instrEngine, mon)

	return &app{
		cfg:          cfg,
		store:        st,
		tools:        registry,
		orchestrator: orch,
		instructions: instrEngine,
		monitor:      mon,
		boundary:     disp,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// newDecisionEngine builds the action-recommendation engine selected by
// cfg.Decision.Mode. config.Validate rejects "llm" mode without an API key
// before newApp is ever reached, so APIKey is assumed present here.
func newDecisionEngine(cfg *config.Config, catalog []types.ActionDef) (orchestrator.DecisionEngine, error) {
	switch cfg.Decision.Mode {
	case "llm":
		return decision.NewGeminiDecisionEngine(context.Background(), cfg.Decision.LLM.APIKey, cfg.Decision.LLM.Model, catalog)
	default:
		return decision.NewRuleEngine(catalog, nil)
	}
}
