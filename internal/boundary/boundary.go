// Package boundary is the request-dispatch layer: one method per
// operation in the external surface (graph, analysis, tools,
// instructions, monitor), each validating its input and returning a
// JSON-tagged envelope with the same field names the operation surface
// has always used. No transport is wired here — every method takes
// already-decoded Go values and returns already-encodable ones, so a
// future net/http (or any other) adapter is pure marshalling glue.
package boundary

import (
	"context"

	"lsscore/internal/logging"
	"lsscore/internal/monitor"
	"lsscore/internal/orchestrator"
	"lsscore/internal/types"
)

// GraphStore is the subset of *store.Store the graph operations depend on.
type GraphStore interface {
	ListNodes() ([]types.Node, error)
	ListEdges() ([]types.Edge, error)
	ListRisks() ([]types.Risk, error)
	ListRiskEdges() ([]types.RiskEdge, error)
	ListActionDefs() ([]types.ActionDef, error)
}

// Analyzer is the subset of orchestrator.Orchestrator the analysis
// operation depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req orchestrator.Request) (*types.AnalysisReport, error)
}

// ToolRunner is the subset of tools.Registry the tool operations depend on.
type ToolRunner interface {
	Run(ctx context.Context, key string, data interface{}, config map[string]interface{}) (types.Result, error)
}

// InstructionsEngine is the subset of instructions.Engine the instruction
// operations depend on.
type InstructionsEngine interface {
	GetInstructionsByRole(role types.Role, targetDate string, status types.InstructionStatus) ([]types.Instruction, error)
	MarkRead(id string) error
	MarkDone(id, feedback string) error
}

// Monitor is the subset of *monitor.Monitor the monitor operations depend on.
type Monitor interface {
	NodeMonitor(ctx context.Context, nodeCode string) (*monitor.NodeMonitor, error)
	LatestStatus(ctx context.Context) ([]monitor.UnitStatus, error)
}

// Dispatcher composes every component the operation surface fans out to.
type Dispatcher struct {
	store        GraphStore
	analyzer     Analyzer
	tools        ToolRunner
	instructions InstructionsEngine
	monitor      Monitor
}

// New returns a Dispatcher composing the components each operation group
// fans out to.
func New(store GraphStore, analyzer Analyzer, tools ToolRunner, instructionsEngine InstructionsEngine, mon Monitor) *Dispatcher {
	return &Dispatcher{store: store, analyzer: analyzer, tools: tools, instructions: instructionsEngine, monitor: mon}
}

// Envelope is embedded in every response; Success/Errors are the
// minimum wire-format contract every operation's response carries.
type Envelope struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

func ok() Envelope           { return Envelope{Success: true} }
func fail(errs ...string) Envelope { return Envelope{Success: false, Errors: errs} }

func logRequest(operation string, err error) {
	if err != nil {
		logging.BoundaryWarn("%s failed: %v", operation, err)
		return
	}
	logging.Boundary("%s ok", operation)
}
