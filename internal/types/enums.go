// Package types holds the domain entities and cross-cutting data shapes
// shared across lsscore's components. Types here have no dependency on any
// specific component package, avoiding import cycles between store,
// providers, tools, workflow, orchestrator, decision and instructions.
package types

// NodeType classifies a process graph node.
type NodeType string

const (
	NodeBlock    NodeType = "Block"
	NodeUnit     NodeType = "Unit"
	NodeResource NodeType = "Resource"
)

// ParameterRole classifies a ParameterDef's place in the process.
type ParameterRole string

const (
	RoleInput   ParameterRole = "Input"
	RoleControl ParameterRole = "Control"
	RoleOutput  ParameterRole = "Output"
)

// DataType classifies the shape of values a ParameterDef carries.
type DataType string

const (
	DataScalar   DataType = "Scalar"
	DataSpectrum DataType = "Spectrum"
	DataImage    DataType = "Image"
	DataGrade    DataType = "Grade"
)

// RiskCategory classifies a fault-tree Risk node.
type RiskCategory string

const (
	RiskTop         RiskCategory = "Top"
	RiskEquipment   RiskCategory = "Equipment"
	RiskMaterial    RiskCategory = "Material"
	RiskHuman       RiskCategory = "Human"
	RiskEnvironment RiskCategory = "Environment"
	RiskMethod      RiskCategory = "Method"
)

// MeasurementSource records how a Measurement was captured.
type MeasurementSource string

const (
	SourceHistory    MeasurementSource = "HISTORY"
	SourceSimulation MeasurementSource = "SIMULATION"
	SourceSensor     MeasurementSource = "SENSOR"
	SourceInput      MeasurementSource = "INPUT"
)

// BatchStatus tracks a production run's lifecycle.
type BatchStatus string

const (
	BatchRunning   BatchStatus = "Running"
	BatchCompleted BatchStatus = "Completed"
)

// Role is the target audience of an ActionDef / Instruction.
type Role string

const (
	RoleOperator    Role = "Operator"
	RoleQA          Role = "QA"
	RoleTeamLeader  Role = "TeamLeader"
	RoleManager     Role = "Manager"
)

// Priority ranks ActionDefs and Instructions.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// priorityRank gives a total order for tie-breaking, highest first.
var priorityRank = map[Priority]int{
	PriorityCritical: 3,
	PriorityHigh:     2,
	PriorityMedium:   1,
	PriorityLow:      0,
}

// Rank returns a comparable integer for sorting priorities descending.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// InstructionStatus is the forward-only lifecycle state of an Instruction.
type InstructionStatus string

const (
	StatusPending InstructionStatus = "Pending"
	StatusRead    InstructionStatus = "Read"
	StatusDone    InstructionStatus = "Done"
)

// InstructionType distinguishes day-to-day from longer-horizon directives.
type InstructionType string

const (
	InstructionTactical  InstructionType = "tactical"
	InstructionStrategic InstructionType = "strategic"
)

// ToolCategory classifies an analysis tool's purpose.
type ToolCategory string

const (
	ToolDescriptive  ToolCategory = "Descriptive"
	ToolDiagnostic   ToolCategory = "Diagnostic"
	ToolPredictive   ToolCategory = "Predictive"
	ToolPrescriptive ToolCategory = "Prescriptive"
)

// RequiredDataShape is the shape of data a tool's run() expects.
type RequiredDataShape string

const (
	ShapeTimeSeries         RequiredDataShape = "TimeSeries"
	ShapeCategoricalCounts  RequiredDataShape = "CategoricalCounts"
	ShapeMultipleTimeSeries RequiredDataShape = "MultipleTimeSeries"
)

// Severity classifies how urgently an analysis group needs attention.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityWarning  Severity = "WARNING"
	SeverityNormal   Severity = "NORMAL"
)

var severityRank = map[Severity]int{
	SeverityCritical: 3,
	SeverityHigh:     2,
	SeverityWarning:  1,
	SeverityNormal:   0,
}

// Rank returns a comparable integer for sorting severities descending.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Dimension identifies which analysis axis an AnalysisReport was produced for.
type Dimension string

const (
	DimensionBatch    Dimension = "batch"
	DimensionProcess  Dimension = "process"
	DimensionWorkshop Dimension = "workshop"
	DimensionPerson   Dimension = "person"
	DimensionTime     Dimension = "time"
)

// Chinese process-status and distribution labels, kept verbatim for UI
// compatibility per the source system's wire format.
const (
	ProcessStatusControlled   = "受控"
	ProcessStatusWarning      = "警告"
	ProcessStatusOutOfControl = "失控"

	DistributionNormal      = "正态"
	DistributionNearNormal  = "近似正态"
	DistributionLeftSkewed  = "左偏"
	DistributionRightSkewed = "右偏"
	DistributionIrregular   = "不规则"

	MonitorNormal  = "Normal"
	MonitorWarning = "Warning"
	MonitorError   = "Error"
)
