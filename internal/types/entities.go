package types

import "time"

// Node is a unit in the process graph. Codes are unique process-wide and
// immutable after bootstrap; Nodes form a forest (Block at roots, Units
// under Blocks, Resources attached to Blocks).
type Node struct {
	Code       string   `json:"code" yaml:"code"`
	Name       string   `json:"name" yaml:"name"`
	Type       NodeType `json:"type" yaml:"type"`
	ParentCode string   `json:"parent_code,omitempty" yaml:"parent_code,omitempty"`
	PositionX  float64  `json:"position_x,omitempty" yaml:"position_x,omitempty"`
	PositionY  float64  `json:"position_y,omitempty" yaml:"position_y,omitempty"`
	Hidden     bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// ParameterDef is a measurable attribute of a Node. (NodeCode, Code) is
// unique. If both USL and LSL are present, LSL < USL; Target, if present,
// lies within [LSL, USL].
type ParameterDef struct {
	NodeCode string        `json:"node_code"`
	Code     string        `json:"code"`
	Name     string        `json:"name"`
	Unit     string        `json:"unit,omitempty"`
	Role     ParameterRole `json:"role"`
	USL      *float64      `json:"usl,omitempty"`
	LSL      *float64      `json:"lsl,omitempty"`
	Target   *float64      `json:"target,omitempty"`
	DataType DataType      `json:"data_type"`
}

// Edge is a directed flow between two Nodes.
type Edge struct {
	SourceCode string  `json:"source_code"`
	TargetCode string  `json:"target_code"`
	Name       string  `json:"name,omitempty"`
	LossRate   float64 `json:"loss_rate,omitempty"`
}

// Risk is a fault-tree node.
type Risk struct {
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	Category        RiskCategory `json:"category"`
	BaseProbability *float64     `json:"base_probability,omitempty"`
}

// RiskEdge is a directed causal edge between Risks (child cause -> parent
// effect). RiskEdges must form a DAG; cycle rejection happens at import
// time, outside this module's scope.
type RiskEdge struct {
	ChildCode  string `json:"child_code"`
	ParentCode string `json:"parent_code"`
}

// Batch is a production run. It is created implicitly at the first
// Measurement write for an unseen BatchID ("auto-create batch").
type Batch struct {
	ID          string      `json:"id"`
	ProductName string      `json:"product_name"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     *time.Time  `json:"end_time,omitempty"`
	Status      BatchStatus `json:"status"`
}

// Measurement is a single data point. It must reference an existing
// Batch, Node and ParameterDef, and is ordered by Timestamp per
// (BatchID, NodeCode, ParamCode). OperatorID is optional and, when set,
// attributes the reading to the operator who recorded it, the join key
// the person dimension queries on.
type Measurement struct {
	BatchID    string            `json:"batch_id"`
	NodeCode   string            `json:"node_code"`
	ParamCode  string            `json:"param_code"`
	Value      float64           `json:"value"`
	Timestamp  time.Time         `json:"timestamp"`
	Source     MeasurementSource `json:"source"`
	OperatorID string            `json:"operator_id,omitempty"`
}

// ActionDef is a remediation template.
type ActionDef struct {
	Code                string   `json:"code"`
	Name                string   `json:"name"`
	RiskCode            string   `json:"risk_code,omitempty"`
	TargetRole          Role     `json:"target_role"`
	InstructionTemplate string   `json:"instruction_template"`
	Priority            Priority `json:"priority"`
	Category            string   `json:"category,omitempty"`
}

// Evidence is an unstructured record of the scalars that drove an
// Instruction's generation (Cpk, current/target value, violation counts).
// Readers must tolerate unknown keys.
type Evidence map[string]interface{}

// Instruction is a materialised per-role directive with a forward-only
// Pending -> Read -> Done lifecycle. Duplicates for the same
// (TargetDate, Role, ActionCode, BatchID, NodeCode) are coalesced; the
// second generation attempt is a no-op.
type Instruction struct {
	ID              string            `json:"id"`
	TargetDate      string            `json:"target_date"` // YYYY-MM-DD
	Role            Role              `json:"role"`
	ActionCode      string            `json:"action_code"`
	BatchID         string            `json:"batch_id,omitempty"`
	NodeCode        string            `json:"node_code,omitempty"`
	Content         string            `json:"content"`
	Status          InstructionStatus `json:"status"`
	Priority        Priority          `json:"priority"`
	Evidence        Evidence          `json:"evidence,omitempty"`
	Feedback        string            `json:"feedback,omitempty"`
	InstructionType InstructionType   `json:"instruction_type"`
	CreatedAt       time.Time         `json:"created_at"`
	ReadAt          *time.Time        `json:"read_at,omitempty"`
	DoneAt          *time.Time        `json:"done_at,omitempty"`
}

// CanTransitionTo reports whether the forward-only lifecycle permits
// moving from the Instruction's current status to next.
func (i *Instruction) CanTransitionTo(next InstructionStatus) bool {
	switch i.Status {
	case StatusPending:
		return next == StatusRead
	case StatusRead:
		return next == StatusDone
	default:
		return false
	}
}
