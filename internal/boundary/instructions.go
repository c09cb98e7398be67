package boundary

import (
	"fmt"

	"lsscore/internal/types"
)

// InstructionsListResponse answers GET /api/instructions.
type InstructionsListResponse struct {
	Envelope
	Instructions []types.Instruction `json:"instructions,omitempty"`
}

// ListInstructions filters by role (required) and an optional status; an
// empty status returns every status. target_date is required since
// Instructions are generated per day.
func (d *Dispatcher) ListInstructions(role types.Role, targetDate string, status types.InstructionStatus) InstructionsListResponse {
	if role == "" || targetDate == "" {
		err := fmt.Errorf("role and target_date are required: %w", types.ErrBadRequest)
		logRequest("list_instructions", err)
		return InstructionsListResponse{Envelope: fail(err.Error())}
	}

	instructions, err := d.instructions.GetInstructionsByRole(role, targetDate, status)
	if err != nil {
		logRequest("list_instructions", err)
		return InstructionsListResponse{Envelope: fail(err.Error())}
	}

	logRequest("list_instructions", nil)
	return InstructionsListResponse{Envelope: ok(), Instructions: instructions}
}

// MarkInstructionRead answers POST /api/instructions/{id}/read.
func (d *Dispatcher) MarkInstructionRead(id string) Envelope {
	if id == "" {
		err := fmt.Errorf("id is required: %w", types.ErrBadRequest)
		logRequest("mark_read", err)
		return fail(err.Error())
	}
	if err := d.instructions.MarkRead(id); err != nil {
		logRequest("mark_read", err)
		return fail(err.Error())
	}
	logRequest("mark_read", nil)
	return ok()
}

// MarkDoneRequest is the body for POST /api/instructions/{id}/done.
type MarkDoneRequest struct {
	Feedback string `json:"feedback,omitempty"`
}

// MarkInstructionDone answers POST /api/instructions/{id}/done.
func (d *Dispatcher) MarkInstructionDone(id string, req MarkDoneRequest) Envelope {
	if id == "" {
		err := fmt.Errorf("id is required: %w", types.ErrBadRequest)
		logRequest("mark_done", err)
		return fail(err.Error())
	}
	if err := d.instructions.MarkDone(id, req.Feedback); err != nil {
		logRequest("mark_done", err)
		return fail(err.Error())
	}
	logRequest("mark_done", nil)
	return ok()
}
