package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lsscore/internal/logging"
	"lsscore/internal/types"
)

// InsertInstructionIfAbsent inserts a new Pending Instruction, assigning
// it an id if it doesn't already have one. If an instruction already
// exists for the same (TargetDate, Role, ActionCode, BatchID, NodeCode)
// tuple, the write is a silent no-op and the existing instruction's id
// is returned: duplicate generation attempts coalesce rather than fail.
func (s *Store) InsertInstructionIfAbsent(in types.Instruction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existingID, err := s.findInstructionLocked(in.TargetDate, in.Role, in.ActionCode, in.BatchID, in.NodeCode)
	if err == nil {
		logging.StoreDebug("instruction dedup hit for %s/%s/%s", in.TargetDate, in.Role, in.ActionCode)
		return existingID, nil
	}
	if err != sql.ErrNoRows {
		return "", wrapStoreErr("InsertInstructionIfAbsent.lookup", err)
	}

	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Status == "" {
		in.Status = types.StatusPending
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	evidence, err := json.Marshal(in.Evidence)
	if err != nil {
		return "", fmt.Errorf("store: marshal evidence: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO data_instructions
			(id, target_date, role, action_code, batch_id, node_code, content, status, priority,
			 evidence, feedback, instruction_type, created_at, read_at, done_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL)`,
		in.ID, in.TargetDate, string(in.Role), in.ActionCode, in.BatchID, in.NodeCode,
		in.Content, string(in.Status), string(in.Priority), string(evidence), in.Feedback,
		string(in.InstructionType), in.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			existingID, lookupErr := s.findInstructionLocked(in.TargetDate, in.Role, in.ActionCode, in.BatchID, in.NodeCode)
			if lookupErr == nil {
				return existingID, nil
			}
		}
		return "", wrapStoreErr("InsertInstructionIfAbsent", err)
	}
	return in.ID, nil
}

func (s *Store) findInstructionLocked(targetDate string, role types.Role, actionCode, batchID, nodeCode string) (string, error) {
	var id string
	err := s.db.QueryRow(
		`SELECT id FROM data_instructions
		 WHERE target_date = ? AND role = ? AND action_code = ? AND batch_id = ? AND node_code = ?`,
		targetDate, string(role), actionCode, batchID, nodeCode,
	).Scan(&id)
	return id, err
}

func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}

func scanInstruction(row interface {
	Scan(dest ...interface{}) error
}) (types.Instruction, error) {
	var in types.Instruction
	var evidence sql.NullString
	var feedback sql.NullString
	var readAt, doneAt sql.NullTime

	err := row.Scan(
		&in.ID, &in.TargetDate, &in.Role, &in.ActionCode, &in.BatchID, &in.NodeCode,
		&in.Content, &in.Status, &in.Priority, &evidence, &feedback, &in.InstructionType,
		&in.CreatedAt, &readAt, &doneAt,
	)
	if err != nil {
		return types.Instruction{}, err
	}

	if evidence.Valid && evidence.String != "" {
		_ = json.Unmarshal([]byte(evidence.String), &in.Evidence)
	}
	in.Feedback = feedback.String
	if readAt.Valid {
		in.ReadAt = &readAt.Time
	}
	if doneAt.Valid {
		in.DoneAt = &doneAt.Time
	}
	return in, nil
}

const instructionCols = `id, target_date, role, action_code, batch_id, node_code, content, status,
	priority, evidence, feedback, instruction_type, created_at, read_at, done_at`

// GetInstruction returns an instruction by id, or types.ErrUnknownEntity.
func (s *Store) GetInstruction(id string) (types.Instruction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, err := scanInstruction(s.db.QueryRow(`SELECT `+instructionCols+` FROM data_instructions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return types.Instruction{}, fmt.Errorf("instruction %s: %w", id, types.ErrUnknownEntity)
	}
	if err != nil {
		return types.Instruction{}, wrapStoreErr("GetInstruction", err)
	}
	return in, nil
}

// ListInstructionsByRole returns instructions for role on targetDate. If
// status is non-empty, results are additionally filtered by status.
func (s *Store) ListInstructionsByRole(role types.Role, targetDate string, status types.InstructionStatus) ([]types.Instruction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + instructionCols + ` FROM data_instructions WHERE role = ? AND target_date = ?`
	args := []interface{}{string(role), targetDate}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapStoreErr("ListInstructionsByRole", err)
	}
	defer rows.Close()

	var out []types.Instruction
	for rows.Next() {
		in, err := scanInstruction(rows)
		if err != nil {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

// MarkRead transitions an instruction from Pending to Read. It returns
// types.ErrBadTransition if the instruction is not currently Pending.
func (s *Store) MarkRead(id string) error {
	return s.transition(id, types.StatusRead, func(in *types.Instruction, now time.Time) {
		in.ReadAt = &now
	})
}

// MarkDone transitions an instruction from Read to Done, recording the
// operator's feedback. It returns types.ErrBadTransition if the
// instruction is not currently Read.
func (s *Store) MarkDone(id, feedback string) error {
	return s.transition(id, types.StatusDone, func(in *types.Instruction, now time.Time) {
		in.DoneAt = &now
		in.Feedback = feedback
	})
}

func (s *Store) transition(id string, next types.InstructionStatus, apply func(*types.Instruction, time.Time)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, err := scanInstruction(s.db.QueryRow(`SELECT `+instructionCols+` FROM data_instructions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return fmt.Errorf("instruction %s: %w", id, types.ErrUnknownEntity)
	}
	if err != nil {
		return wrapStoreErr("transition.lookup", err)
	}

	if !in.CanTransitionTo(next) {
		return fmt.Errorf("instruction %s: %s -> %s: %w", id, in.Status, next, types.ErrBadTransition)
	}

	now := time.Now().UTC()
	apply(&in, now)
	in.Status = next

	_, err = s.db.Exec(
		`UPDATE data_instructions SET status = ?, feedback = ?, read_at = ?, done_at = ? WHERE id = ?`,
		string(in.Status), in.Feedback, in.ReadAt, in.DoneAt, id,
	)
	if err != nil {
		return wrapStoreErr("transition.update", err)
	}
	return nil
}
