package store

import (
	"database/sql"
	"fmt"

	"lsscore/internal/types"
)

// UpsertRisk inserts or replaces a fault-tree node.
func (s *Store) UpsertRisk(r types.Risk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO meta_risk_nodes (code, name, category, base_probability)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET name = excluded.name, category = excluded.category,
			base_probability = excluded.base_probability`,
		r.Code, r.Name, string(r.Category), r.BaseProbability,
	)
	if err != nil {
		return wrapStoreErr("UpsertRisk", err)
	}
	return nil
}

// GetRisk returns a fault-tree node by code, or types.ErrUnknownEntity.
func (s *Store) GetRisk(code string) (types.Risk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r types.Risk
	err := s.db.QueryRow(
		`SELECT code, name, category, base_probability FROM meta_risk_nodes WHERE code = ?`, code,
	).Scan(&r.Code, &r.Name, &r.Category, &r.BaseProbability)
	if err == sql.ErrNoRows {
		return types.Risk{}, fmt.Errorf("risk %s: %w", code, types.ErrUnknownEntity)
	}
	if err != nil {
		return types.Risk{}, wrapStoreErr("GetRisk", err)
	}
	return r, nil
}

// ListRisks returns every fault-tree node.
func (s *Store) ListRisks() ([]types.Risk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT code, name, category, base_probability FROM meta_risk_nodes ORDER BY code`)
	if err != nil {
		return nil, wrapStoreErr("ListRisks", err)
	}
	defer rows.Close()

	var out []types.Risk
	for rows.Next() {
		var r types.Risk
		if err := rows.Scan(&r.Code, &r.Name, &r.Category, &r.BaseProbability); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// UpsertRiskEdge inserts a causal edge between two Risks.
func (s *Store) UpsertRiskEdge(e types.RiskEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO meta_risk_edges (child_code, parent_code) VALUES (?, ?)
		 ON CONFLICT(child_code, parent_code) DO NOTHING`,
		e.ChildCode, e.ParentCode,
	)
	if err != nil {
		return wrapStoreErr("UpsertRiskEdge", err)
	}
	return nil
}

// ListRiskEdges returns every causal edge in the fault tree.
func (s *Store) ListRiskEdges() ([]types.RiskEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT child_code, parent_code FROM meta_risk_edges`)
	if err != nil {
		return nil, wrapStoreErr("ListRiskEdges", err)
	}
	defer rows.Close()

	var out []types.RiskEdge
	for rows.Next() {
		var e types.RiskEdge
		if err := rows.Scan(&e.ChildCode, &e.ParentCode); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// UpsertActionDef inserts or replaces a remediation template.
func (s *Store) UpsertActionDef(a types.ActionDef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var risk interface{}
	if a.RiskCode != "" {
		risk = a.RiskCode
	}

	_, err := s.db.Exec(
		`INSERT INTO meta_actions (code, name, risk_code, target_role, instruction_template, priority, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
			name = excluded.name, risk_code = excluded.risk_code, target_role = excluded.target_role,
			instruction_template = excluded.instruction_template, priority = excluded.priority,
			category = excluded.category`,
		a.Code, a.Name, risk, string(a.TargetRole), a.InstructionTemplate, string(a.Priority), a.Category,
	)
	if err != nil {
		return wrapStoreErr("UpsertActionDef", err)
	}
	return nil
}

// GetActionDef returns an action template by code, or types.ErrUnknownEntity.
func (s *Store) GetActionDef(code string) (types.ActionDef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a types.ActionDef
	var risk sql.NullString
	err := s.db.QueryRow(
		`SELECT code, name, risk_code, target_role, instruction_template, priority, category
		 FROM meta_actions WHERE code = ?`, code,
	).Scan(&a.Code, &a.Name, &risk, &a.TargetRole, &a.InstructionTemplate, &a.Priority, &a.Category)
	if err == sql.ErrNoRows {
		return types.ActionDef{}, fmt.Errorf("action %s: %w", code, types.ErrUnknownEntity)
	}
	if err != nil {
		return types.ActionDef{}, wrapStoreErr("GetActionDef", err)
	}
	a.RiskCode = risk.String
	return a, nil
}

// ListActionDefs returns every action template.
func (s *Store) ListActionDefs() ([]types.ActionDef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT code, name, risk_code, target_role, instruction_template, priority, category
		 FROM meta_actions ORDER BY code`)
	if err != nil {
		return nil, wrapStoreErr("ListActionDefs", err)
	}
	defer rows.Close()

	var out []types.ActionDef
	for rows.Next() {
		var a types.ActionDef
		var risk sql.NullString
		if err := rows.Scan(&a.Code, &a.Name, &risk, &a.TargetRole, &a.InstructionTemplate, &a.Priority, &a.Category); err != nil {
			continue
		}
		a.RiskCode = risk.String
		out = append(out, a)
	}
	return out, nil
}
