package store

import (
	"database/sql"
	"fmt"

	"lsscore/internal/logging"
	"lsscore/internal/types"
)

// UpsertNode inserts or replaces a process graph node. Nodes are
// immutable after bootstrap in steady state, but re-running the
// bootstrap importer is expected to be idempotent.
func (s *Store) UpsertNode(n types.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var parent interface{}
	if n.ParentCode != "" {
		parent = n.ParentCode
	}

	_, err := s.db.Exec(
		`INSERT INTO meta_process_nodes (code, name, type, parent_code, position_x, position_y, hidden)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
			name = excluded.name, type = excluded.type, parent_code = excluded.parent_code,
			position_x = excluded.position_x, position_y = excluded.position_y, hidden = excluded.hidden`,
		n.Code, n.Name, string(n.Type), parent, n.PositionX, n.PositionY, n.Hidden,
	)
	if err != nil {
		logging.StoreError("upsert node %s failed: %v", n.Code, err)
		return wrapStoreErr("UpsertNode", err)
	}
	return nil
}

// GetNode returns a node by code, or types.ErrUnknownEntity if absent.
func (s *Store) GetNode(code string) (types.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n types.Node
	var parent sql.NullString
	err := s.db.QueryRow(
		`SELECT code, name, type, parent_code, position_x, position_y, hidden
		 FROM meta_process_nodes WHERE code = ?`, code,
	).Scan(&n.Code, &n.Name, &n.Type, &parent, &n.PositionX, &n.PositionY, &n.Hidden)
	if err == sql.ErrNoRows {
		return types.Node{}, fmt.Errorf("node %s: %w", code, types.ErrUnknownEntity)
	}
	if err != nil {
		return types.Node{}, wrapStoreErr("GetNode", err)
	}
	n.ParentCode = parent.String
	return n, nil
}

// ListNodes returns every node, ordered by code.
func (s *Store) ListNodes() ([]types.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT code, name, type, parent_code, position_x, position_y, hidden
		 FROM meta_process_nodes ORDER BY code`)
	if err != nil {
		return nil, wrapStoreErr("ListNodes", err)
	}
	defer rows.Close()

	var out []types.Node
	for rows.Next() {
		var n types.Node
		var parent sql.NullString
		if err := rows.Scan(&n.Code, &n.Name, &n.Type, &parent, &n.PositionX, &n.PositionY, &n.Hidden); err != nil {
			continue
		}
		n.ParentCode = parent.String
		out = append(out, n)
	}
	return out, nil
}

// DescendantUnitCodes returns the codes of all Unit nodes transitively
// parented under blockCode, the expansion by_workshop needs.
func (s *Store) DescendantUnitCodes(blockCode string) ([]string, error) {
	nodes, err := s.ListNodes()
	if err != nil {
		return nil, err
	}

	children := make(map[string][]types.Node)
	for _, n := range nodes {
		if n.ParentCode != "" {
			children[n.ParentCode] = append(children[n.ParentCode], n)
		}
	}

	var out []string
	queue := []string{blockCode}
	for len(queue) > 0 {
		code := queue[0]
		queue = queue[1:]
		for _, child := range children[code] {
			if child.Type == types.NodeUnit {
				out = append(out, child.Code)
			}
			queue = append(queue, child.Code)
		}
	}
	return out, nil
}

// UpsertEdge inserts or replaces a process-flow edge.
func (s *Store) UpsertEdge(e types.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO meta_process_flows (source_code, target_code, name, loss_rate)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_code, target_code) DO UPDATE SET name = excluded.name, loss_rate = excluded.loss_rate`,
		e.SourceCode, e.TargetCode, e.Name, e.LossRate,
	)
	if err != nil {
		return wrapStoreErr("UpsertEdge", err)
	}
	return nil
}

// ListEdges returns every process-flow edge.
func (s *Store) ListEdges() ([]types.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT source_code, target_code, name, loss_rate FROM meta_process_flows`)
	if err != nil {
		return nil, wrapStoreErr("ListEdges", err)
	}
	defer rows.Close()

	var out []types.Edge
	for rows.Next() {
		var e types.Edge
		if err := rows.Scan(&e.SourceCode, &e.TargetCode, &e.Name, &e.LossRate); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// UpsertParameter inserts or replaces a parameter definition.
func (s *Store) UpsertParameter(p types.ParameterDef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO meta_parameters (node_code, code, name, unit, role, usl, lsl, target, data_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(node_code, code) DO UPDATE SET
			name = excluded.name, unit = excluded.unit, role = excluded.role,
			usl = excluded.usl, lsl = excluded.lsl, target = excluded.target, data_type = excluded.data_type`,
		p.NodeCode, p.Code, p.Name, p.Unit, string(p.Role), p.USL, p.LSL, p.Target, string(p.DataType),
	)
	if err != nil {
		return wrapStoreErr("UpsertParameter", err)
	}
	return nil
}

// GetParameter returns a parameter definition for (nodeCode, paramCode),
// or types.ErrUnknownEntity if absent.
func (s *Store) GetParameter(nodeCode, paramCode string) (types.ParameterDef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p types.ParameterDef
	err := s.db.QueryRow(
		`SELECT node_code, code, name, unit, role, usl, lsl, target, data_type
		 FROM meta_parameters WHERE node_code = ? AND code = ?`, nodeCode, paramCode,
	).Scan(&p.NodeCode, &p.Code, &p.Name, &p.Unit, &p.Role, &p.USL, &p.LSL, &p.Target, &p.DataType)
	if err == sql.ErrNoRows {
		return types.ParameterDef{}, fmt.Errorf("parameter %s/%s: %w", nodeCode, paramCode, types.ErrUnknownEntity)
	}
	if err != nil {
		return types.ParameterDef{}, wrapStoreErr("GetParameter", err)
	}
	return p, nil
}

// ListParametersForNode returns every parameter defined on a node.
func (s *Store) ListParametersForNode(nodeCode string) ([]types.ParameterDef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT node_code, code, name, unit, role, usl, lsl, target, data_type
		 FROM meta_parameters WHERE node_code = ? ORDER BY code`, nodeCode)
	if err != nil {
		return nil, wrapStoreErr("ListParametersForNode", err)
	}
	defer rows.Close()

	var out []types.ParameterDef
	for rows.Next() {
		var p types.ParameterDef
		if err := rows.Scan(&p.NodeCode, &p.Code, &p.Name, &p.Unit, &p.Role, &p.USL, &p.LSL, &p.Target, &p.DataType); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
