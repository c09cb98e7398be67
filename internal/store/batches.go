package store

import (
	"database/sql"
	"fmt"
	"time"

	"lsscore/internal/logging"
	"lsscore/internal/types"
)

// GetBatch returns a batch by id, or types.ErrUnknownEntity if absent.
func (s *Store) GetBatch(id string) (types.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getBatchLocked(id)
}

func (s *Store) getBatchLocked(id string) (types.Batch, error) {
	var b types.Batch
	var end sql.NullTime
	err := s.db.QueryRow(
		`SELECT id, product_name, start_time, end_time, status FROM data_batches WHERE id = ?`, id,
	).Scan(&b.ID, &b.ProductName, &b.StartTime, &end, &b.Status)
	if err == sql.ErrNoRows {
		return types.Batch{}, fmt.Errorf("batch %s: %w", id, types.ErrUnknownEntity)
	}
	if err != nil {
		return types.Batch{}, wrapStoreErr("GetBatch", err)
	}
	if end.Valid {
		b.EndTime = &end.Time
	}
	return b, nil
}

// UpsertBatch explicitly creates or updates a batch record. Unlike the
// implicit creation InsertMeasurement performs for an unseen batch id,
// this call always wins: an explicit batch write updates fields rather
// than being rejected because the batch already exists.
func (s *Store) UpsertBatch(b types.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var end interface{}
	if b.EndTime != nil {
		end = *b.EndTime
	}

	_, err := s.db.Exec(
		`INSERT INTO data_batches (id, product_name, start_time, end_time, status)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			product_name = excluded.product_name, start_time = excluded.start_time,
			end_time = excluded.end_time, status = excluded.status`,
		b.ID, b.ProductName, b.StartTime, end, string(b.Status),
	)
	if err != nil {
		return wrapStoreErr("UpsertBatch", err)
	}
	return nil
}

// InsertMeasurement appends a measurement. If its BatchID is unseen, a
// Batch row is created with defaults (status Running, start_time now)
// before the insert, the auto-create-batch behaviour the ingest path
// relies on so producers never have to open a batch explicitly.
func (s *Store) InsertMeasurement(m types.Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM data_batches WHERE id = ?`, m.BatchID).Scan(&exists)
	if err != nil {
		return wrapStoreErr("InsertMeasurement.checkBatch", err)
	}
	if exists == 0 {
		_, err := s.db.Exec(
			`INSERT INTO data_batches (id, product_name, start_time, end_time, status) VALUES (?, ?, ?, NULL, ?)`,
			m.BatchID, "", time.Now().UTC(), string(types.BatchRunning),
		)
		if err != nil {
			return wrapStoreErr("InsertMeasurement.autoCreateBatch", err)
		}
		logging.StoreDebug("auto-created batch %s from measurement write", m.BatchID)
	}

	_, err = s.db.Exec(
		`INSERT INTO data_measurements (batch_id, node_code, param_code, value, timestamp, source, operator_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.BatchID, m.NodeCode, m.ParamCode, m.Value, m.Timestamp, string(m.Source), m.OperatorID,
	)
	if err != nil {
		return wrapStoreErr("InsertMeasurement", err)
	}
	return nil
}

func scanMeasurements(rows *sql.Rows) ([]types.Measurement, error) {
	defer rows.Close()
	var out []types.Measurement
	for rows.Next() {
		var m types.Measurement
		var operator sql.NullString
		if err := rows.Scan(&m.BatchID, &m.NodeCode, &m.ParamCode, &m.Value, &m.Timestamp, &m.Source, &operator); err != nil {
			continue
		}
		m.OperatorID = operator.String
		out = append(out, m)
	}
	return out, nil
}

const measurementCols = `batch_id, node_code, param_code, value, timestamp, source, operator_id`

// QueryMeasurementsByBatch returns up to limit measurements for a batch,
// ordered by timestamp ascending.
func (s *Store) QueryMeasurementsByBatch(batchID string, limit int) ([]types.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT `+measurementCols+` FROM data_measurements WHERE batch_id = ? ORDER BY timestamp ASC LIMIT ?`,
		batchID, limit,
	)
	if err != nil {
		return nil, wrapStoreErr("QueryMeasurementsByBatch", err)
	}
	return scanMeasurements(rows)
}

// QueryMeasurementsByNode returns the most recent limit measurements for a
// single (nodeCode, paramCode) series, ordered by timestamp ascending.
func (s *Store) QueryMeasurementsByNode(nodeCode, paramCode string, limit int) ([]types.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT `+measurementCols+` FROM data_measurements
		 WHERE node_code = ? AND param_code = ? ORDER BY timestamp DESC LIMIT ?`,
		nodeCode, paramCode, limit,
	)
	if err != nil {
		return nil, wrapStoreErr("QueryMeasurementsByNode", err)
	}
	ms, err := scanMeasurements(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
		ms[i], ms[j] = ms[j], ms[i]
	}
	return ms, nil
}

// QueryMeasurementsByNodes pools measurements for paramCode across
// several node codes (workshop expansion), ordered by timestamp
// ascending, capped at limit rows total.
func (s *Store) QueryMeasurementsByNodes(nodeCodes []string, paramCode string, limit int) ([]types.Measurement, error) {
	if len(nodeCodes) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := make([]byte, 0, len(nodeCodes)*2)
	args := make([]interface{}, 0, len(nodeCodes)+2)
	for i, code := range nodeCodes {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, code)
	}
	args = append(args, paramCode, limit)

	query := fmt.Sprintf(
		`SELECT %s FROM data_measurements WHERE node_code IN (%s) AND param_code = ? ORDER BY timestamp ASC LIMIT ?`,
		measurementCols, string(placeholders),
	)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapStoreErr("QueryMeasurementsByNodes", err)
	}
	return scanMeasurements(rows)
}

// QueryMeasurementsByTimeRange returns up to limit measurements whose
// timestamp falls in [start, end], ordered ascending.
func (s *Store) QueryMeasurementsByTimeRange(start, end time.Time, limit int) ([]types.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT `+measurementCols+` FROM data_measurements
		 WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp ASC LIMIT ?`,
		start, end, limit,
	)
	if err != nil {
		return nil, wrapStoreErr("QueryMeasurementsByTimeRange", err)
	}
	return scanMeasurements(rows)
}

// QueryMeasurementsByOperator returns up to limit measurements recorded
// by operatorID within [start, end], ordered ascending.
func (s *Store) QueryMeasurementsByOperator(operatorID string, start, end time.Time, limit int) ([]types.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT `+measurementCols+` FROM data_measurements
		 WHERE operator_id = ? AND timestamp >= ? AND timestamp <= ? ORDER BY timestamp ASC LIMIT ?`,
		operatorID, start, end, limit,
	)
	if err != nil {
		return nil, wrapStoreErr("QueryMeasurementsByOperator", err)
	}
	return scanMeasurements(rows)
}
