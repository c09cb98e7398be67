// Package store provides typed relational persistence for the process
// graph (nodes, parameters, edges), the risk fault-tree, the action
// template catalog, and the append-only measurement/instruction streams.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"lsscore/internal/logging"
)

// Store wraps a single SQLite connection. All mutating operations take
// s.mu to serialise writes; reads take the read lock so they can run
// concurrently with each other but not with a write.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// New opens (creating if necessary) the SQLite database at path and
// ensures the schema is current.
func New(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "New")
	defer timer.Stop()

	logging.StoreLog("opening store at %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.StoreError("failed to create directory %s: %v", dir, err)
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logging.StoreError("failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logging.StoreDebug("pragma failed (%s): %v", pragma, err)
		}
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logging.StoreLog("store ready at %s", path)
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	logging.StoreLog("closing store")
	return s.db.Close()
}

// DB exposes the underlying connection for callers that need raw access
// (migrations, maintenance commands).
func (s *Store) DB() *sql.DB {
	return s.db
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS meta_process_nodes (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	parent_code TEXT REFERENCES meta_process_nodes(code),
	position_x REAL DEFAULT 0,
	position_y REAL DEFAULT 0,
	hidden INTEGER DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON meta_process_nodes(parent_code);

CREATE TABLE IF NOT EXISTS meta_process_flows (
	source_code TEXT NOT NULL REFERENCES meta_process_nodes(code),
	target_code TEXT NOT NULL REFERENCES meta_process_nodes(code),
	name TEXT,
	loss_rate REAL DEFAULT 0,
	PRIMARY KEY (source_code, target_code)
);

CREATE TABLE IF NOT EXISTS meta_parameters (
	node_code TEXT NOT NULL REFERENCES meta_process_nodes(code),
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	unit TEXT,
	role TEXT NOT NULL,
	usl REAL,
	lsl REAL,
	target REAL,
	data_type TEXT NOT NULL,
	PRIMARY KEY (node_code, code)
);

CREATE TABLE IF NOT EXISTS meta_risk_nodes (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	base_probability REAL
);

CREATE TABLE IF NOT EXISTS meta_risk_edges (
	child_code TEXT NOT NULL REFERENCES meta_risk_nodes(code),
	parent_code TEXT NOT NULL REFERENCES meta_risk_nodes(code),
	PRIMARY KEY (child_code, parent_code)
);

CREATE TABLE IF NOT EXISTS meta_actions (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	risk_code TEXT REFERENCES meta_risk_nodes(code),
	target_role TEXT NOT NULL,
	instruction_template TEXT NOT NULL,
	priority TEXT NOT NULL,
	category TEXT
);

CREATE TABLE IF NOT EXISTS data_batches (
	id TEXT PRIMARY KEY,
	product_name TEXT,
	start_time DATETIME NOT NULL,
	end_time DATETIME,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS data_measurements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id TEXT NOT NULL REFERENCES data_batches(id),
	node_code TEXT NOT NULL,
	param_code TEXT NOT NULL,
	value REAL NOT NULL,
	timestamp DATETIME NOT NULL,
	source TEXT NOT NULL,
	operator_id TEXT DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_meas_group ON data_measurements(node_code, param_code, timestamp);
CREATE INDEX IF NOT EXISTS idx_meas_batch ON data_measurements(batch_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_meas_time ON data_measurements(timestamp);
CREATE INDEX IF NOT EXISTS idx_meas_operator ON data_measurements(operator_id, timestamp);

CREATE TABLE IF NOT EXISTS data_instructions (
	id TEXT PRIMARY KEY,
	target_date TEXT NOT NULL,
	role TEXT NOT NULL,
	action_code TEXT NOT NULL,
	batch_id TEXT DEFAULT '',
	node_code TEXT DEFAULT '',
	content TEXT NOT NULL,
	status TEXT NOT NULL,
	priority TEXT NOT NULL,
	evidence TEXT,
	feedback TEXT,
	instruction_type TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	read_at DATETIME,
	done_at DATETIME,
	UNIQUE (target_date, role, action_code, batch_id, node_code)
);
CREATE INDEX IF NOT EXISTS idx_instr_role_date ON data_instructions(role, target_date, status);
`

func (s *Store) initSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(schemaDDL); err != nil {
		logging.StoreError("schema init failed: %v", err)
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}
