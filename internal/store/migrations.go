package store

import (
	"database/sql"
	"fmt"

	"lsscore/internal/logging"
)

// columnMigration adds a column to a table if it is missing, guarding
// against pre-existing databases created before the column was added.
type columnMigration struct {
	table  string
	column string
	def    string
}

// pendingMigrations lists schema evolutions applied on top of the base
// schemaDDL, so existing on-disk databases pick up new columns without a
// destructive rebuild.
var pendingMigrations = []columnMigration{
	{"data_measurements", "operator_id", "TEXT DEFAULT ''"},
	{"data_instructions", "feedback", "TEXT"},
}

func runMigrations(db *sql.DB) error {
	logging.StoreDebug("running %d pending migrations", len(pendingMigrations))

	for _, m := range pendingMigrations {
		if !tableExists(db, m.table) {
			continue
		}
		if columnExists(db, m.table, m.column) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.table, m.column, m.def)
		if _, err := db.Exec(stmt); err != nil {
			logging.StoreError("migration failed (%s.%s): %v", m.table, m.column, err)
			return fmt.Errorf("store: migrate %s.%s: %w", m.table, m.column, err)
		}
		logging.StoreLog("migration applied: %s.%s", m.table, m.column)
	}
	return nil
}

func tableExists(db *sql.DB, table string) bool {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
	return err == nil && count > 0
}

func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}
