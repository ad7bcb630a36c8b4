package database

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

// New opens (or creates) the sqlite database under dataDir and applies
// the schema.
func New(dataDir string) (*DB, error) {
	dbPath := filepath.Join(dataDir, "netadmin.db")
	return Open(dbPath + "?_foreign_keys=on")
}

// Open opens a database by DSN. Tests use ":memory:".
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &DB{db}
	if err := d.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return d, nil
}

func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS interface_configs (
			name TEXT PRIMARY KEY,
			dhcp BOOLEAN,
			address TEXT,
			zone TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS action_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			action TEXT NOT NULL,
			details TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_action_logs_created_at ON action_logs(created_at)`,
	}

	for _, m := range migrations {
		if _, err := d.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// LogAction records one mutating operation for later inspection.
func (d *DB) LogAction(action, details string) error {
	_, err := d.Exec(`INSERT INTO action_logs (action, details) VALUES (?, ?)`, action, details)
	if err != nil {
		return fmt.Errorf("failed to log action: %w", err)
	}
	return nil
}
