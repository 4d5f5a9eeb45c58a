// Package store provides SQLite-based persistence for soupgym: the
// frozen benchmark manifest and recorded grading results.
// Uses WAL mode for concurrent reads and crash-safe writes.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/soupgym.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "soupgym.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS manifest_versions (
			version      TEXT PRIMARY KEY,
			frozen       BOOLEAN NOT NULL DEFAULT 0,
			content_hash TEXT NOT NULL DEFAULT '',
			created_at   INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS manifest_entries (
			version      TEXT NOT NULL,
			idx          INTEGER NOT NULL,
			archetype_id TEXT NOT NULL,
			seed         INTEGER NOT NULL,
			PRIMARY KEY (version, idx),
			FOREIGN KEY (version) REFERENCES manifest_versions(version)
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			episode_id   TEXT PRIMARY KEY,
			archetype_id TEXT NOT NULL,
			seed         INTEGER NOT NULL,
			reward       REAL NOT NULL,
			metrics      TEXT NOT NULL,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_created ON results(created_at)`,
	}
	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
