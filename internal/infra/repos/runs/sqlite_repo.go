package runs

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var sqliteMigrations = []migration{
	{1, []string{`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL,
		template_name TEXT NOT NULL,
		target_id TEXT NOT NULL,
		target_name TEXT NOT NULL,
		target_kind TEXT NOT NULL,
		seed INTEGER NOT NULL,
		row_count INTEGER NOT NULL,
		mode TEXT,
		config_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		stats TEXT,
		error TEXT
	)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	}},
	{2, []string{`
	CREATE TABLE IF NOT EXISTS target_checks (
		id TEXT PRIMARY KEY,
		target_id TEXT NOT NULL,
		checked_at TIMESTAMP NOT NULL,
		ok BOOLEAN NOT NULL,
		latency_ms INTEGER NOT NULL,
		server_version TEXT,
		can_create BOOLEAN NOT NULL,
		can_insert BOOLEAN NOT NULL,
		can_truncate BOOLEAN NOT NULL,
		error TEXT
	)`,
		`CREATE INDEX IF NOT EXISTS idx_target_checks_target_time ON target_checks(target_id, checked_at)`,
	}},
}

type SQLiteRepository struct {
	store
	dbPath string
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

func (r *SQLiteRepository) Init() error {
	if dir := filepath.Dir(r.dbPath); dir != "." && r.dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	r.db = db
	return r.migrate(sqliteMigrations)
}
