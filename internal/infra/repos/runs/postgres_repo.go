package runs

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
)

var postgresMigrations = []migration{
	{1, []string{`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL,
		template_name TEXT NOT NULL,
		target_id TEXT NOT NULL,
		target_name TEXT NOT NULL,
		target_kind TEXT NOT NULL,
		seed BIGINT NOT NULL,
		row_count BIGINT NOT NULL,
		mode TEXT,
		config_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		stats TEXT,
		error TEXT
	)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC)`,
	}},
	{2, []string{`
	CREATE TABLE IF NOT EXISTS target_checks (
		id TEXT PRIMARY KEY,
		target_id TEXT NOT NULL,
		checked_at TIMESTAMPTZ NOT NULL,
		ok BOOLEAN NOT NULL,
		latency_ms BIGINT NOT NULL,
		server_version TEXT,
		can_create BOOLEAN NOT NULL,
		can_insert BOOLEAN NOT NULL,
		can_truncate BOOLEAN NOT NULL,
		error TEXT
	)`,
		`CREATE INDEX IF NOT EXISTS idx_target_checks_target_time ON target_checks(target_id, checked_at DESC)`,
	}},
}

type PostgresRepository struct {
	store
	dsn string
}

func NewPostgresRepository(dsn string) *PostgresRepository {
	return &PostgresRepository{store: store{dollarBinds: true}, dsn: strings.TrimSpace(dsn)}
}

func (r *PostgresRepository) Init() error {
	if r.dsn == "" {
		return fmt.Errorf("runs db dsn is required")
	}
	db, err := sql.Open("postgres", r.dsn)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	r.db = db
	return r.migrate(postgresMigrations)
}
