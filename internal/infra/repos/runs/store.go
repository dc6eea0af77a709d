package runs

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmrzaf/tabgen/internal/domain"
)

// store holds the SQL shared by both backends. Queries are written with ?
// placeholders and rebound for PostgreSQL.
type store struct {
	db          *sql.DB
	dollarBinds bool
}

type migration struct {
	version int
	ddl     []string
}

func (s *store) rebind(query string) string {
	if !s.dollarBinds {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *store) exec(query string, args ...interface{}) (sql.Result, error) {
	return s.db.Exec(s.rebind(query), args...)
}

func (s *store) migrate(migs []migration) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}
	var cur int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&cur); err != nil {
		return err
	}

	for _, m := range migs {
		if cur >= m.version {
			continue
		}
		for _, ddl := range m.ddl {
			if _, err := s.db.Exec(ddl); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
		}
		if _, err := s.exec(`INSERT INTO schema_migrations(version) VALUES (?)`, m.version); err != nil {
			return err
		}
		cur = m.version
	}
	return nil
}

func (s *store) DB() *sql.DB { return s.db }

func (s *store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const runColumns = `id, template_id, template_name, target_id, target_name, target_kind,
	seed, row_count, mode, config_hash, status, started_at, completed_at, stats, error`

func (s *store) Create(run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.exec(`
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TemplateID, run.TemplateName, run.TargetID, run.TargetName, run.TargetKind,
		run.Seed, run.Rows, run.Mode, run.ConfigHash, string(run.Status),
		run.StartedAt.UTC(), nullTime(run.CompletedAt), nullIfEmpty(string(run.Stats)), nullIfEmpty(run.Error),
	)
	return err
}

func (s *store) Update(run *domain.Run) error {
	if run.ID == "" {
		return errors.New("missing run id")
	}
	res, err := s.exec(`
		UPDATE runs SET status = ?, completed_at = ?, stats = ?, error = ?
		WHERE id = ?`,
		string(run.Status), nullTime(run.CompletedAt), nullIfEmpty(string(run.Stats)), nullIfEmpty(run.Error), run.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (*domain.Run, error) {
	var run domain.Run
	var status string
	var completedAt sql.NullTime
	var stats, errStr, mode sql.NullString

	if err := sc.Scan(
		&run.ID, &run.TemplateID, &run.TemplateName, &run.TargetID, &run.TargetName, &run.TargetKind,
		&run.Seed, &run.Rows, &mode, &run.ConfigHash, &status, &run.StartedAt, &completedAt, &stats, &errStr,
	); err != nil {
		return nil, err
	}
	run.Status = domain.RunStatus(status)
	run.Mode = mode.String
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	if stats.Valid && stats.String != "" {
		run.Stats = []byte(stats.String)
	}
	run.Error = errStr.String
	return &run, nil
}

func (s *store) Get(id string) (*domain.Run, error) {
	row := s.db.QueryRow(s.rebind(`SELECT `+runColumns+` FROM runs WHERE id = ?`), id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return run, err
}

func (s *store) List(limit int, status string) ([]*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	args := make([]interface{}, 0, 2)
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY started_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *store) RecordCheck(c *domain.TargetCheck) error {
	if c == nil {
		return errors.New("nil check")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.exec(`
		INSERT INTO target_checks (id, target_id, checked_at, ok, latency_ms, server_version,
			can_create, can_insert, can_truncate, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TargetID, c.CheckedAt.UTC(), c.OK, c.LatencyMS, nullIfEmpty(c.ServerVer),
		c.Capabilities.CanCreate, c.Capabilities.CanInsert, c.Capabilities.CanTruncate, nullIfEmpty(c.Error),
	)
	return err
}

func (s *store) ListChecks(targetID string, limit int) ([]*domain.TargetCheck, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(s.rebind(`
		SELECT id, target_id, checked_at, ok, latency_ms, server_version,
			can_create, can_insert, can_truncate, error
		FROM target_checks
		WHERE target_id = ?
		ORDER BY checked_at DESC
		LIMIT ?`), targetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.TargetCheck, 0)
	for rows.Next() {
		var c domain.TargetCheck
		var server, errStr sql.NullString
		if err := rows.Scan(&c.ID, &c.TargetID, &c.CheckedAt, &c.OK, &c.LatencyMS, &server,
			&c.Capabilities.CanCreate, &c.Capabilities.CanInsert, &c.Capabilities.CanTruncate, &errStr); err != nil {
			return nil, err
		}
		c.ServerVer = server.String
		c.Error = errStr.String
		out = append(out, &c)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
