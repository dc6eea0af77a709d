package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/infra/targets/sqlident"
)

type SQLiteTarget struct {
	path string
	db   *sql.DB
}

func NewSQLiteTarget(path string) *SQLiteTarget {
	return &SQLiteTarget{path: path}
}

func (t *SQLiteTarget) Connect() error {
	if t.path != ":memory:" && !strings.HasPrefix(t.path, "file:") {
		if dir := filepath.Dir(t.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
	}
	db, err := sql.Open("sqlite3", t.path)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}
	t.db = db
	return nil
}

func (t *SQLiteTarget) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

func (t *SQLiteTarget) ServerVersion() (string, error) {
	var v string
	if err := t.db.QueryRow(`SELECT sqlite_version()`).Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}

func (t *SQLiteTarget) CreateTableIfNotExists(table string, columns []domain.ColumnDef) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", sqlident.Quote(col.Name), mapColumnKind(col.Kind))
	}

	_, err := t.db.Exec(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		sqlident.Quote(table), strings.Join(defs, ", ")))
	return err
}

func mapColumnKind(kind domain.ColumnKind) string {
	switch kind {
	case domain.KindInteger, domain.KindBool:
		return "INTEGER"
	case domain.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

func (t *SQLiteTarget) TruncateTable(table string) error {
	_, err := t.db.Exec(fmt.Sprintf("DELETE FROM %s", sqlident.Quote(table)))
	return err
}

func (t *SQLiteTarget) DropTable(table string) error {
	_, err := t.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", sqlident.Quote(table)))
	return err
}

func (t *SQLiteTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := t.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "?"
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sqlident.Quote(table), strings.Join(sqlident.QuoteAll(columns), ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]interface{}, len(columns))
	for _, row := range rows {
		for i, val := range row {
			if b, ok := val.(bool); ok {
				if b {
					args[i] = 1
				} else {
					args[i] = 0
				}
				continue
			}
			args[i] = val
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
