package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/infra/targets/sqlident"
)

// maxParams is PostgreSQL's bind parameter limit per statement.
const maxParams = 65535

type PostgresTarget struct {
	dsn    string
	schema string
	db     *sql.DB
}

func NewPostgresTarget(dsn, schema string) *PostgresTarget {
	if schema == "" {
		schema = "public"
	}
	return &PostgresTarget{
		dsn:    dsn,
		schema: schema,
	}
}

func (t *PostgresTarget) Connect() error {
	db, err := sql.Open("postgres", t.dsn)
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

func (t *PostgresTarget) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

func (t *PostgresTarget) ServerVersion() (string, error) {
	var v string
	if err := t.db.QueryRow(`SHOW server_version`).Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}

func (t *PostgresTarget) CreateTableIfNotExists(table string, columns []domain.ColumnDef) error {
	_, err := t.db.Exec(createTableSQL(t.schema, table, columns))
	return err
}

func createTableSQL(schema, table string, columns []domain.ColumnDef) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", sqlident.Quote(col.Name), mapColumnKind(col.Kind))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		sqlident.Qualified(schema, table), strings.Join(defs, ", "))
}

func mapColumnKind(kind domain.ColumnKind) string {
	switch kind {
	case domain.KindInteger:
		return "BIGINT"
	case domain.KindFloat:
		return "DOUBLE PRECISION"
	case domain.KindBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (t *PostgresTarget) TruncateTable(table string) error {
	_, err := t.db.Exec(fmt.Sprintf("TRUNCATE TABLE %s", sqlident.Qualified(t.schema, table)))
	return err
}

func (t *PostgresTarget) DropTable(table string) error {
	_, err := t.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", sqlident.Qualified(t.schema, table)))
	return err
}

// InsertBatch writes rows with multi-row VALUES statements, splitting the
// batch so no statement exceeds the bind parameter limit.
func (t *PostgresTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 || len(columns) == 0 {
		return nil
	}

	perStmt := maxParams / len(columns)
	for start := 0; start < len(rows); start += perStmt {
		end := start + perStmt
		if end > len(rows) {
			end = len(rows)
		}
		query, args := insertSQL(t.schema, table, columns, rows[start:end])
		if _, err := t.db.Exec(query, args...); err != nil {
			return err
		}
	}
	return nil
}

func insertSQL(schema, table string, columns []string, rows [][]interface{}) (string, []interface{}) {
	placeholders := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(columns))

	for i, row := range rows {
		rowPlaceholders := make([]string, len(columns))
		for j := range columns {
			rowPlaceholders[j] = fmt.Sprintf("$%d", i*len(columns)+j+1)
			args = append(args, row[j])
		}
		placeholders[i] = "(" + strings.Join(rowPlaceholders, ", ") + ")"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		sqlident.Qualified(schema, table), strings.Join(sqlident.QuoteAll(columns), ", "), strings.Join(placeholders, ", "))
	return query, args
}
