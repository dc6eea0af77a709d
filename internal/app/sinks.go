package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/exec"
	csvTarget "github.com/mmrzaf/tabgen/internal/infra/targets/csv"
	esTarget "github.com/mmrzaf/tabgen/internal/infra/targets/elasticsearch"
	jsonlTarget "github.com/mmrzaf/tabgen/internal/infra/targets/jsonl"
	pgTarget "github.com/mmrzaf/tabgen/internal/infra/targets/postgres"
	sqliteTarget "github.com/mmrzaf/tabgen/internal/infra/targets/sqlite"
)

func BuildSink(t *domain.TargetConfig) (exec.Sink, error) {
	switch t.Kind {
	case "csv":
		return csvTarget.NewCSVTarget(t.DSN), nil
	case "jsonl":
		return jsonlTarget.NewJSONLTarget(t.DSN), nil
	case "sqlite":
		return sqliteTarget.NewSQLiteTarget(t.DSN), nil
	case "postgres":
		return pgTarget.NewPostgresTarget(t.DSN, t.Schema), nil
	case "elasticsearch":
		return esTarget.NewElasticsearchTarget(t.DSN, t.Options), nil
	default:
		return nil, fmt.Errorf("unsupported target kind: %s", t.Kind)
	}
}

var outputKinds = map[string]string{
	".csv":     "csv",
	".jsonl":   "jsonl",
	".ndjson":  "jsonl",
	".json":    "jsonl",
	".db":      "sqlite",
	".sqlite":  "sqlite",
	".sqlite3": "sqlite",
}

// TargetForOutput derives a file target from an output path's extension.
func TargetForOutput(path string) (*domain.TargetConfig, error) {
	ext := strings.ToLower(filepath.Ext(path))
	kind, ok := outputKinds[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported output extension %q (use .csv, .jsonl or .db)", ext)
	}
	name := filepath.Base(path)
	return &domain.TargetConfig{
		ID:   name,
		Name: name,
		Kind: kind,
		DSN:  path,
	}, nil
}
