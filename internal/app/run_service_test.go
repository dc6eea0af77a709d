package app

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/infra/repos/runs"
	"github.com/mmrzaf/tabgen/internal/infra/repos/targets"
	"github.com/mmrzaf/tabgen/internal/infra/repos/templates"
	"github.com/mmrzaf/tabgen/internal/logging"
	"github.com/mmrzaf/tabgen/internal/provider/providertest"
	"github.com/mmrzaf/tabgen/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersYAML = `id: orders
name: Orders
rows: 12
columns:
  - name: order_id
    rule: "type:integer; range:1-1000; unique:true"
  - name: status
    rule: "type:choice; values:new, paid"
  - name: broken
    rule: "type:unicorn"
`

type fixture struct {
	svc     *RunService
	runRepo *runs.SQLiteRepository
	dir     string
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	tplDir := filepath.Join(dir, "templates")
	tgtDir := filepath.Join(dir, "targets")
	require.NoError(t, os.MkdirAll(tplDir, 0o755))
	require.NoError(t, os.MkdirAll(tgtDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tplDir, "orders.yaml"), []byte(ordersYAML), 0o644))

	csvOut := filepath.Join(dir, "out", "orders.csv")
	dbOut := filepath.Join(dir, "out", "orders.db")
	require.NoError(t, os.WriteFile(filepath.Join(tgtDir, "csv.yaml"),
		[]byte("id: csv\nname: CSV out\nkind: csv\ndsn: "+csvOut+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tgtDir, "lite.yaml"),
		[]byte("id: lite\nname: SQLite out\nkind: sqlite\ndsn: "+dbOut+"\n"), 0o644))

	runRepo := runs.NewSQLiteRepository(filepath.Join(dir, "runs.sqlite"))
	require.NoError(t, runRepo.Init())
	t.Cleanup(func() { _ = runRepo.Close() })

	var logs bytes.Buffer
	svc := NewRunService(
		templates.NewFileRepository(tplDir),
		targets.NewFileRepository(tgtDir),
		runRepo,
		registry.DefaultGeneratorRegistry(providertest.NewStub()),
		logging.NewLoggerWithWriter("debug", &logs),
		5,
	)
	return &fixture{svc: svc, runRepo: runRepo, dir: dir, logs: &logs}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestStartRun_CSVTarget(t *testing.T) {
	fx := newFixture(t)
	seed := int64(7)

	res, err := fx.svc.StartRun(context.Background(), &domain.RunRequest{
		TemplateID: "orders",
		TargetID:   "csv",
		Seed:       &seed,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusSuccess, res.Run.Status)
	assert.Equal(t, "orders", res.Table)
	assert.Equal(t, int64(12), res.Stats.TotalRows)
	assert.Equal(t, 1, res.Stats.ColumnsFailed)
	assert.Greater(t, res.Stats.OutputBytes, int64(0))
	require.Len(t, res.Dataset.Notices, 1)
	assert.Equal(t, "UnknownType", res.Dataset.Notices[0].Kind)

	recs := readCSV(t, filepath.Join(fx.dir, "out", "orders.csv"))
	require.Len(t, recs, 13)
	assert.Equal(t, []string{"order_id", "status", "broken"}, recs[0])
	for _, r := range recs[1:] {
		assert.Equal(t, "", r[2])
		assert.Contains(t, []string{"new", "paid"}, r[1])
	}

	stored, err := fx.svc.GetRun(res.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusSuccess, stored.Status)
	assert.Equal(t, seed, stored.Seed)
	assert.NotEmpty(t, stored.ConfigHash)
	assert.NotNil(t, stored.CompletedAt)
	assert.Contains(t, fx.logs.String(), "run.completed")
}

func TestStartRun_SameSeedSameHashAndOutput(t *testing.T) {
	fx := newFixture(t)
	seed := int64(11)
	req := &domain.RunRequest{TemplateID: "orders", TargetID: "csv", Seed: &seed}

	first, err := fx.svc.StartRun(context.Background(), req)
	require.NoError(t, err)
	a := readCSV(t, filepath.Join(fx.dir, "out", "orders.csv"))

	second, err := fx.svc.StartRun(context.Background(), req)
	require.NoError(t, err)
	b := readCSV(t, filepath.Join(fx.dir, "out", "orders.csv"))

	assert.Equal(t, first.Run.ConfigHash, second.Run.ConfigHash)
	assert.Equal(t, a, b)
}

func TestStartRun_SQLiteAppendAndRowsOverride(t *testing.T) {
	fx := newFixture(t)
	rows := int64(3)

	_, err := fx.svc.StartRun(context.Background(), &domain.RunRequest{TemplateID: "orders", TargetID: "lite", Rows: &rows})
	require.NoError(t, err)
	res, err := fx.svc.StartRun(context.Background(), &domain.RunRequest{
		TemplateID: "orders", TargetID: "lite", Rows: &rows, Mode: domain.TableModeAppend,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Run.Rows)

	db, err := sql.Open("sqlite3", filepath.Join(fx.dir, "out", "orders.db"))
	require.NoError(t, err)
	defer db.Close()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "orders"`).Scan(&count))
	assert.Equal(t, 6, count)

	list, err := fx.svc.ListRuns(10, string(domain.RunStatusSuccess))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStartRun_InlineTemplateAndTarget(t *testing.T) {
	fx := newFixture(t)
	out := filepath.Join(fx.dir, "inline.jsonl")

	res, err := fx.svc.StartRun(context.Background(), &domain.RunRequest{
		Template: &domain.Template{
			Name:    "Inline Things",
			Rows:    2,
			Columns: []domain.ColumnSpec{{Name: "flag", Rule: "type:boolean"}},
		},
		Target: &domain.TargetConfig{Name: "inline", Kind: "jsonl", DSN: out},
	})
	require.NoError(t, err)
	assert.Equal(t, "inline_things", res.Table)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}

func TestStartRun_FailuresAreRecorded(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.StartRun(context.Background(), &domain.RunRequest{TemplateID: "missing", TargetID: "csv"})
	require.Error(t, err)

	_, err = fx.svc.StartRun(context.Background(), &domain.RunRequest{TemplateID: "orders", TargetID: "csv", Mode: "sideways"})
	require.Error(t, err)

	blocker := filepath.Join(fx.dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	res, err := fx.svc.StartRun(context.Background(), &domain.RunRequest{
		TemplateID: "orders",
		Target:     &domain.TargetConfig{Name: "bad", Kind: "csv", DSN: filepath.Join(blocker, "out.csv")},
	})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, domain.RunStatusFailed, res.Run.Status)

	failed, err := fx.svc.ListRuns(0, string(domain.RunStatusFailed))
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.NotEmpty(t, failed[0].Error)
}

func TestStartRun_WithoutHistory(t *testing.T) {
	svc := NewRunService(nil, nil, nil, registry.DefaultGeneratorRegistry(providertest.NewStub()), nil, 0)
	out := filepath.Join(t.TempDir(), "x.csv")

	res, err := svc.StartRun(context.Background(), &domain.RunRequest{
		Template: &domain.Template{Name: "x", Rows: 1, Columns: []domain.ColumnSpec{{Name: "a", Rule: "type:boolean"}}},
		Target:   &domain.TargetConfig{Name: "x", Kind: "csv", DSN: out},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Run.ID)

	_, err = svc.ListRuns(1, "")
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestPreview(t *testing.T) {
	fx := newFixture(t)
	tpl := &domain.Template{Name: "p", Rows: 100, Columns: []domain.ColumnSpec{{Name: "n", Rule: "type:integer; range:1-9"}}}
	rows, seed := int64(4), int64(3)

	a, usedSeed, err := fx.svc.Preview(tpl, &rows, &seed)
	require.NoError(t, err)
	assert.Equal(t, int64(3), usedSeed)
	assert.Equal(t, 4, a.Rows())
	assert.Equal(t, int64(100), tpl.Rows)

	b, _, err := fx.svc.Preview(tpl, &rows, &seed)
	require.NoError(t, err)
	assert.Equal(t, a.Columns, b.Columns)
}

func TestCheckTarget_RecordsHistory(t *testing.T) {
	fx := newFixture(t)

	check, err := fx.svc.CheckTarget("lite")
	require.NoError(t, err)
	assert.True(t, check.OK)
	assert.NotEmpty(t, check.ServerVer)
	assert.Equal(t, domain.TargetCapabilities{CanCreate: true, CanInsert: true, CanTruncate: true}, check.Capabilities)

	check, err = fx.svc.CheckTarget("csv")
	require.NoError(t, err)
	assert.True(t, check.Capabilities.CanTruncate)

	entries, err := os.ReadDir(filepath.Join(fx.dir, "out"))
	if err == nil {
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".tabgen_check_")
		}
	}

	history, err := fx.svc.ListChecks("lite", 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].OK)

	_, err = fx.svc.CheckTarget("nope")
	assert.Error(t, err)
}

func TestTargetForOutput(t *testing.T) {
	for path, kind := range map[string]string{
		"a.csv": "csv", "b.JSONL": "jsonl", "c.json": "jsonl", "d.db": "sqlite", "e.sqlite3": "sqlite",
	} {
		got, err := TargetForOutput(path)
		require.NoError(t, err, path)
		assert.Equal(t, kind, got.Kind, path)
		assert.Equal(t, path, got.DSN)
	}
	_, err := TargetForOutput("report.xlsx")
	assert.Error(t, err)
}

func TestStartRun_TemplatePath(t *testing.T) {
	fx := newFixture(t)
	path := filepath.Join(fx.dir, "sheet.csv")
	require.NoError(t, os.WriteFile(path, []byte("Column Name,Rule\nrows,2\nsku,type:string; pattern:AB-##\n"), 0o644))

	res, err := fx.svc.StartRun(context.Background(), &domain.RunRequest{TemplatePath: path, TargetID: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "sheet", res.Run.TemplateName)
	assert.Equal(t, "sheet", res.Table)

	recs := readCSV(t, filepath.Join(fx.dir, "out", "orders.csv"))
	require.Len(t, recs, 3)
	assert.Regexp(t, `^AB-\d\d$`, recs[1][0])
}
