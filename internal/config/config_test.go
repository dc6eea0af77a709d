package config

import (
	"os"
	"path/filepath"
	"testing"
)

func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, old)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, ".env"), []byte("TABGEN_RUNS_DB=postgres://u:p@localhost:5432/tabgen?sslmode=disable\nTABGEN_LOG_LEVEL=debug\nTABGEN_BATCH_SIZE=250\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(d); err != nil {
		t.Fatal(err)
	}
	unsetForTest(t, "TABGEN_RUNS_DB", "TABGEN_LOG_LEVEL", "TABGEN_BATCH_SIZE")

	cfg := Load()
	if cfg.RunsDB != "postgres://u:p@localhost:5432/tabgen?sslmode=disable" {
		t.Fatalf("expected TABGEN_RUNS_DB from .env, got %q", cfg.RunsDB)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected TABGEN_LOG_LEVEL from .env, got %q", cfg.LogLevel)
	}
	if cfg.BatchSize != 250 {
		t.Fatalf("expected batch size 250, got %d", cfg.BatchSize)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(cwd) }()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	unsetForTest(t, "TABGEN_TEMPLATES_DIR", "TABGEN_BATCH_SIZE", "TABGEN_DEFAULT_MODE")

	cfg := Load()
	if cfg.TemplatesDir != "./templates" || cfg.BatchSize != 1000 || cfg.DefaultMode != "create" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
