package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmrzaf/tabgen/internal/app"
	"github.com/mmrzaf/tabgen/internal/config"
	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/infra/repos/runs"
	"github.com/mmrzaf/tabgen/internal/infra/repos/targets"
	"github.com/mmrzaf/tabgen/internal/infra/repos/templates"
	"github.com/mmrzaf/tabgen/internal/logging"
	"github.com/mmrzaf/tabgen/internal/provider"
	"github.com/mmrzaf/tabgen/internal/registry"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfg          *config.Config
	templatesDir string
	targetsDir   string
	runsDBPath   string
	logLevel     string
)

func main() {
	cfg = config.Load()

	rootCmd := &cobra.Command{
		Use:           "tabgen",
		Short:         "Rule-driven tabular test data generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&templatesDir, "templates-dir", cfg.TemplatesDir, "Templates directory")
	rootCmd.PersistentFlags().StringVar(&targetsDir, "targets-dir", cfg.TargetsDir, "Targets directory")
	rootCmd.PersistentFlags().StringVar(&runsDBPath, "runs-db", cfg.RunsDB, "Run history database (SQLite path or PostgreSQL DSN)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(targetCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(ruleCmd())
	rootCmd.AddCommand(typesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}
}

func newRegistry() *registry.GeneratorRegistry {
	return registry.DefaultGeneratorRegistry(provider.NewFakerProvider())
}

// newRunService builds the service; withHistory opens the runs database.
func newRunService(withHistory bool) (*app.RunService, func(), error) {
	logger := logging.NewLogger(logLevel)
	var runRepo runs.Repository
	closer := func() {}
	if withHistory {
		repo, err := runs.Open(runsDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open run history: %w", err)
		}
		runRepo = repo
		closer = func() { _ = repo.Close() }
	}
	svc := app.NewRunService(
		templates.NewFileRepository(templatesDir),
		targets.NewFileRepository(targetsDir),
		runRepo,
		newRegistry(),
		logger,
		cfg.BatchSize,
	)
	svc.SetDefaultMode(cfg.DefaultMode)
	return svc, closer, nil
}

// looksLikePath reports whether arg names a file rather than a repository id.
func looksLikePath(arg string) bool {
	if strings.ContainsRune(arg, filepath.Separator) || strings.Contains(arg, "/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml", ".json", ".csv":
		return true
	}
	return false
}

func loadTemplate(arg string) (*domain.Template, error) {
	if looksLikePath(arg) {
		if _, err := os.Stat(arg); err != nil {
			return nil, fmt.Errorf("template file '%s' not found", arg)
		}
		return templates.Load(arg)
	}
	return templates.NewFileRepository(templatesDir).Get(arg)
}

func loadTarget(arg string) (*domain.TargetConfig, error) {
	if looksLikePath(arg) {
		return targets.Load(arg)
	}
	return targets.NewFileRepository(targetsDir).Get(arg)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
