package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/mmrzaf/tabgen/internal/api"
	"github.com/mmrzaf/tabgen/internal/app"
	"github.com/mmrzaf/tabgen/internal/config"
	"github.com/mmrzaf/tabgen/internal/infra/repos/runs"
	"github.com/mmrzaf/tabgen/internal/infra/repos/targets"
	"github.com/mmrzaf/tabgen/internal/infra/repos/templates"
	"github.com/mmrzaf/tabgen/internal/logging"
	"github.com/mmrzaf/tabgen/internal/provider"
	"github.com/mmrzaf/tabgen/internal/registry"
)

func main() {
	cfg := config.Load()

	templatesDir := flag.String("templates-dir", cfg.TemplatesDir, "Templates directory")
	targetsDir := flag.String("targets-dir", cfg.TargetsDir, "Targets directory")
	runsDB := flag.String("runs-db", cfg.RunsDB, "Run history database (SQLite path or PostgreSQL DSN)")
	bindAddr := flag.String("bind", cfg.BindAddr, "Bind address")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	batchSize := flag.Int("batch-size", cfg.BatchSize, "Insert batch size")
	flag.Parse()

	logger := logging.NewLogger(*logLevel)
	mainLog := logger.WithComponent("api_main")

	runRepo, err := runs.Open(*runsDB)
	if err != nil {
		mainLog.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "init_run_repo"})
		os.Exit(1)
	}
	defer runRepo.Close()

	templateRepo := templates.NewFileRepository(*templatesDir)
	targetRepo := targets.NewFileRepository(*targetsDir)

	genRegistry := registry.DefaultGeneratorRegistry(provider.NewFakerProvider())
	runService := app.NewRunService(templateRepo, targetRepo, runRepo, genRegistry, logger, *batchSize)
	runService.SetDefaultMode(cfg.DefaultMode)

	handler := api.NewHandler(templateRepo, targetRepo, genRegistry, runService)

	mux := http.NewServeMux()
	handler.Routes(mux)

	srv := &http.Server{
		Addr:              *bindAddr,
		Handler:           loggingMiddleware(logger.WithComponent("http"), mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	mainLog.Infow("startup.listening", map[string]any{"bind": *bindAddr, "templates": *templatesDir, "targets": *targetsDir})
	if err := srv.ListenAndServe(); err != nil {
		mainLog.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "listen"})
		os.Exit(1)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		fields := map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      sw.status,
			"duration_ms": time.Since(started).Milliseconds(),
			"remote":      r.RemoteAddr,
		}
		if sw.status >= 500 {
			logger.Errorw("request.completed", fields)
			return
		}
		if sw.status >= 400 {
			logger.Warnw("request.completed", fields)
			return
		}
		logger.Infow("request.completed", fields)
	})
}
