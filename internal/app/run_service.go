package app

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	mathrand "math/rand"
	"os"
	"time"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/exec"
	"github.com/mmrzaf/tabgen/internal/hashing"
	"github.com/mmrzaf/tabgen/internal/infra/repos/runs"
	"github.com/mmrzaf/tabgen/internal/infra/repos/targets"
	"github.com/mmrzaf/tabgen/internal/infra/repos/templates"
	"github.com/mmrzaf/tabgen/internal/logging"
	"github.com/mmrzaf/tabgen/internal/registry"
	"github.com/mmrzaf/tabgen/internal/validation"
)

var ErrNoHistory = errors.New("run history is disabled")

// RunResult is the outcome of a run. Run is set even when the run failed
// after it was recorded.
type RunResult struct {
	Run     *domain.Run
	Stats   *domain.RunStats
	Dataset *domain.Dataset
	Table   string
}

type RunService struct {
	templateRepo templates.Repository
	targetRepo   targets.Repository
	runRepo      runs.Repository
	validator    *validation.Validator
	executor     *exec.Executor
	logger       *logging.Logger
	defaultMode  string
}

// NewRunService wires the run pipeline. runRepo may be nil, in which case
// runs and checks are not recorded.
func NewRunService(
	templateRepo templates.Repository,
	targetRepo targets.Repository,
	runRepo runs.Repository,
	genRegistry *registry.GeneratorRegistry,
	logger *logging.Logger,
	batchSize int,
) *RunService {
	if logger == nil {
		logger = logging.Nop()
	}
	executor := exec.NewExecutor(genRegistry, logger)
	executor.SetBatchSize(batchSize)
	return &RunService{
		templateRepo: templateRepo,
		targetRepo:   targetRepo,
		runRepo:      runRepo,
		validator:    validation.NewValidator(genRegistry),
		executor:     executor,
		logger:       logger.WithComponent("runs"),
		defaultMode:  domain.TableModeCreate,
	}
}

func (s *RunService) Validator() *validation.Validator { return s.validator }

func (s *RunService) SetProgress(fn exec.ProgressFunc) { s.executor.SetProgress(fn) }

func (s *RunService) SetDefaultMode(mode string) {
	if validation.IsValidMode(mode) {
		s.defaultMode = mode
	}
}

func (s *RunService) StartRun(ctx context.Context, req *domain.RunRequest) (*RunResult, error) {
	if err := s.validator.ValidateRunRequest(req); err != nil {
		return nil, fmt.Errorf("invalid run request: %w", err)
	}

	tpl, err := s.resolveTemplate(req)
	if err != nil {
		return nil, err
	}
	if req.Rows != nil {
		tpl.Rows = *req.Rows
	}
	if err := s.validator.ValidateTemplate(tpl); err != nil {
		return nil, fmt.Errorf("template validation failed: %w", err)
	}

	base := req.Target
	if req.TargetID != "" {
		if s.targetRepo == nil {
			return nil, fmt.Errorf("failed to load target: no target directory configured")
		}
		base, err = s.targetRepo.Get(req.TargetID)
		if err != nil {
			return nil, fmt.Errorf("failed to load target: %w", err)
		}
	}
	if err := s.validator.ValidateTarget(base); err != nil {
		return nil, fmt.Errorf("target validation failed: %w", err)
	}
	targetCfg := resolveTargetForRun(base, req.TargetDatabase)

	table := tableFor(tpl, targetCfg)
	mode := req.Mode
	if mode == "" {
		mode = s.defaultMode
	}

	var seed int64
	switch {
	case req.Seed != nil:
		seed = *req.Seed
	case tpl.Seed != nil:
		seed = *tpl.Seed
	default:
		seed = generateSeed()
	}

	configHash, err := hashing.HashRunConfig(tpl, targetCfg, mode, tpl.Rows, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash run config: %w", err)
	}

	run := &domain.Run{
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		TargetID:     targetCfg.ID,
		TargetName:   targetCfg.Name,
		TargetKind:   targetCfg.Kind,
		Seed:         seed,
		Rows:         tpl.Rows,
		Mode:         mode,
		ConfigHash:   configHash,
		Status:       domain.RunStatusRunning,
		StartedAt:    time.Now().UTC(),
	}
	if s.runRepo != nil {
		if err := s.runRepo.Create(run); err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
	}

	s.logger.Infow("run.started", map[string]any{
		"run_id":   run.ID,
		"template": tpl.Name,
		"target":   targetCfg.Name,
		"kind":     targetCfg.Kind,
		"table":    table,
		"rows":     tpl.Rows,
		"seed":     seed,
		"mode":     mode,
	})

	result := &RunResult{Run: run, Table: table}

	sink, err := BuildSink(targetCfg)
	if err != nil {
		s.finishFailed(run, err)
		return result, err
	}

	rng := mathrand.New(mathrand.NewSource(seed))
	stats, ds, err := s.executor.Execute(ctx, rng, tpl, table, sink, mode)
	result.Dataset = ds
	if err != nil {
		s.finishFailed(run, err)
		return result, err
	}

	if targets.IsFileKind(targetCfg.Kind) {
		if fi, statErr := os.Stat(targetCfg.DSN); statErr == nil {
			stats.OutputBytes = fi.Size()
		}
	}
	stats.DurationSeconds = time.Since(run.StartedAt).Seconds()
	result.Stats = stats

	now := time.Now().UTC()
	statsJSON, _ := json.Marshal(stats)
	run.Stats = statsJSON
	run.Status = domain.RunStatusSuccess
	run.CompletedAt = &now
	if s.runRepo != nil {
		if err := s.runRepo.Update(run); err != nil {
			s.logger.Errorw("run.update_failed", map[string]any{"run_id": run.ID, "error": err.Error()})
		}
	}

	s.logger.Infow("run.completed", map[string]any{
		"run_id":         run.ID,
		"rows":           stats.TotalRows,
		"columns_failed": stats.ColumnsFailed,
		"duration_s":     stats.DurationSeconds,
	})
	return result, nil
}

func (s *RunService) resolveTemplate(req *domain.RunRequest) (*domain.Template, error) {
	switch {
	case req.TemplateID != "":
		if s.templateRepo == nil {
			return nil, fmt.Errorf("failed to load template: no template directory configured")
		}
		tpl, err := s.templateRepo.Get(req.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("failed to load template: %w", err)
		}
		return tpl, nil
	case req.TemplatePath != "":
		tpl, err := templates.Load(req.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load template: %w", err)
		}
		return tpl, nil
	default:
		cp := *req.Template
		cp.Columns = append([]domain.ColumnSpec(nil), req.Template.Columns...)
		return &cp, nil
	}
}

// tableFor picks the template's table, then the target's, then a name
// derived from the template.
func tableFor(tpl *domain.Template, t *domain.TargetConfig) string {
	if tpl.Table != "" {
		return tpl.Table
	}
	if t.Table != "" {
		return t.Table
	}
	return validation.SanitizeIdentifier(tpl.Name)
}

func (s *RunService) finishFailed(run *domain.Run, cause error) {
	now := time.Now().UTC()
	run.Status = domain.RunStatusFailed
	run.Error = cause.Error()
	run.CompletedAt = &now
	if s.runRepo != nil {
		if err := s.runRepo.Update(run); err != nil {
			s.logger.Errorw("run.update_failed", map[string]any{"run_id": run.ID, "error": err.Error()})
		}
	}
	s.logger.Errorw("run.failed", map[string]any{"run_id": run.ID, "error": cause.Error()})
}

// Preview generates a template's columns in memory without touching a sink.
func (s *RunService) Preview(tpl *domain.Template, rows, seed *int64) (*domain.Dataset, int64, error) {
	cp := *tpl
	if rows != nil {
		cp.Rows = *rows
	}
	if err := s.validator.ValidateTemplate(&cp); err != nil {
		return nil, 0, fmt.Errorf("template validation failed: %w", err)
	}
	var sd int64
	switch {
	case seed != nil:
		sd = *seed
	case cp.Seed != nil:
		sd = *cp.Seed
	default:
		sd = generateSeed()
	}
	rng := mathrand.New(mathrand.NewSource(sd))
	return s.executor.Generate(rng, cp.Requests(), int(cp.Rows)), sd, nil
}

// GenerateColumns runs the engine on loose column requests.
func (s *RunService) GenerateColumns(reqs []domain.ColumnRequest, n int, seed int64) *domain.Dataset {
	rng := mathrand.New(mathrand.NewSource(seed))
	return s.executor.Generate(rng, reqs, n)
}

func (s *RunService) GetRun(id string) (*domain.Run, error) {
	if s.runRepo == nil {
		return nil, ErrNoHistory
	}
	return s.runRepo.Get(id)
}

func (s *RunService) ListRuns(limit int, status string) ([]*domain.Run, error) {
	if s.runRepo == nil {
		return nil, ErrNoHistory
	}
	return s.runRepo.List(limit, status)
}

// CheckTarget probes a stored target and records the result.
func (s *RunService) CheckTarget(id string) (*domain.TargetCheck, error) {
	if s.targetRepo == nil {
		return nil, fmt.Errorf("no target directory configured")
	}
	t, err := s.targetRepo.Get(id)
	if err != nil {
		return nil, err
	}
	check, checkErr := CheckTarget(t)
	if s.runRepo != nil && check != nil {
		if err := s.runRepo.RecordCheck(check); err != nil {
			s.logger.Errorw("target_check.record_failed", map[string]any{"target": id, "error": err.Error()})
		}
	}
	fields := map[string]any{"target": id, "ok": check.OK, "latency_ms": check.LatencyMS}
	if checkErr != nil {
		fields["error"] = checkErr.Error()
		s.logger.Warnw("target_check.failed", fields)
	} else {
		s.logger.Infow("target_check.completed", fields)
	}
	return check, nil
}

func (s *RunService) ListChecks(targetID string, limit int) ([]*domain.TargetCheck, error) {
	if s.runRepo == nil {
		return nil, ErrNoHistory
	}
	return s.runRepo.ListChecks(targetID, limit)
}

func generateSeed() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
