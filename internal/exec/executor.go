package exec

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/generators"
	"github.com/mmrzaf/tabgen/internal/logging"
	"github.com/mmrzaf/tabgen/internal/registry"
	"github.com/mmrzaf/tabgen/internal/rule"
)

// Sink persists a generated dataset. Sink errors abort the run.
type Sink interface {
	Connect() error
	Close() error
	CreateTableIfNotExists(table string, columns []domain.ColumnDef) error
	TruncateTable(table string) error
	InsertBatch(table string, columns []string, rows [][]interface{}) error
}

// ProgressFunc is called before each column is generated; i is 1-based.
type ProgressFunc func(i, total int, column string)

const DefaultBatchSize = 1000

type Executor struct {
	genRegistry *registry.GeneratorRegistry
	logger      *logging.Logger
	batchSize   int
	progress    ProgressFunc
	now         func() time.Time
}

func NewExecutor(genRegistry *registry.GeneratorRegistry, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Executor{
		genRegistry: genRegistry,
		logger:      logger.WithComponent("executor"),
		batchSize:   DefaultBatchSize,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (e *Executor) SetBatchSize(n int) {
	if n > 0 {
		e.batchSize = n
	}
}

func (e *Executor) SetProgress(fn ProgressFunc) {
	e.progress = fn
}

// Generate builds every column in declared order. A column that fails at any
// stage becomes n empty strings and a notice; other columns are unaffected.
func (e *Executor) Generate(rng *rand.Rand, requests []domain.ColumnRequest, n int) *domain.Dataset {
	ds, _ := e.generate(rng, requests, n)
	return ds
}

func (e *Executor) generate(rng *rand.Rand, requests []domain.ColumnRequest, n int) (*domain.Dataset, []domain.ColumnRunStats) {
	if n < 0 {
		n = 0
	}
	ds := domain.NewDataset(n)
	stats := make([]domain.ColumnRunStats, 0, len(requests))
	now := e.now()

	for i, req := range requests {
		if e.progress != nil {
			e.progress(i+1, len(requests), req.Name)
		}
		started := time.Now()
		params := rule.Parse(req.Rule)
		ctx := generators.GeneratorContext{Column: req.Name, Now: now}

		col := domain.ColumnResult{Name: req.Name, Type: params.Type()}
		values, err := e.generateColumn(rng, ctx, params, n)
		if err != nil {
			col.Values = domain.EmptyValues(n)
			col.Failed = true
			kind := domain.ErrorKind(err)
			ds.Notices = append(ds.Notices, domain.Notice{Column: req.Name, Kind: kind, Message: err.Error()})
			e.logger.Warnw("column.degraded", map[string]any{
				"column": req.Name,
				"kind":   kind,
				"error":  err.Error(),
			})
		} else {
			col.Values = values
		}
		ds.Add(col)

		cs := domain.ColumnRunStats{
			ColumnName:      req.Name,
			Type:            col.Type,
			Failed:          col.Failed,
			DurationSeconds: time.Since(started).Seconds(),
		}
		if err != nil {
			cs.Error = err.Error()
		}
		stats = append(stats, cs)
	}
	return ds, stats
}

func (e *Executor) generateColumn(rng *rand.Rand, ctx generators.GeneratorContext, params rule.ParsedRule, n int) (values []interface{}, err error) {
	if err := rule.Check(params); err != nil {
		return nil, err
	}

	gen, err := e.genRegistry.Get(params.Type())
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			values = nil
			err = fmt.Errorf("generator %s panicked: %v", params.Type(), r)
		}
	}()

	values, err = gen.Generate(rng, ctx, params, n)
	if err != nil {
		return nil, err
	}
	if len(values) != n {
		return nil, fmt.Errorf("generator %s returned %d values, want %d", params.Type(), len(values), n)
	}
	return values, nil
}

// Execute generates the template's dataset and writes it to sink in batches.
func (e *Executor) Execute(ctx context.Context, rng *rand.Rand, tpl *domain.Template, table string, sink Sink, mode string) (*domain.RunStats, *domain.Dataset, error) {
	started := time.Now()

	ds, colStats := e.generate(rng, tpl.Requests(), int(tpl.Rows))

	if err := sink.Connect(); err != nil {
		return nil, ds, fmt.Errorf("failed to connect to target: %w", err)
	}
	defer sink.Close()

	if mode == "" {
		mode = domain.TableModeCreate
	}

	switch mode {
	case domain.TableModeCreate:
		if err := sink.CreateTableIfNotExists(table, ds.ColumnDefs()); err != nil {
			return nil, ds, fmt.Errorf("failed to create table '%s': %w", table, err)
		}
	case domain.TableModeTruncate:
		if err := sink.CreateTableIfNotExists(table, ds.ColumnDefs()); err != nil {
			return nil, ds, fmt.Errorf("failed to create table '%s': %w", table, err)
		}
		if err := sink.TruncateTable(table); err != nil {
			return nil, ds, fmt.Errorf("failed to truncate table '%s': %w", table, err)
		}
	case domain.TableModeAppend:
	default:
		return nil, ds, fmt.Errorf("unknown table mode: %s", mode)
	}

	columnNames := ds.ColumnNames()
	batch := make([][]interface{}, 0, e.batchSize)

	for rowIdx := 0; rowIdx < ds.Rows(); rowIdx++ {
		batch = append(batch, ds.Row(rowIdx))

		if len(batch) >= e.batchSize {
			if err := ctx.Err(); err != nil {
				return nil, ds, err
			}
			if err := sink.InsertBatch(table, columnNames, batch); err != nil {
				return nil, ds, fmt.Errorf("failed to insert batch: %w", err)
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := sink.InsertBatch(table, columnNames, batch); err != nil {
			return nil, ds, fmt.Errorf("failed to insert final batch: %w", err)
		}
	}

	stats := &domain.RunStats{
		ColumnsGenerated: len(ds.Columns) - len(ds.Notices),
		ColumnsFailed:    len(ds.Notices),
		TotalRows:        int64(ds.Rows()),
		DurationSeconds:  time.Since(started).Seconds(),
		ColumnStats:      colStats,
	}
	return stats, ds, nil
}
