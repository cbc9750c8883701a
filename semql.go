// Package semql is the semantic query compiler core: it turns logical query
// descriptions against registered semantic models into dialect-specific SQL,
// estimates execution cost from SQL text or compiled queries, proposes
// optimizations, and tracks real execution history.
//
// The package is invoked as a library by the surrounding platform. It never
// executes SQL itself: generated statements and CREATE INDEX suggestions are
// advisory text for the caller.
package semql

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"semql/internal/catalog"
	"semql/internal/domain"
	"semql/internal/service/analyzer"
	"semql/internal/service/compiler"
	"semql/internal/service/tracker"
)

// Options configures an Engine.
type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Tracker enables the execution-history operations. When nil,
	// RecordExecution and friends fail with a ValidationError.
	Tracker *tracker.Service
}

// Engine owns the registered semantic models and the shared analyzer and
// tracker services. Operations on distinct models are independent; the
// registry itself is safe for concurrent use.
type Engine struct {
	logger   *slog.Logger
	analyzer *analyzer.Service
	tracker  *tracker.Service

	mu        sync.RWMutex
	catalogs  map[string]*catalog.Catalog
	compilers map[string]*compiler.Service
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:    logger,
		analyzer:  analyzer.NewService(logger),
		tracker:   opts.Tracker,
		catalogs:  map[string]*catalog.Catalog{},
		compilers: map[string]*compiler.Service{},
	}
}

// RegisterModel validates a semantic model and registers it for compilation.
// Returns the model ID (generated when the model carries none).
func (e *Engine) RegisterModel(model domain.SemanticModel) (string, error) {
	cat, err := catalog.New(model)
	if err != nil {
		return "", err
	}
	id := cat.ModelID()

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.catalogs[id]; exists {
		return "", domain.ErrConflict("model %q is already registered", id)
	}
	e.catalogs[id] = cat
	e.compilers[id] = compiler.NewService(cat, e.logger)
	return id, nil
}

// DeregisterModel removes a registered model.
func (e *Engine) DeregisterModel(modelID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.catalogs[modelID]; !ok {
		return domain.ErrNotFound("model %q not found", modelID)
	}
	delete(e.catalogs, modelID)
	delete(e.compilers, modelID)
	return nil
}

// Catalog returns the mutable catalog of a registered model, for definition
// maintenance (add/remove tables, relationships, measures, dimensions).
func (e *Engine) Catalog(modelID string) (*catalog.Catalog, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cat, ok := e.catalogs[modelID]
	if !ok {
		return nil, domain.ErrNotFound("model %q not found", modelID)
	}
	return cat, nil
}

// Compile turns a logical query against a registered model into SQL for the
// given dialect.
func (e *Engine) Compile(modelID string, q domain.LogicalQuery, dialect string) (*compiler.CompiledQuery, error) {
	d, err := compiler.ParseDialect(dialect)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	svc, ok := e.compilers[modelID]
	e.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound("model %q not found", modelID)
	}
	return svc.Compile(q, d)
}

// EstimateCompiled estimates cost from a compiled query's exact structure,
// the high-confidence estimation path.
func (e *Engine) EstimateCompiled(c *compiler.CompiledQuery) domain.CostEstimate {
	return e.analyzer.EstimateLogical(c.Path, c.Query, len(c.Measures), len(c.Dimensions))
}

// EstimateCost analyzes free-form SQL text and returns a heuristic cost
// estimate. Unparseable text yields a zero-confidence estimate, never an
// error.
func (e *Engine) EstimateCost(sqlText, dialect string) (domain.CostEstimate, error) {
	if _, err := compiler.ParseDialect(dialect); err != nil {
		return domain.CostEstimate{}, err
	}
	return e.analyzer.EstimateCost(sqlText), nil
}

// Analyze inspects SQL text and returns prioritized optimization
// suggestions with the underlying cost estimate.
func (e *Engine) Analyze(sqlText, dialect string) (domain.OptimizationResult, error) {
	if _, err := compiler.ParseDialect(dialect); err != nil {
		return domain.OptimizationResult{}, err
	}
	return e.analyzer.Analyze(sqlText), nil
}

// Plan returns the synthetic plan tree behind an estimate, or nil when the
// text yielded no usable signals.
func (e *Engine) Plan(sqlText string) *domain.PlanNode {
	return e.analyzer.Plan(sqlText)
}

// RecordExecution appends one real execution record, deriving a SlowQuery
// when the duration crosses the configured threshold.
func (e *Engine) RecordExecution(ctx context.Context, req tracker.RecordExecutionRequest) (*domain.QueryExecution, error) {
	if e.tracker == nil {
		return nil, domain.ErrValidation("execution tracking is not configured")
	}
	return e.tracker.RecordExecution(ctx, req)
}

// SlowQueries lists recorded slow queries matching the filter.
func (e *Engine) SlowQueries(ctx context.Context, filter domain.SlowQueryFilter) ([]domain.SlowQuery, int64, error) {
	if e.tracker == nil {
		return nil, 0, domain.ErrValidation("execution tracking is not configured")
	}
	return e.tracker.SlowQueries(ctx, filter)
}

// Stats aggregates all executions sharing a query hash.
func (e *Engine) Stats(ctx context.Context, queryHash string) (*domain.QueryPerformanceStats, error) {
	if e.tracker == nil {
		return nil, domain.ErrValidation("execution tracking is not configured")
	}
	return e.tracker.Stats(ctx, queryHash)
}

// HistoryStats buckets executions over a lookback window by hour and source.
func (e *Engine) HistoryStats(ctx context.Context, window time.Duration) (*domain.HistoryStats, error) {
	if e.tracker == nil {
		return nil, domain.ErrValidation("execution tracking is not configured")
	}
	return e.tracker.HistoryStats(ctx, window)
}
