// Package tracker records real query executions, derives slow-query records
// and per-hash performance statistics, and enforces the in-process history
// retention window.
package tracker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"semql/internal/domain"
)

// DefaultSlowQueryThreshold applies when Options leaves the threshold unset.
const DefaultSlowQueryThreshold = time.Second

// Options configures a tracker Service.
type Options struct {
	SlowQueryThreshold time.Duration
	// AlertRPS / AlertBurst bound slow-query WARN log lines so a storm of
	// slow executions cannot flood the log. Zero values mean 1 rps, burst 5.
	AlertRPS   float64
	AlertBurst int
}

// Service is the execution tracker.
type Service struct {
	executions domain.ExecutionRepository
	slow       domain.SlowQueryRepository
	threshold  time.Duration
	alerts     *rate.Limiter
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a tracker Service.
func NewService(executions domain.ExecutionRepository, slow domain.SlowQueryRepository, opts Options, logger *slog.Logger) *Service {
	threshold := opts.SlowQueryThreshold
	if threshold <= 0 {
		threshold = DefaultSlowQueryThreshold
	}
	rps := opts.AlertRPS
	if rps <= 0 {
		rps = 1
	}
	burst := opts.AlertBurst
	if burst <= 0 {
		burst = 5
	}
	return &Service{
		executions: executions,
		slow:       slow,
		threshold:  threshold,
		alerts:     rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
		now:        time.Now,
	}
}

// RecordExecutionRequest holds parameters for recording one execution.
type RecordExecutionRequest struct {
	SQLText      string
	ConnectionID string
	Source       string
	Duration     time.Duration
	RowsReturned int64
	RowsScanned  int64
	Status       string
	ErrorMessage string
	StartedAt    time.Time // zero means now
}

// Validate checks that the request is well-formed.
func (r *RecordExecutionRequest) Validate() error {
	if r.SQLText == "" {
		return domain.ErrValidation("sql_text is required")
	}
	if r.Duration < 0 {
		return domain.ErrValidation("duration must be >= 0")
	}
	switch r.Status {
	case domain.ExecutionStatusSuccess, domain.ExecutionStatusError, domain.ExecutionStatusTimeout:
	default:
		return domain.ErrValidation("status must be SUCCESS, ERROR, or TIMEOUT")
	}
	return nil
}

// RecordExecution appends one execution record. A successful execution at or
// above the slow-query threshold additionally produces exactly one SlowQuery.
func (s *Service) RecordExecution(ctx context.Context, req RecordExecutionRequest) (*domain.QueryExecution, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startedAt := req.StartedAt
	if startedAt.IsZero() {
		startedAt = s.now()
	}

	exec := &domain.QueryExecution{
		ID:           domain.NewID(),
		QueryHash:    domain.QueryHash(req.SQLText),
		SQLText:      req.SQLText,
		ConnectionID: req.ConnectionID,
		Source:       req.Source,
		Duration:     req.Duration,
		RowsReturned: req.RowsReturned,
		RowsScanned:  req.RowsScanned,
		Status:       req.Status,
		ErrorMessage: req.ErrorMessage,
		StartedAt:    startedAt,
	}
	if err := s.executions.Insert(ctx, exec); err != nil {
		return nil, err
	}

	if exec.Status == domain.ExecutionStatusSuccess && exec.Duration >= s.threshold {
		sq := &domain.SlowQuery{
			ID:           domain.NewID(),
			ExecutionID:  exec.ID,
			QueryHash:    exec.QueryHash,
			SQLText:      exec.SQLText,
			ConnectionID: exec.ConnectionID,
			Duration:     exec.Duration,
			Threshold:    s.threshold,
			DetectedAt:   s.now(),
		}
		if err := s.slow.Insert(ctx, sq); err != nil {
			return nil, err
		}
		if s.alerts.Allow() {
			s.logger.Warn("slow query detected",
				"hash", exec.QueryHash,
				"connection", exec.ConnectionID,
				"duration", exec.Duration,
				"threshold", s.threshold)
		}
	}

	return exec, nil
}

// SlowQueries lists recorded slow queries matching the filter.
func (s *Service) SlowQueries(ctx context.Context, filter domain.SlowQueryFilter) ([]domain.SlowQuery, int64, error) {
	return s.slow.List(ctx, filter)
}

// PurgeOlderThan removes executions and slow queries older than the
// retention window. Returns the number of rows removed.
func (s *Service) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	purged, err := s.executions.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	slowPurged, err := s.slow.PurgeBefore(ctx, cutoff)
	if err != nil {
		return purged, err
	}
	return purged + slowPurged, nil
}
