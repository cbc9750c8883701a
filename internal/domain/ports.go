package domain

import (
	"context"
	"time"
)

// ExecutionRepository persists query execution records. Append-only: entries
// are inserted and purged by age, never updated.
type ExecutionRepository interface {
	Insert(ctx context.Context, e *QueryExecution) error
	ListByHash(ctx context.Context, queryHash string) ([]QueryExecution, error)
	ListSince(ctx context.Context, since time.Time) ([]QueryExecution, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SlowQueryRepository persists slow-query records derived from executions.
type SlowQueryRepository interface {
	Insert(ctx context.Context, s *SlowQuery) error
	List(ctx context.Context, filter SlowQueryFilter) ([]SlowQuery, int64, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
