package repository

import (
	"context"
	"database/sql"
	"time"

	"semql/internal/domain"
)

// Compile-time check.
var _ domain.ExecutionRepository = (*ExecutionRepo)(nil)

// ExecutionRepo implements ExecutionRepository using SQLite.
type ExecutionRepo struct {
	db *sql.DB
}

// NewExecutionRepo creates a new ExecutionRepo.
func NewExecutionRepo(conn *sql.DB) *ExecutionRepo {
	return &ExecutionRepo{db: conn}
}

const executionColumns = `id, query_hash, sql_text, connection_id, source,
	duration_ns, rows_returned, rows_scanned, status, error_message, started_at`

// Insert appends one execution record.
func (r *ExecutionRepo) Insert(ctx context.Context, e *domain.QueryExecution) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO query_executions (`+executionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.QueryHash, e.SQLText, e.ConnectionID, e.Source,
		int64(e.Duration), e.RowsReturned, e.RowsScanned, e.Status,
		e.ErrorMessage, formatTime(e.StartedAt))
	return mapDBError(err)
}

// ListByHash returns all executions sharing a query hash, oldest first.
func (r *ExecutionRepo) ListByHash(ctx context.Context, queryHash string) ([]domain.QueryExecution, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+executionColumns+`
		FROM query_executions
		WHERE query_hash = ?
		ORDER BY started_at`,
		queryHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck
	return scanExecutions(rows)
}

// ListSince returns all executions that started at or after the given time.
func (r *ExecutionRepo) ListSince(ctx context.Context, since time.Time) ([]domain.QueryExecution, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+executionColumns+`
		FROM query_executions
		WHERE started_at >= ?
		ORDER BY started_at`,
		formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck
	return scanExecutions(rows)
}

// PurgeBefore removes executions older than the cutoff and returns the count.
func (r *ExecutionRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM query_executions WHERE started_at < ?`,
		formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanExecutions(rows *sql.Rows) ([]domain.QueryExecution, error) {
	var out []domain.QueryExecution
	for rows.Next() {
		var e domain.QueryExecution
		var durationNS int64
		var startedAt string
		if err := rows.Scan(&e.ID, &e.QueryHash, &e.SQLText, &e.ConnectionID,
			&e.Source, &durationNS, &e.RowsReturned, &e.RowsScanned,
			&e.Status, &e.ErrorMessage, &startedAt); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durationNS)
		e.StartedAt = parseTime(startedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
