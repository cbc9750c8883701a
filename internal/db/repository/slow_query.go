package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"semql/internal/domain"
)

// Compile-time check.
var _ domain.SlowQueryRepository = (*SlowQueryRepo)(nil)

// SlowQueryRepo implements SlowQueryRepository using SQLite.
type SlowQueryRepo struct {
	db *sql.DB
}

// NewSlowQueryRepo creates a new SlowQueryRepo.
func NewSlowQueryRepo(conn *sql.DB) *SlowQueryRepo {
	return &SlowQueryRepo{db: conn}
}

const slowQueryColumns = `id, execution_id, query_hash, sql_text,
	connection_id, duration_ns, threshold_ns, detected_at`

// Insert appends one slow-query record.
func (r *SlowQueryRepo) Insert(ctx context.Context, s *domain.SlowQuery) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO slow_queries (`+slowQueryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ExecutionID, s.QueryHash, s.SQLText, s.ConnectionID,
		int64(s.Duration), int64(s.Threshold), formatTime(s.DetectedAt))
	return mapDBError(err)
}

// List returns slow queries matching the filter, newest first, plus the
// total match count for pagination.
func (r *SlowQueryRepo) List(ctx context.Context, filter domain.SlowQueryFilter) ([]domain.SlowQuery, int64, error) {
	where, args := buildSlowQueryWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slow_queries`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(append([]interface{}{}, args...),
		filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+slowQueryColumns+`
		FROM slow_queries`+where+`
		ORDER BY detected_at DESC
		LIMIT ? OFFSET ?`,
		listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.SlowQuery
	for rows.Next() {
		var s domain.SlowQuery
		var durationNS, thresholdNS int64
		var detectedAt string
		if err := rows.Scan(&s.ID, &s.ExecutionID, &s.QueryHash, &s.SQLText,
			&s.ConnectionID, &durationNS, &thresholdNS, &detectedAt); err != nil {
			return nil, 0, err
		}
		s.Duration = time.Duration(durationNS)
		s.Threshold = time.Duration(thresholdNS)
		s.DetectedAt = parseTime(detectedAt)
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// PurgeBefore removes slow queries detected before the cutoff.
func (r *SlowQueryRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM slow_queries WHERE detected_at < ?`,
		formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func buildSlowQueryWhere(filter domain.SlowQueryFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if filter.ConnectionID != nil {
		clauses = append(clauses, "connection_id = ?")
		args = append(args, *filter.ConnectionID)
	}
	if filter.QueryHash != nil {
		clauses = append(clauses, "query_hash = ?")
		args = append(args, *filter.QueryHash)
	}
	if filter.Since != nil {
		clauses = append(clauses, "detected_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
