package domain

import "time"

// Execution statuses.
const (
	ExecutionStatusSuccess = "SUCCESS"
	ExecutionStatusError   = "ERROR"
	ExecutionStatusTimeout = "TIMEOUT"
)

// QueryExecution is an immutable record of one real query execution reported
// by the host platform.
type QueryExecution struct {
	ID           string
	QueryHash    string
	SQLText      string
	ConnectionID string
	Source       string
	Duration     time.Duration
	RowsReturned int64
	RowsScanned  int64
	Status       string
	ErrorMessage string
	StartedAt    time.Time
}

// SlowQuery flags one execution whose duration met or exceeded the configured
// slow-query threshold.
type SlowQuery struct {
	ID           string
	ExecutionID  string
	QueryHash    string
	SQLText      string
	ConnectionID string
	Duration     time.Duration
	Threshold    time.Duration
	DetectedAt   time.Time
}

// SlowQueryFilter holds filter parameters for listing slow queries.
type SlowQueryFilter struct {
	ConnectionID *string
	QueryHash    *string
	Since        *time.Time
	Page         PageRequest
}

// QueryPerformanceStats aggregates all executions sharing a query hash.
// P95/P99 fall back to Max below the minimum sample size.
type QueryPerformanceStats struct {
	QueryHash string
	Count     int64
	Min       time.Duration
	Max       time.Duration
	Avg       time.Duration
	P50       time.Duration
	P95       time.Duration
	P99       time.Duration
}

// HourBucket is one hour of execution history.
type HourBucket struct {
	Hour  time.Time
	Count int64
}

// HistoryStats buckets executions over a lookback window by hour and by
// source type.
type HistoryStats struct {
	Window   time.Duration
	Total    int64
	ByHour   []HourBucket
	BySource map[string]int64
}
