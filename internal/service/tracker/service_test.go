package tracker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "semql/internal/db"
	"semql/internal/db/repository"
	"semql/internal/domain"
)

func setupTracker(t *testing.T, opts Options) *Service {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewService(
		repository.NewExecutionRepo(writeDB),
		repository.NewSlowQueryRepo(writeDB),
		opts,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func record(t *testing.T, svc *Service, req RecordExecutionRequest) *domain.QueryExecution {
	t.Helper()
	if req.Status == "" {
		req.Status = domain.ExecutionStatusSuccess
	}
	exec, err := svc.RecordExecution(context.Background(), req)
	require.NoError(t, err)
	return exec
}

func TestRecordExecution_BelowThresholdIsNotSlow(t *testing.T) {
	svc := setupTracker(t, Options{SlowQueryThreshold: 100 * time.Millisecond})

	record(t, svc, RecordExecutionRequest{
		SQLText:  "SELECT id FROM orders",
		Duration: 99 * time.Millisecond,
	})

	slow, total, err := svc.SlowQueries(context.Background(), domain.SlowQueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, slow)
	assert.Equal(t, int64(0), total)
}

func TestRecordExecution_AtThresholdIsSlow(t *testing.T) {
	svc := setupTracker(t, Options{SlowQueryThreshold: 100 * time.Millisecond})

	exec := record(t, svc, RecordExecutionRequest{
		SQLText:      "SELECT id FROM orders",
		ConnectionID: "conn-1",
		Duration:     100 * time.Millisecond,
	})

	slow, total, err := svc.SlowQueries(context.Background(), domain.SlowQueryFilter{})
	require.NoError(t, err)
	require.Len(t, slow, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, exec.ID, slow[0].ExecutionID)
	assert.Equal(t, exec.QueryHash, slow[0].QueryHash)
	assert.Equal(t, 100*time.Millisecond, slow[0].Duration)
	assert.Equal(t, 100*time.Millisecond, slow[0].Threshold)
}

func TestRecordExecution_FailedExecutionIsNeverSlow(t *testing.T) {
	svc := setupTracker(t, Options{SlowQueryThreshold: 100 * time.Millisecond})

	for _, status := range []string{domain.ExecutionStatusError, domain.ExecutionStatusTimeout} {
		record(t, svc, RecordExecutionRequest{
			SQLText:      "SELECT id FROM orders",
			Duration:     time.Second,
			Status:       status,
			ErrorMessage: "boom",
		})
	}

	slow, _, err := svc.SlowQueries(context.Background(), domain.SlowQueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, slow)
}

func TestRecordExecution_Validation(t *testing.T) {
	svc := setupTracker(t, Options{})

	cases := []RecordExecutionRequest{
		{Status: domain.ExecutionStatusSuccess},
		{SQLText: "SELECT 1", Status: "RUNNING"},
		{SQLText: "SELECT 1", Status: domain.ExecutionStatusSuccess, Duration: -time.Second},
	}
	for _, req := range cases {
		_, err := svc.RecordExecution(context.Background(), req)
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
	}
}

func TestRecordExecution_HashNormalization(t *testing.T) {
	svc := setupTracker(t, Options{})

	a := record(t, svc, RecordExecutionRequest{SQLText: "SELECT id\n  FROM orders"})
	b := record(t, svc, RecordExecutionRequest{SQLText: "select ID from ORDERS"})
	c := record(t, svc, RecordExecutionRequest{SQLText: "SELECT name FROM orders"})

	assert.Equal(t, a.QueryHash, b.QueryHash)
	assert.NotEqual(t, a.QueryHash, c.QueryHash)
}

func TestStats_SmallSampleFallsBackToMax(t *testing.T) {
	svc := setupTracker(t, Options{})

	for _, d := range []time.Duration{10 * time.Millisecond, 30 * time.Millisecond, 20 * time.Millisecond} {
		record(t, svc, RecordExecutionRequest{SQLText: "SELECT id FROM orders", Duration: d})
	}

	stats, err := svc.Stats(context.Background(), domain.QueryHash("SELECT id FROM orders"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 30*time.Millisecond, stats.Max)
	assert.Equal(t, 20*time.Millisecond, stats.Avg)
	assert.Equal(t, 20*time.Millisecond, stats.P50)
	assert.Equal(t, stats.Max, stats.P95)
	assert.Equal(t, stats.Max, stats.P99)
}

func TestStats_PercentilesWithEnoughSamples(t *testing.T) {
	svc := setupTracker(t, Options{SlowQueryThreshold: time.Hour})

	for i := 1; i <= 20; i++ {
		record(t, svc, RecordExecutionRequest{
			SQLText:  "SELECT id FROM orders",
			Duration: time.Duration(i) * 10 * time.Millisecond,
		})
	}

	stats, err := svc.Stats(context.Background(), domain.QueryHash("SELECT id FROM orders"))
	require.NoError(t, err)
	assert.Equal(t, int64(20), stats.Count)
	assert.Equal(t, 100*time.Millisecond, stats.P50)
	assert.Equal(t, 190*time.Millisecond, stats.P95)
	assert.Equal(t, 200*time.Millisecond, stats.P99)
}

func TestStats_UnknownHash(t *testing.T) {
	svc := setupTracker(t, Options{})

	_, err := svc.Stats(context.Background(), "deadbeef")
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestHistoryStats_BucketsBySourceAndHour(t *testing.T) {
	svc := setupTracker(t, Options{})
	started := time.Now().Add(-10 * time.Minute)

	record(t, svc, RecordExecutionRequest{SQLText: "SELECT 1 FROM a", Source: "api", StartedAt: started})
	record(t, svc, RecordExecutionRequest{SQLText: "SELECT 2 FROM a", Source: "api", StartedAt: started})
	record(t, svc, RecordExecutionRequest{SQLText: "SELECT 3 FROM a", StartedAt: started})

	stats, err := svc.HistoryStats(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.BySource["api"])
	assert.Equal(t, int64(1), stats.BySource["unknown"])

	var bucketSum int64
	for _, b := range stats.ByHour {
		bucketSum += b.Count
	}
	assert.Equal(t, int64(3), bucketSum)
}

func TestHistoryStats_ExcludesExecutionsOutsideWindow(t *testing.T) {
	svc := setupTracker(t, Options{})

	record(t, svc, RecordExecutionRequest{SQLText: "SELECT old FROM a", StartedAt: time.Now().Add(-48 * time.Hour)})
	record(t, svc, RecordExecutionRequest{SQLText: "SELECT new FROM a", StartedAt: time.Now().Add(-time.Minute)})

	stats, err := svc.HistoryStats(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
}

func TestHistoryStats_RejectsNonPositiveWindow(t *testing.T) {
	svc := setupTracker(t, Options{})

	_, err := svc.HistoryStats(context.Background(), 0)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestPurgeOlderThan(t *testing.T) {
	svc := setupTracker(t, Options{SlowQueryThreshold: time.Hour})

	record(t, svc, RecordExecutionRequest{SQLText: "SELECT old FROM a", StartedAt: time.Now().Add(-48 * time.Hour)})
	record(t, svc, RecordExecutionRequest{SQLText: "SELECT new FROM a", StartedAt: time.Now().Add(-time.Minute)})

	purged, err := svc.PurgeOlderThan(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = svc.Stats(context.Background(), domain.QueryHash("SELECT old FROM a"))
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)

	stats, err := svc.Stats(context.Background(), domain.QueryHash("SELECT new FROM a"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count)
}

func TestSlowQueries_FilterByConnection(t *testing.T) {
	svc := setupTracker(t, Options{SlowQueryThreshold: time.Millisecond})

	record(t, svc, RecordExecutionRequest{SQLText: "SELECT a FROM t", ConnectionID: "conn-1", Duration: time.Second})
	record(t, svc, RecordExecutionRequest{SQLText: "SELECT b FROM t", ConnectionID: "conn-2", Duration: time.Second})

	conn := "conn-1"
	slow, total, err := svc.SlowQueries(context.Background(), domain.SlowQueryFilter{ConnectionID: &conn})
	require.NoError(t, err)
	require.Len(t, slow, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "conn-1", slow[0].ConnectionID)
}
