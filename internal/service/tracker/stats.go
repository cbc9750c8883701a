package tracker

import (
	"context"
	"sort"
	"time"

	"semql/internal/domain"
)

// minPercentileSamples is the smallest sample size for which p95/p99 are
// computed; below it they fall back to the maximum observed duration.
const minPercentileSamples = 20

// Stats aggregates every recorded execution sharing a query hash.
func (s *Service) Stats(ctx context.Context, queryHash string) (*domain.QueryPerformanceStats, error) {
	execs, err := s.executions.ListByHash(ctx, queryHash)
	if err != nil {
		return nil, err
	}
	if len(execs) == 0 {
		return nil, domain.ErrNotFound("no executions recorded for query hash %q", queryHash)
	}

	durations := make([]time.Duration, len(execs))
	var sum time.Duration
	for i, e := range execs {
		durations[i] = e.Duration
		sum += e.Duration
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	stats := &domain.QueryPerformanceStats{
		QueryHash: queryHash,
		Count:     int64(len(durations)),
		Min:       durations[0],
		Max:       durations[len(durations)-1],
		Avg:       sum / time.Duration(len(durations)),
		P50:       percentile(durations, 50),
	}
	if len(durations) >= minPercentileSamples {
		stats.P95 = percentile(durations, 95)
		stats.P99 = percentile(durations, 99)
	} else {
		stats.P95 = stats.Max
		stats.P99 = stats.Max
	}
	return stats, nil
}

// HistoryStats buckets executions over the lookback window by hour and by
// source type.
func (s *Service) HistoryStats(ctx context.Context, window time.Duration) (*domain.HistoryStats, error) {
	if window <= 0 {
		return nil, domain.ErrValidation("window must be > 0")
	}
	since := s.now().Add(-window)
	execs, err := s.executions.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	byHour := map[time.Time]int64{}
	bySource := map[string]int64{}
	for _, e := range execs {
		byHour[e.StartedAt.UTC().Truncate(time.Hour)]++
		source := e.Source
		if source == "" {
			source = "unknown"
		}
		bySource[source]++
	}

	hours := make([]domain.HourBucket, 0, len(byHour))
	for hour, count := range byHour {
		hours = append(hours, domain.HourBucket{Hour: hour, Count: count})
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Hour.Before(hours[j].Hour) })

	return &domain.HistoryStats{
		Window:   window,
		Total:    int64(len(execs)),
		ByHour:   hours,
		BySource: bySource,
	}, nil
}

// percentile returns the nearest-rank percentile of sorted durations.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted)*p + 99) / 100
	if idx < 1 {
		idx = 1
	}
	if idx > len(sorted) {
		idx = len(sorted)
	}
	return sorted[idx-1]
}
