package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"semql/internal/config"
	"semql/internal/db"
	"semql/internal/db/repository"
	"semql/internal/domain"
	"semql/internal/service/tracker"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the query execution history store",
	}

	cmd.AddCommand(
		newHistorySlowCmd(),
		newHistoryStatsCmd(),
		newHistorySummaryCmd(),
		newHistoryPurgeCmd(),
		newHistorySweepCmd(),
	)

	return cmd
}

// openTracker opens the history store and wires a tracker service over it.
// The returned closer shuts both connection pools.
func openTracker(cmd *cobra.Command) (*tracker.Service, *config.Config, func(), error) {
	_ = config.LoadDotEnv(".env")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, nil, err
	}

	writeDB, readDB, err := db.OpenSQLitePair(cfg.HistoryDBPath, 4)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open history store: %w", err)
	}
	if err := db.RunMigrations(writeDB); err != nil {
		writeDB.Close() //nolint:errcheck
		readDB.Close()  //nolint:errcheck
		return nil, nil, nil, fmt.Errorf("migrate history store: %w", err)
	}

	svc := tracker.NewService(
		repository.NewExecutionRepo(writeDB),
		repository.NewSlowQueryRepo(writeDB),
		tracker.Options{
			SlowQueryThreshold: cfg.SlowQueryThreshold,
			AlertRPS:           cfg.AlertRPS,
			AlertBurst:         cfg.AlertBurst,
		},
		newLogger(cmd),
	)
	closer := func() {
		writeDB.Close() //nolint:errcheck
		readDB.Close()  //nolint:errcheck
	}
	return svc, cfg, closer, nil
}

func newHistorySlowCmd() *cobra.Command {
	var (
		connectionID string
		queryHash    string
		sinceHours   int
		maxResults   int
		pageToken    string
	)

	cmd := &cobra.Command{
		Use:   "slow",
		Short: "List recorded slow queries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, closer, err := openTracker(cmd)
			if err != nil {
				return err
			}
			defer closer()

			filter := domain.SlowQueryFilter{
				Page: domain.PageRequest{MaxResults: maxResults, PageToken: pageToken},
			}
			if connectionID != "" {
				filter.ConnectionID = &connectionID
			}
			if queryHash != "" {
				filter.QueryHash = &queryHash
			}
			if sinceHours > 0 {
				since := time.Now().Add(-time.Duration(sinceHours) * time.Hour)
				filter.Since = &since
			}

			slow, total, err := svc.SlowQueries(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{
					"slow_queries":    slow,
					"total":           total,
					"next_page_token": domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
				})
			}
			fmt.Fprintf(os.Stdout, "%d of %d slow quer(ies):\n", len(slow), total)
			for _, s := range slow {
				fmt.Fprintf(os.Stdout, "  %s  %s  %s (threshold %s)\n    %s\n",
					s.DetectedAt.Format(time.RFC3339), s.QueryHash,
					formatDuration(s.Duration), formatDuration(s.Threshold), s.SQLText)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&connectionID, "connection", "", "Filter by connection ID")
	cmd.Flags().StringVar(&queryHash, "hash", "", "Filter by query hash")
	cmd.Flags().IntVar(&sinceHours, "since-hours", 0, "Only show queries detected in the last N hours")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Page size")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Page token from a previous call")

	return cmd
}

func newHistoryStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <query-hash>",
		Short: "Show performance percentiles for one query hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closer, err := openTracker(cmd)
			if err != nil {
				return err
			}
			defer closer()

			stats, err := svc.Stats(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, stats)
			}
			fmt.Fprintf(os.Stdout, "Executions: %d\n", stats.Count)
			fmt.Fprintf(os.Stdout, "Min:        %s\n", formatDuration(stats.Min))
			fmt.Fprintf(os.Stdout, "Max:        %s\n", formatDuration(stats.Max))
			fmt.Fprintf(os.Stdout, "Avg:        %s\n", formatDuration(stats.Avg))
			fmt.Fprintf(os.Stdout, "P50:        %s\n", formatDuration(stats.P50))
			fmt.Fprintf(os.Stdout, "P95:        %s\n", formatDuration(stats.P95))
			fmt.Fprintf(os.Stdout, "P99:        %s\n", formatDuration(stats.P99))
			return nil
		},
	}
	return cmd
}

func newHistorySummaryCmd() *cobra.Command {
	var windowHours int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show execution counts bucketed by hour and source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, closer, err := openTracker(cmd)
			if err != nil {
				return err
			}
			defer closer()

			stats, err := svc.HistoryStats(cmd.Context(), time.Duration(windowHours)*time.Hour)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, stats)
			}
			fmt.Fprintf(os.Stdout, "%d execution(s) in the last %s\n", stats.Total, stats.Window)
			for _, b := range stats.ByHour {
				fmt.Fprintf(os.Stdout, "  %s  %d\n", b.Hour.Format("2006-01-02 15:00"), b.Count)
			}
			for source, count := range stats.BySource {
				fmt.Fprintf(os.Stdout, "  %-12s %d\n", source, count)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&windowHours, "window-hours", 24, "Lookback window in hours")

	return cmd
}

func newHistoryPurgeCmd() *cobra.Command {
	var retentionDays int

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete execution history older than the retention period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cfg, closer, err := openTracker(cmd)
			if err != nil {
				return err
			}
			defer closer()

			retention := cfg.HistoryRetention
			if cmd.Flags().Changed("retention-days") {
				retention = time.Duration(retentionDays) * 24 * time.Hour
			}
			purged, err := svc.PurgeOlderThan(cmd.Context(), retention)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{"purged": purged})
			}
			fmt.Fprintf(os.Stdout, "Purged %d record(s).\n", purged)
			return nil
		},
	}

	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "Keep records newer than this many days (default from HISTORY_RETENTION_DAYS)")

	return cmd
}

func newHistorySweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the scheduled retention sweeper until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cfg, closer, err := openTracker(cmd)
			if err != nil {
				return err
			}
			defer closer()

			sweeper, err := tracker.NewRetentionSweeper(svc, cfg.RetentionCron, cfg.HistoryRetention, newLogger(cmd))
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer cancel()

			fmt.Fprintf(os.Stdout, "Sweeping on %q, retention %s. Ctrl-C to stop.\n",
				cfg.RetentionCron, cfg.HistoryRetention)
			sweeper.Start()
			<-ctx.Done()
			sweeper.Stop()
			return nil
		},
	}
}
