// Package cli implements the semql command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"semql/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = printJSON(os.Stdout, map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		output  string
		dialect string
	)

	rootCmd := &cobra.Command{
		Use:           "semql",
		Short:         "Semantic query compiler CLI",
		Long:          "Compile logical queries against semantic models, estimate query cost, and inspect execution history.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Precedence: flag > env > default.
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("SEMQL_OUTPUT"); v != "" {
					output = v
				}
			}
			if !cmd.Flags().Changed("dialect") {
				if v := os.Getenv("SEMQL_DIALECT"); v != "" {
					dialect = v
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&dialect, "dialect", "d", "ansi", "SQL dialect (ansi, mysql)")

	rootCmd.AddCommand(
		newCompileCmd(),
		newEstimateCmd(),
		newAnalyzeCmd(),
		newValidateCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

// getDialect returns the effective SQL dialect from the root command's persistent flags.
func getDialect(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("dialect")
	return v
}

// newLogger builds a logger for CLI commands. Respects LOG_LEVEL but stays
// quiet by default so command output remains scriptable.
func newLogger(_ *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = (&config.Config{LogLevel: v}).SlogLevel()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}
