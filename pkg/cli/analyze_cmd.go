package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"semql"
	"semql/internal/domain"
)

type analyzeReport struct {
	File   string                    `json:"file"`
	Result domain.OptimizationResult `json:"result"`
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file.sql...]",
		Short: "Analyze SQL queries for optimization opportunities",
		Long:  "Analyzes one or more SQL files (or stdin when no files are given) and prints prioritized optimization suggestions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(getOutputFormat(cmd)); err != nil {
				return err
			}

			engine := semql.NewEngine(semql.Options{Logger: newLogger(cmd)})
			dialect := getDialect(cmd)

			if len(args) == 0 {
				sqlText, err := readSQLArg(nil)
				if err != nil {
					return err
				}
				result, err := engine.Analyze(sqlText, dialect)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(os.Stdout, result)
				}
				printAnalysis(os.Stdout, result)
				return nil
			}

			// Analysis is CPU-bound per file, so fan out across the inputs.
			reports := make([]analyzeReport, len(args))
			var g errgroup.Group
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
					if err != nil {
						return fmt.Errorf("read %s: %w", path, err)
					}
					result, err := engine.Analyze(string(data), dialect)
					if err != nil {
						return fmt.Errorf("analyze %s: %w", path, err)
					}
					reports[i] = analyzeReport{File: path, Result: result}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, reports)
			}
			for i, report := range reports {
				if i > 0 {
					fmt.Fprintln(os.Stdout)
				}
				fmt.Fprintf(os.Stdout, "== %s ==\n", report.File)
				printAnalysis(os.Stdout, report.Result)
			}
			return nil
		},
	}
	return cmd
}

func printAnalysis(w io.Writer, result domain.OptimizationResult) {
	fmt.Fprintf(w, "Status:     %s\n", result.Status)
	fmt.Fprintf(w, "Query hash: %s\n", result.QueryHash)
	printEstimate(w, result.Estimate)

	if len(result.Suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions.")
	} else {
		fmt.Fprintf(w, "Suggestions (%d):\n", len(result.Suggestions))
		for _, s := range result.Suggestions {
			fmt.Fprintf(w, "  [%s] %s (est. improvement %s)\n",
				s.Priority, s.Description, formatPercent(float64(s.EstimatedImprovement)))
		}
	}
	for _, idx := range result.IndexSuggestions {
		fmt.Fprintf(w, "Index: %s\n", idx.StatementSQL)
	}
	for _, b := range result.Bottlenecks {
		fmt.Fprintf(w, "Bottleneck: %s\n", b)
	}
}
