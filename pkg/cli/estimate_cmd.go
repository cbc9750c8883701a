package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"semql"
	"semql/internal/domain"
)

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate [file.sql]",
		Short: "Estimate the cost of a SQL query",
		Long:  "Reads SQL from a file (or stdin when no file is given) and prints a heuristic cost estimate.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(getOutputFormat(cmd)); err != nil {
				return err
			}

			sqlText, err := readSQLArg(args)
			if err != nil {
				return err
			}

			engine := semql.NewEngine(semql.Options{Logger: newLogger(cmd)})
			est, err := engine.EstimateCost(sqlText, getDialect(cmd))
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, est)
			}
			printEstimate(os.Stdout, est)
			return nil
		},
	}
	return cmd
}

func printEstimate(w io.Writer, est domain.CostEstimate) {
	fmt.Fprintf(w, "Total cost:      %.2f\n", est.TotalCost)
	fmt.Fprintf(w, "  I/O:           %.2f\n", est.IOCost)
	fmt.Fprintf(w, "  CPU:           %.2f\n", est.CPUCost)
	fmt.Fprintf(w, "  Startup:       %.2f\n", est.StartupCost)
	fmt.Fprintf(w, "Estimated rows:  %d\n", est.EstimatedRows)
	fmt.Fprintf(w, "Transfer bytes:  %d\n", est.DataTransferBytes)
	fmt.Fprintf(w, "Complexity:      %s\n", est.Complexity)
	fmt.Fprintf(w, "Confidence:      %.2f\n", est.Confidence)
}

// readSQLArg reads the SQL text from the single optional file argument,
// falling back to stdin.
func readSQLArg(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0]) //nolint:gosec // path is caller-controlled
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}
