package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"semql"
	"semql/internal/domain"
	"semql/internal/modelfile"
)

func newCompileCmd() *cobra.Command {
	var (
		modelPath  string
		dimensions []string
		measures   []string
		filters    []string
		orderBy    []string
		limit      int
		offset     int
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a logical query into SQL",
		Long:  "Loads a semantic model from a YAML file and compiles a logical query description into executable SQL for the chosen dialect.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(getOutputFormat(cmd)); err != nil {
				return err
			}

			model, err := modelfile.Load(modelPath)
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}

			engine := semql.NewEngine(semql.Options{Logger: newLogger(cmd)})
			modelID, err := engine.RegisterModel(*model)
			if err != nil {
				return fmt.Errorf("register model: %w", err)
			}

			q := domain.LogicalQuery{
				Dimensions: dimensions,
				Measures:   measures,
			}
			if q.Filters, err = parseFilters(filters); err != nil {
				return err
			}
			if q.OrderBy, err = parseOrderTerms(orderBy); err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				q.Limit = &limit
			}
			if cmd.Flags().Changed("offset") {
				q.Offset = &offset
			}

			compiled, err := engine.Compile(modelID, q, getDialect(cmd))
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				tables := compiled.Path.Tables()
				return printJSON(os.Stdout, map[string]interface{}{
					"sql":        compiled.SQL,
					"dialect":    string(compiled.Dialect),
					"query_hash": compiled.QueryHash,
					"tables":     tables,
				})
			}
			fmt.Fprintln(os.Stdout, compiled.SQL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "semql.yaml", "Path to the semantic model YAML file")
	cmd.Flags().StringSliceVar(&dimensions, "dimensions", nil, "Dimension names to group by")
	cmd.Flags().StringSliceVar(&measures, "measures", nil, "Measure names to aggregate")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter in table.column:op[:value] form (repeatable)")
	cmd.Flags().StringArrayVar(&orderBy, "order-by", nil, "Sort term in table.column[:desc] form (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Row limit")
	cmd.Flags().IntVar(&offset, "offset", 0, "Row offset")

	return cmd
}

// parseFilters parses table.column:op[:value] filter expressions. The value
// is typed by shape: integers and floats become numbers, true/false become
// booleans, everything else stays a string.
func parseFilters(exprs []string) ([]domain.Filter, error) {
	var out []domain.Filter
	for _, expr := range exprs {
		parts := strings.SplitN(expr, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid filter %q: expected table.column:op[:value]", expr)
		}
		table, column, err := splitQualified(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %v", expr, err)
		}
		f := domain.Filter{Table: table, Column: column, Operator: parts[1]}
		if len(parts) == 3 {
			f.Value = parseValue(parts[2])
		}
		out = append(out, f)
	}
	return out, nil
}

func parseOrderTerms(exprs []string) ([]domain.OrderTerm, error) {
	var out []domain.OrderTerm
	for _, expr := range exprs {
		ref := expr
		descending := false
		if rest, ok := strings.CutSuffix(expr, ":desc"); ok {
			ref = rest
			descending = true
		} else if rest, ok := strings.CutSuffix(expr, ":asc"); ok {
			ref = rest
		}
		table, column, err := splitQualified(ref)
		if err != nil {
			return nil, fmt.Errorf("invalid order term %q: %v", expr, err)
		}
		out = append(out, domain.OrderTerm{Table: table, Column: column, Descending: descending})
	}
	return out, nil
}

func splitQualified(ref string) (table, column string, err error) {
	table, column, ok := strings.Cut(ref, ".")
	if !ok || table == "" || column == "" {
		return "", "", fmt.Errorf("expected table.column, got %q", ref)
	}
	return table, column, nil
}

func parseValue(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
