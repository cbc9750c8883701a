package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"semql/internal/modelfile"
)

func newValidateCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a semantic model file offline",
		Long:  "Reads a semantic model YAML file and checks table, relationship, measure, and dimension references without compiling anything.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := modelfile.Load(modelPath)
			if err != nil {
				if getOutputFormat(cmd) == "json" {
					if perr := printJSON(os.Stdout, map[string]interface{}{
						"valid": false,
						"error": err.Error(),
					}); perr != nil {
						return perr
					}
					os.Exit(1)
				}
				fmt.Fprintf(os.Stderr, "Model is invalid: %v\n", err)
				os.Exit(1)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{
					"valid":         true,
					"tables":        len(model.Tables),
					"relationships": len(model.Relationships),
					"measures":      len(model.Measures),
					"dimensions":    len(model.Dimensions),
				})
			}
			fmt.Fprintf(os.Stdout, "Model is valid: %d table(s), %d relationship(s), %d measure(s), %d dimension(s).\n",
				len(model.Tables), len(model.Relationships), len(model.Measures), len(model.Dimensions))
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "semql.yaml", "Path to the semantic model YAML file")

	return cmd
}
