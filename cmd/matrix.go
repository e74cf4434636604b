package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"idfctl/internal/combination"
	"idfctl/internal/config"
	"idfctl/internal/matrix"
)

var (
	matrixFilter   string
	matrixOutput   string
	matrixValidate bool
	matrixFull     bool
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Generate a CI build matrix",
	Long: `Generates the CI build matrix in the GitHub Actions include format:

  {"include": [{"app_name": ..., "build_type": ..., "idf_version": ...,
                "idf_version_docker": ..., "idf_version_file": ...,
                "target": ..., "idf_image": ..., "config_source": ...}, ...]}

By default only CI-enabled apps are included and the configured exclusions
are applied. Use --full to expand every legal combination instead.`,
	Args: cobra.NoArgs,
	RunE: runMatrix,
}

func runMatrix(cmd *cobra.Command, args []string) error {
	res, err := loadConfiguration()
	if err != nil {
		return err
	}

	rows := matrix.Generate(res.Model, matrix.Options{
		CIOnly:        !matrixFull,
		App:           matrixFilter,
		ApplyExcludes: !matrixFull,
	})

	if matrixValidate {
		if err := validateRows(cmd, res, rows); err != nil {
			return err
		}
	}

	gh := matrix.GitHubMatrix{Include: rows}
	data, err := json.Marshal(gh)
	if err != nil {
		return err
	}

	if matrixOutput != "" {
		if err := os.WriteFile(matrixOutput, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing matrix file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d matrix entries to %s\n", len(rows), matrixOutput)
		return nil
	}

	switch outputFormat {
	case "text", "json", "":
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	default:
		return printOutput(cmd, gh, func() string {
			var b strings.Builder
			for _, row := range rows {
				fmt.Fprintf(&b, "%s %s %s\n", row.AppName, row.BuildType, row.IDFVersion)
			}
			return strings.TrimRight(b.String(), "\n")
		})
	}
	return nil
}

// validateRows re-checks every emitted row against the validation rules and
// reports per-row outcomes on stderr, keeping stdout machine-parseable. A
// failing row means Generate and the validator disagree, so the matrix must
// not be consumed.
func validateRows(cmd *cobra.Command, res *config.Result, rows []matrix.Row) error {
	validator := combination.NewValidator(res.Model)
	invalid := 0
	for _, row := range rows {
		result := validator.Explain(row.AppName, row.BuildType, row.IDFVersion)
		if result.Outcome == combination.Valid {
			fmt.Fprintf(cmd.ErrOrStderr(), "OK      %s %s %s\n", row.AppName, row.BuildType, row.IDFVersion)
			continue
		}
		invalid++
		fmt.Fprintf(cmd.ErrOrStderr(), "INVALID %s %s %s: %s\n", row.AppName, row.BuildType, row.IDFVersion, result.Reason())
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Validated %d matrix rows, %d invalid\n", len(rows), invalid)
	if invalid > 0 {
		return fmt.Errorf("matrix validation failed: %d of %d rows invalid", invalid, len(rows))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(matrixCmd)

	matrixCmd.Flags().StringVar(&matrixFilter, "filter", "", "Restrict the matrix to a single application")
	matrixCmd.Flags().StringVarP(&matrixOutput, "output", "o", "", "Write the matrix JSON to a file instead of stdout")
	matrixCmd.Flags().BoolVar(&matrixValidate, "validate", false, "Re-check every row against the validation rules and report per-row outcomes on stderr")
	matrixCmd.Flags().BoolVar(&matrixFull, "full", false, "Include non-CI apps and skip configured exclusions")
}
