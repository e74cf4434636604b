package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"idfctl/internal/matrix"
	"idfctl/internal/tui"
)

var (
	combinationsCI          bool
	combinationsApp         string
	combinationsInteractive bool
	combinationsOutput      string
)

var combinationsCmd = &cobra.Command{
	Use:   "combinations",
	Short: "Enumerate the legal build combinations",
	Long: `Enumerates every legal (app, build type, IDF version) combination of the
project in declaration order.

With --ci the set is restricted to CI-enabled apps and the configured
exclusions are applied, so the output matches what CI would actually build.
With --interactive the combinations open in a browsable table with
filtering and clipboard copy.`,
	Args: cobra.NoArgs,
	RunE: runCombinations,
}

func runCombinations(cmd *cobra.Command, args []string) error {
	res, err := loadConfiguration()
	if err != nil {
		return err
	}

	rows := matrix.Generate(res.Model, matrix.Options{
		CIOnly:        combinationsCI,
		App:           combinationsApp,
		ApplyExcludes: combinationsCI,
	})

	if combinationsInteractive {
		return tui.Run(rows)
	}

	render := func() string {
		if len(rows) == 0 {
			return "No legal combinations."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%-20s %-12s %-16s %s\n", "APP", "BUILD TYPE", "IDF VERSION", "SOURCE")
		for _, row := range rows {
			fmt.Fprintf(&b, "%-20s %-12s %-16s %s\n", row.AppName, row.BuildType, row.IDFVersion, row.ConfigSource)
		}
		return strings.TrimRight(b.String(), "\n")
	}

	if combinationsOutput != "" {
		return writeRendered(cmd, combinationsOutput, rows, render)
	}
	return printOutput(cmd, rows, render)
}

// writeRendered renders v per --format into a file instead of stdout.
func writeRendered(cmd *cobra.Command, path string, v any, textFn func() string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	prev := cmd.OutOrStdout()
	cmd.SetOut(out)
	defer cmd.SetOut(prev)
	return printOutput(cmd, v, textFn)
}

func init() {
	rootCmd.AddCommand(combinationsCmd)

	combinationsCmd.Flags().BoolVar(&combinationsCI, "ci", false, "Restrict to CI-enabled apps and apply configured exclusions")
	combinationsCmd.Flags().StringVar(&combinationsApp, "app", "", "Restrict to a single application")
	combinationsCmd.Flags().BoolVarP(&combinationsInteractive, "interactive", "i", false, "Browse combinations in an interactive table")
	combinationsCmd.Flags().StringVarP(&combinationsOutput, "output", "o", "", "Write output to a file instead of stdout")
}
