package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"idfctl/internal/config"
	"idfctl/internal/resolver"
	"idfctl/pkg/logging"
)

var (
	projectPath  string
	outputFormat string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "idfctl",
	Short: "Resolve and validate ESP-IDF build configurations",
	Long: `idfctl resolves the layered build configuration of a multi-app ESP-IDF
project (CLI flags > environment overrides > app_config.yml > defaults),
validates (app, build type, IDF version) combinations before any expensive
build starts, and expands the legal configuration space into a CI matrix.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed validations)
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if verbose {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
	},
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "idfctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project-path", "p", "", "Path to the project directory containing "+config.ConfigFileName)
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}

// loadConfiguration locates and loads the configuration source honoring the
// --project-path flag.
func loadConfiguration() (*config.Result, error) {
	path, err := config.Locate(projectPath)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// newResolver builds the key resolver over the loaded document views with
// the process environment snapshot.
func newResolver(res *config.Result) *resolver.Resolver {
	return resolver.New(
		resolver.OverridesFromEnviron(os.Environ()),
		res.StructuredView(),
		res.FallbackView(),
	)
}

// printOutput renders v according to --format. textFn produces the
// human-readable rendition.
func printOutput(cmd *cobra.Command, v any, textFn func() string) error {
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	case "text", "":
		fmt.Fprintln(cmd.OutOrStdout(), textFn())
	default:
		return fmt.Errorf("unknown output format %q (expected text, json or yaml)", outputFormat)
	}
	return nil
}
