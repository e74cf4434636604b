package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"idfctl/internal/resolver"
)

var (
	resolveDefault  string
	resolveRequired bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <key>",
	Short: "Resolve a configuration key through the override chain",
	Long: `Resolves a dotted configuration key through the full override chain:
environment overrides first, then the configuration document, then the
provided default.

The environment override for a key is its upper-cased, underscored form in
the ` + resolver.EnvNamespace + ` namespace, e.g. the key
build_config.default_build_type is overridden by
` + resolver.EnvName("build_config.default_build_type") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	res, err := loadConfiguration()
	if err != nil {
		return err
	}

	value, err := newResolver(res).Resolve(args[0], resolveDefault, resolveRequired)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveDefault, "default", "", "Value to use when the key resolves nowhere")
	resolveCmd.Flags().BoolVar(&resolveRequired, "required", false, "Fail when the key resolves nowhere and no default is set")
}
