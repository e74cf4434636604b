package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"idfctl/internal/combination"
	"idfctl/internal/matrix"
)

// validateQuiet suppresses the legal-combination listing on failure.
var validateQuiet bool

var validateCmd = &cobra.Command{
	Use:   "validate <app> <build-type> [idf-version]",
	Short: "Validate an (app, build type, IDF version) combination",
	Long: `Validates that the given application can be built with the given build
type and IDF version before any expensive build step starts.

When the IDF version is omitted, the most appropriate compatible version is
selected automatically and reported. On an invalid combination the command
prints why it is invalid, lists the legal combinations for the application
and exits non-zero.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runValidate,
}

// validationReport is the serializable outcome of one validation.
type validationReport struct {
	App         string       `json:"app_name" yaml:"app_name"`
	BuildType   string       `json:"build_type" yaml:"build_type"`
	IDFVersion  string       `json:"idf_version" yaml:"idf_version"`
	Valid       bool         `json:"valid" yaml:"valid"`
	Reason      string       `json:"reason,omitempty" yaml:"reason,omitempty"`
	AutoVersion bool         `json:"idf_version_selected" yaml:"idf_version_selected"`
	Legal       []matrix.Row `json:"legal_combinations,omitempty" yaml:"legal_combinations,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	res, err := loadConfiguration()
	if err != nil {
		return err
	}
	validator := combination.NewValidator(res.Model)

	key := combination.Key{AppName: args[0], BuildType: args[1]}
	autoVersion := len(args) < 3
	if autoVersion {
		// The selector assumes the app and build type exist; an unknown name
		// must still surface its rule through Explain below.
		if !validator.KnownApp(key.AppName) || !validator.KnownBuildType(key.BuildType) {
			key.IDFVersion = "-"
		} else {
			version, err := validator.SelectDefaultVersion(key.AppName, key.BuildType)
			if err != nil {
				return err
			}
			key.IDFVersion = version
		}
	} else {
		key.IDFVersion = args[2]
	}

	result := validator.Explain(key.AppName, key.BuildType, key.IDFVersion)
	report := validationReport{
		App:         key.AppName,
		BuildType:   key.BuildType,
		IDFVersion:  key.IDFVersion,
		Valid:       result.Outcome == combination.Valid,
		AutoVersion: autoVersion,
	}
	if !report.Valid {
		report.Reason = result.Reason()
		if !validateQuiet {
			report.Legal = matrix.Generate(res.Model, matrix.Options{App: key.AppName})
		}
	}

	printErr := printOutput(cmd, report, func() string {
		if report.Valid {
			if autoVersion {
				return fmt.Sprintf("OK: %s (idf_version selected automatically)", key)
			}
			return fmt.Sprintf("OK: %s", key)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "INVALID: %s\n", key)
		fmt.Fprintf(&b, "Reason: %s\n", report.Reason)
		if len(report.Legal) > 0 {
			fmt.Fprintf(&b, "Legal combinations for %s:\n", key.AppName)
			for _, row := range report.Legal {
				fmt.Fprintf(&b, "  %s %s %s\n", row.AppName, row.BuildType, row.IDFVersion)
			}
		}
		return strings.TrimRight(b.String(), "\n")
	})
	if printErr != nil {
		return printErr
	}

	if !report.Valid {
		// The diagnostic is already printed, so keep the error terse.
		cmd.SilenceErrors = true
		return fmt.Errorf("invalid combination: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "Do not list legal combinations on failure")
}
