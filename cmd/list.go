package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"idfctl/internal/combination"
)

// listFeatured restricts the listing to featured applications.
var listFeatured bool

// listCI restricts the listing to CI-enabled applications.
var listCI bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the applications defined in the configuration",
	Long: `Lists every application defined in the configuration source, in
declaration order, together with its category and effective IDF versions.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// appListing is the serializable shape of one listed application.
type appListing struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Featured    bool     `json:"featured" yaml:"featured"`
	CIEnabled   bool     `json:"ci_enabled" yaml:"ci_enabled"`
	IDFVersions []string `json:"idf_versions" yaml:"idf_versions"`
	BuildTypes  []string `json:"build_types" yaml:"build_types"`
}

func runList(cmd *cobra.Command, args []string) error {
	res, err := loadConfiguration()
	if err != nil {
		return err
	}
	validator := combination.NewValidator(res.Model)

	var listings []appListing
	for _, name := range res.Model.AppOrder {
		app := res.Model.Apps[name]
		if listFeatured && !app.Featured {
			continue
		}
		if listCI && !app.CIEnabled {
			continue
		}
		versions := validator.EffectiveVersions(app)
		listings = append(listings, appListing{
			Name:        app.Name,
			Description: app.Description,
			Category:    app.Category,
			Featured:    app.Featured,
			CIEnabled:   app.CIEnabled,
			IDFVersions: versions,
			BuildTypes:  validator.EffectiveBuildTypes(app, pickVersion(versions)),
		})
	}

	return printOutput(cmd, listings, func() string {
		if len(listings) == 0 {
			return "No applications found."
		}
		var b strings.Builder
		for _, l := range listings {
			fmt.Fprintf(&b, "%-20s %-12s %s\n", l.Name, l.Category, strings.Join(l.IDFVersions, ", "))
		}
		return strings.TrimRight(b.String(), "\n")
	})
}

func pickVersion(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	return versions[0]
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listFeatured, "featured", false, "Show only featured applications")
	listCmd.Flags().BoolVar(&listCI, "ci", false, "Show only CI-enabled applications")
}
