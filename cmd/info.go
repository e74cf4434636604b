package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"idfctl/internal/combination"
	"idfctl/internal/config"
)

var infoCmd = &cobra.Command{
	Use:   "info <app> [field]",
	Short: "Show the resolved configuration of one application",
	Long: `Shows the fully resolved configuration of a single application: its
metadata and the effective IDF versions and build types after applying
app-level overrides on top of the global defaults.

When a field name is given, only that field's value is printed, which is
convenient for shell scripting:

  idfctl info gpio_test source_file`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

// appInfo is the serializable shape of a resolved application.
type appInfo struct {
	Name              string              `json:"name" yaml:"name"`
	Description       string              `json:"description,omitempty" yaml:"description,omitempty"`
	SourceFile        string              `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	Category          string              `json:"category,omitempty" yaml:"category,omitempty"`
	Target            string              `json:"target" yaml:"target"`
	Featured          bool                `json:"featured" yaml:"featured"`
	CIEnabled         bool                `json:"ci_enabled" yaml:"ci_enabled"`
	IDFVersions       []string            `json:"idf_versions" yaml:"idf_versions"`
	BuildTypes        map[string][]string `json:"build_types" yaml:"build_types"`
	Dependencies      []string            `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Tags              []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	OverridesVersions bool                `json:"overrides_idf_versions" yaml:"overrides_idf_versions"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	res, err := loadConfiguration()
	if err != nil {
		return err
	}

	name := args[0]
	app, ok := res.Model.Apps[name]
	if !ok {
		return fmt.Errorf("unknown app %q: %w", name, config.ErrNotFound)
	}

	validator := combination.NewValidator(res.Model)
	versions := validator.EffectiveVersions(app)
	buildTypes := make(map[string][]string, len(versions))
	for _, v := range versions {
		buildTypes[v] = validator.EffectiveBuildTypes(app, v)
	}

	info := appInfo{
		Name:              app.Name,
		Description:       app.Description,
		SourceFile:        app.SourceFile,
		Category:          app.Category,
		Target:            res.Model.Metadata.Target,
		Featured:          app.Featured,
		CIEnabled:         app.CIEnabled,
		IDFVersions:       versions,
		BuildTypes:        buildTypes,
		Dependencies:      app.Dependencies,
		Tags:              app.Tags,
		OverridesVersions: app.OverridesVersions(),
	}

	if len(args) == 2 {
		value, err := infoField(info, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}

	return printOutput(cmd, info, func() string {
		var b strings.Builder
		fmt.Fprintf(&b, "Name:         %s\n", info.Name)
		if info.Description != "" {
			fmt.Fprintf(&b, "Description:  %s\n", info.Description)
		}
		if info.SourceFile != "" {
			fmt.Fprintf(&b, "Source file:  %s\n", info.SourceFile)
		}
		if info.Category != "" {
			fmt.Fprintf(&b, "Category:     %s\n", info.Category)
		}
		fmt.Fprintf(&b, "Target:       %s\n", info.Target)
		fmt.Fprintf(&b, "CI enabled:   %t\n", info.CIEnabled)
		fmt.Fprintf(&b, "Featured:     %t\n", info.Featured)
		fmt.Fprintf(&b, "IDF versions: %s\n", strings.Join(info.IDFVersions, ", "))
		keys := make([]string, 0, len(info.BuildTypes))
		for k := range info.BuildTypes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, v := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", v, strings.Join(info.BuildTypes[v], ", "))
		}
		if len(info.Dependencies) > 0 {
			fmt.Fprintf(&b, "Dependencies: %s\n", strings.Join(info.Dependencies, ", "))
		}
		if len(info.Tags) > 0 {
			fmt.Fprintf(&b, "Tags:         %s\n", strings.Join(info.Tags, ", "))
		}
		return strings.TrimRight(b.String(), "\n")
	})
}

// infoField extracts one named field for scripting use.
func infoField(info appInfo, field string) (string, error) {
	switch field {
	case "name":
		return info.Name, nil
	case "description":
		return info.Description, nil
	case "source_file":
		return info.SourceFile, nil
	case "category":
		return info.Category, nil
	case "target":
		return info.Target, nil
	case "featured":
		return strconv.FormatBool(info.Featured), nil
	case "ci_enabled":
		return strconv.FormatBool(info.CIEnabled), nil
	case "idf_versions":
		return strings.Join(info.IDFVersions, " "), nil
	case "build_types":
		lines := make([]string, 0, len(info.IDFVersions))
		for _, v := range info.IDFVersions {
			lines = append(lines, fmt.Sprintf("%s: %s", v, strings.Join(info.BuildTypes[v], " ")))
		}
		return strings.Join(lines, "\n"), nil
	case "dependencies":
		return strings.Join(info.Dependencies, " "), nil
	case "tags":
		return strings.Join(info.Tags, " "), nil
	default:
		return "", fmt.Errorf("unknown field %q", field)
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
