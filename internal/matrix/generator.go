package matrix

import (
	"strings"

	"idfctl/internal/combination"
	"idfctl/internal/config"
)

// Row is one legal build combination plus the derived parameters a CI job
// needs. Field names follow the matrix contract consumed by the workflows.
type Row struct {
	AppName    string `json:"app_name" yaml:"app_name"`
	BuildType  string `json:"build_type" yaml:"build_type"`
	IDFVersion string `json:"idf_version" yaml:"idf_version"`

	// IDFVersionDocker is the version with '/' replaced by '-', safe for
	// artifact names; IDFVersionFile additionally replaces '.' with '_' for
	// build directory names.
	IDFVersionDocker string `json:"idf_version_docker" yaml:"idf_version_docker"`
	IDFVersionFile   string `json:"idf_version_file" yaml:"idf_version_file"`

	Target string `json:"target" yaml:"target"`

	// ImageTag is the espressif/idf toolchain image for the version.
	ImageTag string `json:"idf_image" yaml:"idf_image"`

	// ConfigSource records whether the combination came from per-app
	// overrides or from the global defaults.
	ConfigSource string `json:"config_source" yaml:"config_source"`
}

// field returns the row attribute for an exclusion key.
func (r Row) field(key string) (string, bool) {
	switch key {
	case "app_name":
		return r.AppName, true
	case "build_type":
		return r.BuildType, true
	case "idf_version":
		return r.IDFVersion, true
	case "target":
		return r.Target, true
	default:
		return "", false
	}
}

// GitHubMatrix is the `{"include": [...]}` wrapper GitHub Actions expects.
type GitHubMatrix struct {
	Include []Row `json:"include" yaml:"include"`
}

// Options selects which slice of the combination space to enumerate.
type Options struct {
	// CIOnly drops apps with ci_enabled: false.
	CIOnly bool

	// App restricts output to a single app when non-empty.
	App string

	// ApplyExcludes honors ci_config.exclude_combinations.
	ApplyExcludes bool
}

// Generate expands the model into every combination the validator accepts,
// in deterministic order: apps as declared, then IDF versions as declared,
// then build types as declared. An empty model yields an empty slice.
func Generate(model *config.Model, opts Options) []Row {
	validator := combination.NewValidator(model)
	rows := []Row{}

	for _, appName := range model.AppOrder {
		app := model.Apps[appName]
		if opts.App != "" && opts.App != appName {
			continue
		}
		if opts.CIOnly && !app.CIEnabled {
			continue
		}

		source := "global"
		if app.OverridesVersions() || app.OverridesBuildTypes() {
			source = "app"
		}

		for _, version := range validator.EffectiveVersions(app) {
			for _, buildType := range validator.EffectiveBuildTypes(app, version) {
				if !validator.IsValid(appName, buildType, version) {
					continue
				}
				row := Row{
					AppName:          appName,
					BuildType:        buildType,
					IDFVersion:       version,
					IDFVersionDocker: dockerSafe(version),
					IDFVersionFile:   fileSafe(version),
					Target:           model.Metadata.Target,
					ImageTag:         "espressif/idf:" + dockerSafe(version),
					ConfigSource:     source,
				}
				if opts.ApplyExcludes && excluded(row, model.CI.ExcludeCombinations) {
					continue
				}
				rows = append(rows, row)
			}
		}
	}

	return rows
}

func excluded(row Row, excludes []map[string]string) bool {
	for _, exc := range excludes {
		match := len(exc) > 0
		for key, want := range exc {
			got, known := row.field(key)
			if !known || got != want {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func dockerSafe(version string) string {
	return strings.ReplaceAll(version, "/", "-")
}

func fileSafe(version string) string {
	return strings.NewReplacer("/", "_", ".", "_").Replace(version)
}
