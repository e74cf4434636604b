package config

// Model is the fully loaded application configuration. It is constructed
// once per invocation by Load and treated as read-only afterwards; a reload
// replaces the whole value.
type Model struct {
	Metadata Metadata

	// Apps holds the per-application definitions keyed by app name.
	// AppOrder preserves the declaration order of the configuration file,
	// which drives deterministic matrix output.
	Apps     map[string]AppDefinition
	AppOrder []string

	// BuildTypes is the global build-type table (Debug, Release, ...).
	BuildTypes     map[string]BuildTypeDefinition
	BuildTypeOrder []string

	CI CIConfig
}

// Metadata holds the global defaults that apps inherit when they do not
// declare their own overrides.
type Metadata struct {
	DefaultApp       string
	DefaultBuildType string
	Target           string

	// IDFVersions is the ordered list of globally supported ESP-IDF versions.
	IDFVersions []string

	// VersionBuildTypes maps an IDF version to the build types allowed under
	// it. The configuration file declares this as a positional array of
	// arrays parallel to idf_versions; the loader converts it to a map keyed
	// by version value so nothing downstream depends on list positions.
	VersionBuildTypes map[string][]string
}

// AppDefinition describes one buildable application.
type AppDefinition struct {
	Name        string
	Description string
	SourceFile  string
	Category    string

	// IDFVersions overrides Metadata.IDFVersions when non-nil.
	IDFVersions []string

	// BuildTypes is a flat, version-independent override when non-nil.
	BuildTypes []string

	// VersionBuildTypes is set instead of BuildTypes when the app declares
	// nested per-version build-type arrays. Keys are the app's own effective
	// IDF versions.
	VersionBuildTypes map[string][]string

	CIEnabled    bool
	Featured     bool
	Dependencies []string
	Tags         []string
}

// OverridesVersions reports whether the app declares its own IDF version list.
func (a AppDefinition) OverridesVersions() bool {
	return a.IDFVersions != nil
}

// OverridesBuildTypes reports whether the app declares its own build types,
// flat or per-version.
func (a AppDefinition) OverridesBuildTypes() bool {
	return a.BuildTypes != nil || a.VersionBuildTypes != nil
}

// BuildTypeDefinition expands a build-type name into concrete toolchain
// parameters. It is consumed by the external build driver; this engine only
// carries it through.
type BuildTypeDefinition struct {
	Name           string
	CMakeBuildType string
	Optimization   string
	DebugLevel     string
	Defines        []string
	Assertions     bool
	LogLevel       string
}

// CIConfig carries CI-specific tuning from the optional ci_config section.
type CIConfig struct {
	// ExcludeCombinations lists partial matrix rows to drop. A matrix entry
	// is excluded when every key of an exclusion matches the entry.
	ExcludeCombinations []map[string]string
}
