package config

import (
	"fmt"
	"strconv"
)

// Defaults applied when the metadata section leaves fields out. These mirror
// what the CI pipeline assumed before the configuration grew the fields.
const (
	DefaultTarget = "esp32c6"
)

var (
	defaultIDFVersions = []string{"release/v5.5"}
	defaultBuildTypes  = []string{"Debug", "Release"}
)

// buildModel maps the generic document tree into the typed Model. Both
// parser strategies funnel through here, so a given tree always produces the
// same Model regardless of which strategy parsed the bytes.
func buildModel(root *node) (*Model, error) {
	m := &Model{
		Apps:       make(map[string]AppDefinition),
		BuildTypes: make(map[string]BuildTypeDefinition),
	}

	meta := root.child("metadata")
	if meta == nil {
		return nil, &MissingRequiredFieldError{Path: "metadata.default_app"}
	}
	if err := buildMetadata(meta, &m.Metadata); err != nil {
		return nil, err
	}

	apps := root.child("apps")
	if apps == nil || apps.kind != mappingNode || len(apps.keys) == 0 {
		return nil, &MissingRequiredFieldError{Path: "apps"}
	}
	for _, name := range apps.keys {
		app, err := buildApp(name, apps.children[name], m.Metadata)
		if err != nil {
			return nil, err
		}
		m.Apps[name] = app
		m.AppOrder = append(m.AppOrder, name)
	}

	if defs := root.child("build_types"); defs != nil && defs.kind == mappingNode {
		for _, name := range defs.keys {
			m.BuildTypes[name] = buildTypeDefinition(name, defs.children[name])
			m.BuildTypeOrder = append(m.BuildTypeOrder, name)
		}
	} else {
		// No explicit table: every build type referenced by the metadata
		// version map is considered known.
		seen := map[string]bool{}
		for _, v := range m.Metadata.IDFVersions {
			for _, bt := range m.Metadata.VersionBuildTypes[v] {
				if !seen[bt] {
					seen[bt] = true
					m.BuildTypes[bt] = BuildTypeDefinition{Name: bt, CMakeBuildType: bt}
					m.BuildTypeOrder = append(m.BuildTypeOrder, bt)
				}
			}
		}
	}

	if ci := root.child("ci_config"); ci != nil {
		m.CI = buildCIConfig(ci)
	}

	return m, nil
}

func buildMetadata(meta *node, out *Metadata) error {
	defaultApp, ok := meta.child("default_app").scalar()
	if !ok || defaultApp == "" {
		return &MissingRequiredFieldError{Path: "metadata.default_app"}
	}
	out.DefaultApp = defaultApp
	out.DefaultBuildType, _ = meta.child("default_build_type").scalar()
	if out.DefaultBuildType == "" {
		out.DefaultBuildType = defaultBuildTypes[0]
	}
	out.Target, _ = meta.child("target").scalar()
	if out.Target == "" {
		out.Target = DefaultTarget
	}

	if versions, ok := meta.child("idf_versions").stringSlice(); ok && len(versions) > 0 {
		out.IDFVersions = versions
	} else {
		out.IDFVersions = append([]string(nil), defaultIDFVersions...)
	}

	// The file declares per-version build types positionally; convert to a
	// map keyed by version so nothing downstream relies on list positions.
	arrays, _ := meta.child("build_types").nestedStringSlices()
	out.VersionBuildTypes = make(map[string][]string, len(out.IDFVersions))
	for i, version := range out.IDFVersions {
		if i < len(arrays) {
			out.VersionBuildTypes[version] = arrays[i]
		} else {
			out.VersionBuildTypes[version] = append([]string(nil), defaultBuildTypes...)
		}
	}
	return nil
}

func buildApp(name string, n *node, meta Metadata) (AppDefinition, error) {
	app := AppDefinition{Name: name, CIEnabled: true}
	if n == nil || n.kind != mappingNode {
		return app, fmt.Errorf("app %q: expected a mapping", name)
	}

	app.Description, _ = n.child("description").scalar()
	app.SourceFile, _ = n.child("source_file").scalar()
	app.Category, _ = n.child("category").scalar()
	if versions, ok := n.child("idf_versions").stringSlice(); ok {
		app.IDFVersions = versions
	}
	if deps, ok := n.child("dependencies").stringSlice(); ok {
		app.Dependencies = deps
	}
	if tags, ok := n.child("tags").stringSlice(); ok {
		app.Tags = tags
	}
	if v, ok := n.child("ci_enabled").scalar(); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return app, fmt.Errorf("app %q: ci_enabled: %v", name, err)
		}
		app.CIEnabled = enabled
	}
	if v, ok := n.child("featured").scalar(); ok {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return app, fmt.Errorf("app %q: featured: %v", name, err)
		}
		app.Featured = featured
	}

	// build_types comes in two shapes: a flat list valid under every version,
	// or a nested list parallel to the app's effective version list.
	if bt := n.child("build_types"); bt != nil {
		if flat, ok := bt.stringSlice(); ok {
			app.BuildTypes = flat
		} else if nested, ok := bt.nestedStringSlices(); ok {
			versions := app.IDFVersions
			if versions == nil {
				versions = meta.IDFVersions
			}
			app.VersionBuildTypes = make(map[string][]string, len(versions))
			for i, version := range versions {
				if i < len(nested) {
					app.VersionBuildTypes[version] = nested[i]
				} else if global, ok := meta.VersionBuildTypes[version]; ok {
					// Shorter nested list than versions: inherit the global
					// set for that version rather than guessing by position.
					app.VersionBuildTypes[version] = global
				} else {
					app.VersionBuildTypes[version] = append([]string(nil), defaultBuildTypes...)
				}
			}
		} else {
			return app, fmt.Errorf("app %q: build_types must be a list or a list of lists", name)
		}
	}

	return app, nil
}

func buildTypeDefinition(name string, n *node) BuildTypeDefinition {
	def := BuildTypeDefinition{Name: name, CMakeBuildType: name}
	if n == nil || n.kind != mappingNode {
		return def
	}
	if v, ok := n.child("cmake_build_type").scalar(); ok {
		def.CMakeBuildType = v
	}
	def.Optimization, _ = n.child("optimization").scalar()
	def.DebugLevel, _ = n.child("debug_level").scalar()
	def.LogLevel, _ = n.child("log_level").scalar()
	if defines, ok := n.child("defines").stringSlice(); ok {
		def.Defines = defines
	}
	if v, ok := n.child("assertions").scalar(); ok {
		def.Assertions, _ = strconv.ParseBool(v)
	}
	return def
}

func buildCIConfig(n *node) CIConfig {
	var ci CIConfig
	excludes := n.child("exclude_combinations")
	if excludes == nil || excludes.kind != sequenceNode {
		return ci
	}
	for _, item := range excludes.items {
		if item.kind != mappingNode {
			continue
		}
		entry := make(map[string]string, len(item.keys))
		for _, key := range item.keys {
			if v, ok := item.children[key].scalar(); ok {
				entry[key] = v
			}
		}
		if len(entry) > 0 {
			ci.ExcludeCombinations = append(ci.ExcludeCombinations, entry)
		}
	}
	return ci
}
