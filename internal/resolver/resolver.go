package resolver

import (
	"fmt"
	"strings"
)

// EnvNamespace prefixes every environment-variable override. The full name
// for a dotted key is EnvNamespace + "_" + upper-cased key with dots turned
// into underscores, e.g. metadata.default_build_type ->
// IDFCTL_METADATA_DEFAULT_BUILD_TYPE. CI pipelines depend on this naming.
const EnvNamespace = "IDFCTL"

// EnvName derives the override variable name for a dotted configuration key.
func EnvName(key string) string {
	return EnvNamespace + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Overrides is the environment-variable override set, keyed by variable
// name. It is parsed once at process start so that Resolve stays a pure
// function of its inputs.
type Overrides map[string]string

// OverridesFromEnviron extracts the namespaced override variables from an
// os.Environ()-style list.
func OverridesFromEnviron(environ []string) Overrides {
	ov := make(Overrides)
	prefix := EnvNamespace + "_"
	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		ov[name] = value
	}
	return ov
}

// View is a read-only key-value projection of the configuration document.
// The loader provides one per parser strategy.
type View interface {
	Lookup(key string) (string, bool)
}

// RequiredKeyError reports a required key that no source in the chain could
// produce.
type RequiredKeyError struct {
	Key string
}

func (e *RequiredKeyError) Error() string {
	return fmt.Sprintf("required configuration key %q could not be resolved (set %s or add it to the configuration file)", e.Key, EnvName(e.Key))
}

// Resolver resolves dotted configuration keys through the fixed priority
// chain: environment override, structured-parser view, fallback-parser view,
// caller default. Explicit caller-supplied values (CLI flags) short-circuit
// before Resolve is ever called.
type Resolver struct {
	overrides Overrides
	views     []View
}

// New builds a resolver over the given override set and document views in
// priority order. Nil views are skipped, which covers the case where one
// parser strategy failed.
func New(overrides Overrides, views ...View) *Resolver {
	r := &Resolver{overrides: overrides}
	if r.overrides == nil {
		r.overrides = Overrides{}
	}
	for _, v := range views {
		if v != nil {
			r.views = append(r.views, v)
		}
	}
	return r
}

// Resolve returns the value for key, walking the priority chain. A def of ""
// means no default. When nothing produces a value, required selects between
// a RequiredKeyError and an empty result.
func (r *Resolver) Resolve(key, def string, required bool) (string, error) {
	if v, ok := r.overrides[EnvName(key)]; ok {
		return v, nil
	}
	for _, view := range r.views {
		if v, ok := view.Lookup(key); ok {
			return v, nil
		}
	}
	if def != "" {
		return def, nil
	}
	if required {
		return "", &RequiredKeyError{Key: key}
	}
	return "", nil
}
