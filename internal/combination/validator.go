package combination

import (
	"fmt"
	"strings"

	"idfctl/internal/config"
)

// Outcome is the single reason a combination is accepted or rejected. The
// validation rules run in order and short-circuit, so exactly one outcome
// applies to any triple.
type Outcome int

const (
	Valid Outcome = iota
	UnknownApp
	UnknownBuildType
	UnsupportedToolchainForApp
	BuildTypeNotSupportedForVersion
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "Valid"
	case UnknownApp:
		return "UnknownApp"
	case UnknownBuildType:
		return "UnknownBuildType"
	case UnsupportedToolchainForApp:
		return "UnsupportedToolchainForApp"
	case BuildTypeNotSupportedForVersion:
		return "BuildTypeNotSupportedForVersion"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Key identifies one (app, build type, IDF version) combination. Two keys
// are equal iff all three fields match exactly.
type Key struct {
	AppName    string
	BuildType  string
	IDFVersion string
}

func (k Key) String() string {
	return k.AppName + " " + k.BuildType + " " + k.IDFVersion
}

// Result is the detailed validation verdict for one combination.
type Result struct {
	Outcome Outcome
	Key     Key

	// Allowed lists the values that would have satisfied the failing rule:
	// known apps for UnknownApp, known build types for UnknownBuildType,
	// the app's effective versions for UnsupportedToolchainForApp, and the
	// effective build types under the requested version for
	// BuildTypeNotSupportedForVersion. Empty for Valid.
	Allowed []string
}

// Reason renders a human-readable explanation for error reporting.
func (r Result) Reason() string {
	switch r.Outcome {
	case Valid:
		return "Valid"
	case UnknownApp:
		return fmt.Sprintf("unknown app %q (known apps: %s)", r.Key.AppName, strings.Join(r.Allowed, ", "))
	case UnknownBuildType:
		return fmt.Sprintf("unknown build type %q (known build types: %s)", r.Key.BuildType, strings.Join(r.Allowed, ", "))
	case UnsupportedToolchainForApp:
		return fmt.Sprintf("app %q does not support IDF version %q (supported: %s)", r.Key.AppName, r.Key.IDFVersion, strings.Join(r.Allowed, ", "))
	case BuildTypeNotSupportedForVersion:
		return fmt.Sprintf("app %q does not allow build type %q under IDF version %q (allowed: %s)", r.Key.AppName, r.Key.BuildType, r.Key.IDFVersion, strings.Join(r.Allowed, ", "))
	default:
		return r.Outcome.String()
	}
}

// Validator answers whether an (app, build type, IDF version) triple is a
// legal build combination under the loaded model.
type Validator struct {
	model *config.Model
}

func NewValidator(model *config.Model) *Validator {
	return &Validator{model: model}
}

// KnownApp reports whether appName exists in the model.
func (v *Validator) KnownApp(appName string) bool {
	_, ok := v.model.Apps[appName]
	return ok
}

// KnownBuildType reports whether buildType is in the global build-type table.
func (v *Validator) KnownBuildType(buildType string) bool {
	_, ok := v.model.BuildTypes[buildType]
	return ok
}

// EffectiveVersions returns the app's IDF version list, falling back to the
// global metadata list when the app does not override it. Order is the
// declared order.
func (v *Validator) EffectiveVersions(app config.AppDefinition) []string {
	if app.OverridesVersions() {
		return app.IDFVersions
	}
	return v.model.Metadata.IDFVersions
}

// EffectiveBuildTypes returns the build types allowed for the app under one
// specific IDF version: the app's flat override when present, the app's
// per-version override when present, otherwise the global per-version set
// matched by version value. A version absent from the global map allows
// every globally defined build type.
func (v *Validator) EffectiveBuildTypes(app config.AppDefinition, version string) []string {
	if app.BuildTypes != nil {
		return app.BuildTypes
	}
	if app.VersionBuildTypes != nil {
		return app.VersionBuildTypes[version]
	}
	if types, ok := v.model.Metadata.VersionBuildTypes[version]; ok {
		return types
	}
	return v.model.BuildTypeOrder
}

// Explain runs the ordered validation rules and returns the first failure,
// or Valid. Cheap existence checks run before combination checks so a
// malformed request yields its most specific error.
func (v *Validator) Explain(appName, buildType, idfVersion string) Result {
	key := Key{AppName: appName, BuildType: buildType, IDFVersion: idfVersion}

	app, ok := v.model.Apps[appName]
	if !ok {
		return Result{Outcome: UnknownApp, Key: key, Allowed: v.model.AppOrder}
	}
	if !v.KnownBuildType(buildType) {
		return Result{Outcome: UnknownBuildType, Key: key, Allowed: v.model.BuildTypeOrder}
	}

	versions := v.EffectiveVersions(app)
	if !contains(versions, idfVersion) {
		return Result{Outcome: UnsupportedToolchainForApp, Key: key, Allowed: versions}
	}

	buildTypes := v.EffectiveBuildTypes(app, idfVersion)
	if !contains(buildTypes, buildType) {
		return Result{Outcome: BuildTypeNotSupportedForVersion, Key: key, Allowed: buildTypes}
	}

	return Result{Outcome: Valid, Key: key}
}

// IsValid is the boolean form of Explain.
func (v *Validator) IsValid(appName, buildType, idfVersion string) bool {
	return v.Explain(appName, buildType, idfVersion).Outcome == Valid
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
