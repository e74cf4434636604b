package combination

import (
	"errors"
	"fmt"
)

// ErrNoCompatibleVersion is returned when no declared IDF version supports
// the requested build type for the app.
var ErrNoCompatibleVersion = errors.New("no compatible IDF version")

// SelectDefaultVersion picks the IDF version to build with when the caller
// does not name one: the first version of the app's effective list, in
// declared order, under which the build type is valid. When none qualifies
// the global default version gets one more validity check before giving up.
//
// The caller must have established that appName and buildType exist (the
// KnownApp/KnownBuildType checks); this function does not re-validate them.
func (v *Validator) SelectDefaultVersion(appName, buildType string) (string, error) {
	app := v.model.Apps[appName]

	for _, version := range v.EffectiveVersions(app) {
		if v.IsValid(appName, buildType, version) {
			return version, nil
		}
	}

	if defaults := v.model.Metadata.IDFVersions; len(defaults) > 0 {
		if v.IsValid(appName, buildType, defaults[0]) {
			return defaults[0], nil
		}
	}

	return "", fmt.Errorf("%w for app %q with build type %q", ErrNoCompatibleVersion, appName, buildType)
}
