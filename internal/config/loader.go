package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"idfctl/pkg/logging"
)

// ConfigFileName is the well-known name of the configuration source.
const ConfigFileName = "app_config.yml"

// For mocking in tests
var osReadFile = os.ReadFile

// Result bundles the loaded model with the raw document views the key
// resolver consults.
type Result struct {
	Model *Model
	Path  string

	// Strategy names the parser that produced Model ("yaml" or "scan").
	Strategy string

	structured *node
	fallback   *node
}

// StructuredView returns the structured-parser view of the document, or nil
// when the structured strategy failed.
func (r *Result) StructuredView() View {
	if r.structured == nil {
		return nil
	}
	return nodeView{r.structured}
}

// FallbackView returns the line-scanner view of the document, or nil when
// the scanner failed.
func (r *Result) FallbackView() View {
	if r.fallback == nil {
		return nil
	}
	return nodeView{r.fallback}
}

// Load reads and parses the configuration source at path. The structured
// strategy is preferred; a structured syntax error falls back to the line
// scanner rather than failing outright. Missing mandatory fields surface as
// MissingRequiredFieldError, and a document neither strategy can handle as
// ErrInvalid.
func Load(path string) (*Result, error) {
	data, err := osReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	res := &Result{Path: path}

	structured, yerr := yamlStrategy{}.Parse(data)
	if yerr != nil {
		logging.Warn("Loader", "structured parse of %s failed, falling back to line scanner: %v", path, yerr)
	} else {
		res.structured = structured
	}

	fallback, ferr := scanStrategy{}.Parse(data)
	if ferr != nil {
		logging.Debug("Loader", "line scanner rejected %s: %v", path, ferr)
	} else {
		res.fallback = fallback
	}

	switch {
	case res.structured != nil:
		model, err := buildModel(res.structured)
		if err != nil {
			return nil, err
		}
		res.Model = model
		res.Strategy = "yaml"
	case res.fallback != nil:
		model, err := buildModel(res.fallback)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		res.Model = model
		res.Strategy = "scan"
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalid, yerr)
	}

	logging.Debug("Loader", "loaded %d apps from %s via %s strategy",
		len(res.Model.AppOrder), path, res.Strategy)
	return res, nil
}

// Locate finds the configuration source. With a project path the file must
// sit directly in that directory; otherwise the usual checkout-relative
// locations are probed, matching where CI jobs run from.
func Locate(projectPath string) (string, error) {
	if projectPath != "" {
		candidate := filepath.Join(projectPath, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, candidate)
	}

	candidates := []string{
		ConfigFileName,
		filepath.Join("examples", "esp32", ConfigFileName),
		filepath.Join("..", ConfigFileName),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: tried %v", ErrNotFound, candidates)
}
