// Package config loads the declarative application/build-type/IDF-version
// model from app_config.yml.
//
// Two parser strategies produce the same generic document tree: a structured
// YAML parser and a fallback line scanner that understands a restricted
// grammar subset. The loader prefers the structured strategy and degrades to
// the scanner on syntax errors, so a document that a constrained environment
// mangles slightly can still drive builds. Per-version build-type arrays,
// declared positionally in the file, are normalized into maps keyed by
// version value at load time.
package config
