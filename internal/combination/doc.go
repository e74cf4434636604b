// Package combination decides whether an (app, build type, IDF version)
// triple is a legal build, explains rejections with the most specific
// failing rule, and selects a default IDF version when the caller leaves it
// out.
package combination
