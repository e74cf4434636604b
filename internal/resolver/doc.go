// Package resolver resolves dotted configuration keys through the override
// priority chain. Environment overrides are snapshot into an explicit map at
// process start instead of read ad hoc, keeping resolution pure and
// idempotent.
package resolver
