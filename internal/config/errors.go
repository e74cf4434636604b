package config

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the configuration source is missing or
// unreadable.
var ErrNotFound = errors.New("configuration file not found")

// ErrInvalid is returned when the structured strategy rejects the document
// and the fallback strategy cannot recover the required fields either.
var ErrInvalid = errors.New("invalid configuration")

// MissingRequiredFieldError reports a document that parsed cleanly but lacks
// a mandatory field.
type MissingRequiredFieldError struct {
	Path string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required configuration field: %s", e.Path)
}
