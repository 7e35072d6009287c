// Package apperr defines the sentinel errors of the fatal tier.
// Anything wrapping one of these aborts the whole batch with exit code 1.
package apperr

import "errors"

var (
	// ErrMalformedDocument means a posting does not have the expected
	// frontmatter structure (missing opening or closing delimiter).
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInvalidMetadata means a frontmatter block is not valid YAML.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrInvalidConfig means the configuration is missing or malformed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound means a requested posting does not exist.
	ErrNotFound = errors.New("not found")
)
