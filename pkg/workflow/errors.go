package workflow

import "errors"

var (
	// ErrNotContributor is returned when an operation reserved for the
	// entity's contributor is attempted by someone else.
	ErrNotContributor = errors.New("only the contributor can perform this operation")

	// ErrNotEditor is returned when a moderation operation is attempted by
	// a principal without the editor role.
	ErrNotEditor = errors.New("editor role required")

	// ErrInvalidInput is returned for malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")
)
