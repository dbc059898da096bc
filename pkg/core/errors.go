package core

import "errors"

// Common errors.
var (
	// ErrNotFound indicates that no note matches the given identifier.
	ErrNotFound = errors.New("note not found")

	// ErrAmbiguous indicates that a free-text identifier matched more
	// than one note.
	ErrAmbiguous = errors.New("identifier matches multiple notes")

	// ErrNoFrontmatter indicates a vault file without a metadata header.
	ErrNoFrontmatter = errors.New("no frontmatter block found")

	// ErrMissingField indicates a metadata header missing a required field.
	ErrMissingField = errors.New("required metadata field missing")
)
