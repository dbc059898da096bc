package core

import "context"

// Repository defines the contract for storing and retrieving notes.
// Adhering to this interface keeps the core independent of the
// underlying storage mechanism (Markdown vault, JSON files).
type Repository interface {
	// Put persists a note, overwriting any existing note with the same
	// storage key. The related set is a rendering hint for backends that
	// embed note links (the Markdown vault); backends that don't may
	// ignore it.
	Put(ctx context.Context, n Note, related []RelatedNote) error

	// Get retrieves a note by its ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (Note, error)

	// List returns all notes sorted by creation time, newest first.
	List(ctx context.Context) ([]Note, error)

	// Delete removes a note. Returns ErrNotFound if absent.
	Delete(ctx context.Context, n Note) error

	// Initialize ensures the underlying storage is ready
	// (e.g. create directories).
	Initialize(ctx context.Context) error
}
