// Package vault implements the Markdown-backed note store: one .md file
// per note with a versioned YAML frontmatter header, inside a configured
// subfolder of the vault root.
package vault

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sedgehq/sedge/internal/atomicfile"
	"github.com/sedgehq/sedge/pkg/core"
)

// Store implements core.Repository over a directory of Markdown files.
// The storage key is the note's slug, assigned at creation and stable
// across title updates.
type Store struct {
	Dir    string
	Logger *slog.Logger
}

// New creates a Store rooted at dir (vault root joined with the notes
// subfolder).
func New(dir string, logger *slog.Logger) *Store {
	return &Store{Dir: dir, Logger: logger}
}

// Initialize ensures the notes directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}
	return nil
}

// List reads every Markdown file in the directory and decodes it.
// Files that fail to decode are skipped with a warning; the result is
// sorted by creation time, newest first.
func (s *Store) List(ctx context.Context) ([]core.Note, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read notes directory: %w", err)
	}

	var notes []core.Note
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		if strings.HasPrefix(entry.Name(), atomicfile.TempPrefix) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("failed to read note file", "file", entry.Name(), "error", err)
			}
			continue
		}

		note, err := Decode(data)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("skipping undecodable note file", "file", entry.Name(), "error", err)
			}
			continue
		}
		notes = append(notes, note)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Created.After(notes[j].Created)
	})
	return notes, nil
}

// Get retrieves a note by ID via a linear scan of the pool. There is no
// index; personal collections are small enough that O(n) is fine.
func (s *Store) Get(ctx context.Context, id string) (core.Note, error) {
	notes, err := s.List(ctx)
	if err != nil {
		return core.Note{}, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return core.Note{}, core.ErrNotFound
}

// Put encodes the note with its related links and writes it to
// <slug>.md, overwriting unconditionally.
func (s *Store) Put(ctx context.Context, n core.Note, related []core.RelatedNote) error {
	if n.Slug == "" {
		return fmt.Errorf("note %q has no slug", n.ID)
	}

	data, err := Encode(n, related)
	if err != nil {
		return fmt.Errorf("failed to encode note %q: %w", n.ID, err)
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}

	path := s.path(n)
	if s.Logger != nil {
		s.Logger.Debug("writing note", "id", n.ID, "path", path)
	}
	if err := atomicfile.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write note file: %w", err)
	}
	return nil
}

// Delete removes the note's file.
func (s *Store) Delete(ctx context.Context, n core.Note) error {
	path := s.path(n)
	if s.Logger != nil {
		s.Logger.Debug("deleting note", "id", n.ID, "path", path)
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to remove note file: %w", err)
	}
	return nil
}

// Filename returns the storage filename for a note.
func (s *Store) Filename(n core.Note) string {
	return n.Slug + ".md"
}

func (s *Store) path(n core.Note) string {
	return filepath.Join(s.Dir, s.Filename(n))
}
