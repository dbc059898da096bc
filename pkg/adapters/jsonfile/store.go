// Package jsonfile implements the flat-file JSON note store: one
// pretty-printed .json file per note. It is the alternate backend to
// the Markdown vault and ignores related-note links, which are a
// rendering concern of the Markdown format.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/sedgehq/sedge/internal/atomicfile"
	"github.com/sedgehq/sedge/pkg/core"
)

// Store implements core.Repository over a directory of JSON files keyed
// by note slug.
type Store struct {
	Dir    string
	Logger *slog.Logger
}

// New creates a Store rooted at dir.
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

// List reads every JSON file in the directory. Files that fail to parse
// are skipped with a warning; the result is sorted newest first.
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
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("failed to read note file", "file", entry.Name(), "error", err)
			}
			continue
		}

		var n core.Note
		if err := json.Unmarshal(data, &n); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("skipping invalid note file", "file", entry.Name(), "error", err)
			}
			continue
		}
		if n.ID == "" {
			if s.Logger != nil {
				s.Logger.Warn("skipping note file without id", "file", entry.Name())
			}
			continue
		}
		if n.Tags == nil {
			n.Tags = []string{}
		}
		if n.Slug == "" {
			n.Slug = core.Slugify(n.Title)
		}
		notes = append(notes, n)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Created.After(notes[j].Created)
	})
	return notes, nil
}

// Get retrieves a note by ID via a linear scan.
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

// Put writes the note as pretty-printed JSON to <slug>.json. The
// related set is ignored by this backend.
func (s *Store) Put(ctx context.Context, n core.Note, related []core.RelatedNote) error {
	if n.Slug == "" {
		return fmt.Errorf("note %q has no slug", n.ID)
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}

	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal note %q: %w", n.ID, err)
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}

	path := filepath.Join(s.Dir, n.Slug+".json")
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
	path := filepath.Join(s.Dir, n.Slug+".json")
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to remove note file: %w", err)
	}
	return nil
}
