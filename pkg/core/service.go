package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service handles the business logic for notes on top of a Repository.
// Every operation re-reads the pool from storage; there is no shared
// in-memory state between calls.
type Service struct {
	repo Repository
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Repo exposes the underlying repository for callers that need direct
// access (the sync orchestrator writes through it in bulk).
func (s *Service) Repo() Repository {
	return s.repo
}

// Add creates a new note, computes its related links against the current
// pool, and persists it. It returns the created note and its links.
func (s *Service) Add(ctx context.Context, title, content string, tags []string, project, category string) (Note, []RelatedNote, error) {
	if title == "" {
		return Note{}, nil, errors.New("note title cannot be empty")
	}

	note := NewNote(title, content, tags)
	note.Project = project
	note.Category = category

	pool, err := s.repo.List(ctx)
	if err != nil {
		return Note{}, nil, fmt.Errorf("failed to read note pool: %w", err)
	}
	related := ScoreRelated(note, pool)

	if err := s.repo.Put(ctx, note, related); err != nil {
		return Note{}, nil, err
	}
	return note, related, nil
}

// Save persists an updated note, recomputing its related links against
// the current pool. ID, Slug and Created must already be set and are
// passed through untouched.
func (s *Service) Save(ctx context.Context, n Note) ([]RelatedNote, error) {
	pool, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read note pool: %w", err)
	}
	related := ScoreRelated(n, pool)

	if err := s.repo.Put(ctx, n, related); err != nil {
		return nil, err
	}
	return related, nil
}

// Search returns notes whose title, content, tags or project contain the
// query (case-insensitive substring), newest first. A limit <= 0 means
// no limit.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Note, error) {
	pool, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matches []Note
	for _, n := range pool {
		if matchesQuery(n, q) {
			matches = append(matches, n)
		}
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func matchesQuery(n Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q) ||
		strings.Contains(strings.ToLower(n.Project), q) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// List returns notes newest first, optionally filtered by tag and
// project. A limit <= 0 means no limit.
func (s *Service) List(ctx context.Context, limit int, tag, project string) ([]Note, error) {
	pool, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []Note
	for _, n := range pool {
		if tag != "" && !n.HasTag(tag) {
			continue
		}
		if project != "" && n.Project != project {
			continue
		}
		out = append(out, n)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Resolve finds a single note by exact ID, falling back to a free-text
// title search. When the free-text search matches several notes it
// returns ErrAmbiguous along with the matches so the caller can render
// a disambiguation listing.
func (s *Service) Resolve(ctx context.Context, identifier string) (Note, []Note, error) {
	pool, err := s.repo.List(ctx)
	if err != nil {
		return Note{}, nil, err
	}

	for _, n := range pool {
		if n.ID == identifier {
			return n, nil, nil
		}
	}

	q := strings.ToLower(identifier)
	var matches []Note
	for _, n := range pool {
		if strings.Contains(strings.ToLower(n.Title), q) {
			matches = append(matches, n)
		}
	}

	switch len(matches) {
	case 0:
		return Note{}, nil, ErrNotFound
	case 1:
		return matches[0], nil, nil
	default:
		return Note{}, matches, ErrAmbiguous
	}
}

// Delete removes a note from storage.
func (s *Service) Delete(ctx context.Context, n Note) error {
	return s.repo.Delete(ctx, n)
}
