package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note is the central entity of the domain.
// It represents a single piece of knowledge, agnostic to the storage
// format (Markdown vault, JSON files).
type Note struct {
	ID       string    `json:"id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Created  time.Time `json:"created"`
	Tags     []string  `json:"tags"`
	Project  string    `json:"project,omitempty"`
	Category string    `json:"category,omitempty"`
}

// RelatedNote is a scored link between a note and another note from the
// same pool. It is derived on demand and never persisted.
type RelatedNote struct {
	Note           Note
	Score          int
	ConnectionType string
	SharedElements []string
}

// NewNote creates a note with a fresh ID, slug and creation timestamp.
// ID, Slug and Created are assigned exactly once here; update paths must
// never touch them.
func NewNote(title, content string, tags []string) Note {
	now := time.Now().UTC()
	if tags == nil {
		tags = []string{}
	}
	return Note{
		ID:      generateID(now),
		Slug:    Slugify(title),
		Title:   title,
		Content: content,
		Created: now,
		Tags:    tags,
	}
}

// generateID builds a timestamp-derived identifier with a random suffix.
// The timestamp prefix keeps IDs roughly sortable; the suffix avoids
// collisions when two notes are created within the same second.
func generateID(t time.Time) string {
	return fmt.Sprintf("%s-%s", t.Format("20060102T150405"), uuid.New().String()[:8])
}

// maxSlugLen bounds the filename length derived from a title.
const maxSlugLen = 100

// Slugify converts a title into a filesystem-safe storage key:
// reserved characters stripped, whitespace collapsed to dashes,
// lowercased, truncated to 100 characters.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // suppress leading dashes
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		default:
			// Reserved and non-ASCII characters are dropped.
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// MergeTags applies the tag update algebra: (existing + add) minus remove.
// Order is preserved (existing first, then newly added), duplicates are
// dropped, and the result is never nil.
func MergeTags(existing, add, remove []string) []string {
	removed := make(map[string]bool, len(remove))
	for _, t := range remove {
		removed[t] = true
	}

	seen := make(map[string]bool)
	result := []string{}
	for _, t := range existing {
		if removed[t] || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	for _, t := range add {
		if removed[t] || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}

// HasTag reports whether the note carries the given tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SharedTags returns the tags present on both notes, in this note's order.
func (n Note) SharedTags(other Note) []string {
	var shared []string
	for _, t := range n.Tags {
		if other.HasTag(t) {
			shared = append(shared, t)
		}
	}
	return shared
}
