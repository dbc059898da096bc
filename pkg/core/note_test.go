package core_test

import (
	"strings"
	"testing"

	"github.com/sedgehq/sedge/pkg/core"
)

func TestNewNote(t *testing.T) {
	n := core.NewNote("Meeting Notes: Q3 Planning", "agenda items", nil)

	if n.ID == "" {
		t.Fatal("expected generated ID")
	}
	if n.Slug != "meeting-notes-q3-planning" {
		t.Errorf("unexpected slug: %q", n.Slug)
	}
	if n.Tags == nil {
		t.Error("tags should never be nil")
	}
	if n.Created.IsZero() {
		t.Error("created timestamp not set")
	}
	if n.Created.Location() != nil && n.Created.Location().String() != "UTC" {
		t.Errorf("created should be UTC, got %v", n.Created.Location())
	}
}

func TestNewNote_UniqueIDs(t *testing.T) {
	a := core.NewNote("Same Title", "x", nil)
	b := core.NewNote("Same Title", "x", nil)
	if a.ID == b.ID {
		t.Errorf("two notes created in the same instant must get distinct IDs, both got %q", a.ID)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation", "What's up, doc?!", "whats-up-doc"},
		{"underscores and dashes", "foo_bar--baz", "foo-bar-baz"},
		{"leading and trailing separators", "  --hello--  ", "hello"},
		{"unicode stripped", "café menü", "caf-men"},
		{"empty input", "", "untitled"},
		{"only symbols", "!!!", "untitled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := core.Slugify(tc.in); got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSlugify_Truncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := core.Slugify(long)
	if len(got) > 100 {
		t.Errorf("slug length %d exceeds limit", len(got))
	}
}

func TestMergeTags(t *testing.T) {
	got := core.MergeTags([]string{"go", "notes"}, []string{"notes", "sync"}, []string{"go"})
	want := []string{"notes", "sync"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestMergeTags_NeverNil(t *testing.T) {
	got := core.MergeTags(nil, nil, []string{"x"})
	if got == nil {
		t.Fatal("merged tags must not be nil")
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestSharedTags(t *testing.T) {
	a := core.Note{Tags: []string{"go", "cli", "notes"}}
	b := core.Note{Tags: []string{"notes", "go"}}
	shared := a.SharedTags(b)
	if len(shared) != 2 {
		t.Fatalf("expected 2 shared tags, got %v", shared)
	}
	// Order follows a's tags.
	if shared[0] != "go" || shared[1] != "notes" {
		t.Errorf("unexpected order: %v", shared)
	}
}
