package core_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/sedgehq/sedge/pkg/core"
)

// MockRepository implements core.Repository in memory, sorted newest
// first like the real backends.
type MockRepository struct {
	notes   map[string]core.Note
	related map[string][]core.RelatedNote
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		notes:   make(map[string]core.Note),
		related: make(map[string][]core.RelatedNote),
	}
}

func (m *MockRepository) Put(ctx context.Context, n core.Note, related []core.RelatedNote) error {
	m.notes[n.ID] = n
	m.related[n.ID] = related
	return nil
}

func (m *MockRepository) Get(ctx context.Context, id string) (core.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return core.Note{}, core.ErrNotFound
	}
	return n, nil
}

func (m *MockRepository) List(ctx context.Context) ([]core.Note, error) {
	var out []core.Note
	for _, n := range m.notes {
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created.After(out[j].Created)
	})
	return out, nil
}

func (m *MockRepository) Delete(ctx context.Context, n core.Note) error {
	if _, ok := m.notes[n.ID]; !ok {
		return core.ErrNotFound
	}
	delete(m.notes, n.ID)
	return nil
}

func (m *MockRepository) Initialize(ctx context.Context) error { return nil }

func seed(t *testing.T, repo *MockRepository, n core.Note) {
	t.Helper()
	if err := repo.Put(context.Background(), n, nil); err != nil {
		t.Fatalf("seeding repo: %v", err)
	}
}

func TestService_Add(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)
	ctx := context.Background()

	existing := core.NewNote("Go generics", "notes on type parameters", []string{"go"})
	seed(t, repo, existing)

	n, related, err := service.Add(ctx, "Go error handling", "wrapping with fmt.Errorf", []string{"go"}, "sedge", "dev")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if n.Project != "sedge" || n.Category != "dev" {
		t.Errorf("project/category not set: %+v", n)
	}
	if len(related) != 1 || related[0].Note.ID != existing.ID {
		t.Errorf("expected the seeded note as related, got %v", related)
	}
	if _, err := repo.Get(ctx, n.ID); err != nil {
		t.Errorf("note not persisted: %v", err)
	}
}

func TestService_Add_EmptyTitle(t *testing.T) {
	service := core.NewService(NewMockRepository())
	if _, _, err := service.Add(context.Background(), "", "content", nil, "", ""); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestService_Search(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)
	ctx := context.Background()

	seed(t, repo, core.NewNote("Kubernetes rollout", "canary strategy", []string{"infra"}))
	seed(t, repo, core.NewNote("Sourdough starter", "feed twice a day", []string{"baking"}))

	t.Run("matches title case-insensitively", func(t *testing.T) {
		got, err := service.Search(ctx, "KUBERNETES", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Title != "Kubernetes rollout" {
			t.Errorf("unexpected result: %v", got)
		}
	})

	t.Run("matches tags", func(t *testing.T) {
		got, err := service.Search(ctx, "baking", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Title != "Sourdough starter" {
			t.Errorf("unexpected result: %v", got)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		got, err := service.Search(ctx, "quantum", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("expected no results, got %v", got)
		}
	})
}

func TestService_List_NewestFirstAndLimit(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		n := core.NewNote(title, "x", nil)
		n.Created = base.Add(time.Duration(i) * time.Hour)
		seed(t, repo, n)
	}

	got, err := service.List(ctx, 1, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "newest" {
		t.Errorf("limit 1 must return the newest note, got %v", got)
	}
}

func TestService_List_Filters(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)
	ctx := context.Background()

	a := core.NewNote("A", "x", []string{"go"})
	a.Project = "sedge"
	b := core.NewNote("B", "x", []string{"infra"})
	seed(t, repo, a)
	seed(t, repo, b)

	got, err := service.List(ctx, 0, "go", "sedge")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "A" {
		t.Errorf("filters should intersect, got %v", got)
	}
}

func TestService_Resolve(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)
	ctx := context.Background()

	a := core.NewNote("Meeting notes Monday", "x", nil)
	b := core.NewNote("Meeting notes Friday", "x", nil)
	seed(t, repo, a)
	seed(t, repo, b)

	t.Run("exact id wins", func(t *testing.T) {
		got, _, err := service.Resolve(ctx, a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != a.ID {
			t.Errorf("expected %s, got %s", a.ID, got.ID)
		}
	})

	t.Run("unique title match", func(t *testing.T) {
		got, _, err := service.Resolve(ctx, "friday")
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != b.ID {
			t.Errorf("expected %s, got %s", b.ID, got.ID)
		}
	})

	t.Run("ambiguous returns matches", func(t *testing.T) {
		_, matches, err := service.Resolve(ctx, "meeting notes")
		if !errors.Is(err, core.ErrAmbiguous) {
			t.Fatalf("expected ErrAmbiguous, got %v", err)
		}
		if len(matches) != 2 {
			t.Errorf("expected both matches, got %v", matches)
		}
	})

	t.Run("no match", func(t *testing.T) {
		_, _, err := service.Resolve(ctx, "nonexistent")
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestService_Save_RecomputesLinks(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)
	ctx := context.Background()

	other := core.NewNote("Other", "x", []string{"go"})
	seed(t, repo, other)

	n := core.NewNote("Mine", "x", nil)
	seed(t, repo, n)

	n.Tags = []string{"go"}
	related, err := service.Save(ctx, n)
	if err != nil {
		t.Fatal(err)
	}
	if len(related) != 1 || related[0].Note.ID != other.ID {
		t.Errorf("expected recomputed link to other note, got %v", related)
	}
}
