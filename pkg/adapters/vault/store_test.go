package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedgehq/sedge/internal/atomicfile"
	"github.com/sedgehq/sedge/pkg/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), nil)
}

func TestStore_PutGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n := sampleNote()
	require.NoError(t, store.Put(ctx, n, nil))

	// File is named by slug.
	_, err := os.Stat(filepath.Join(store.Dir, "kubernetes-rollout.md"))
	require.NoError(t, err)

	got, err := store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)
	assert.Equal(t, n.Content, got.Content)

	require.NoError(t, store.Delete(ctx, n))
	_, err = store.Get(ctx, n.ID)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestStore_PutOverwritesSameSlug(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n := sampleNote()
	require.NoError(t, store.Put(ctx, n, nil))

	n.Title = "Kubernetes rollout, revised"
	n.Content = "updated"
	require.NoError(t, store.Put(ctx, n, nil))

	notes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1, "same slug must overwrite, not duplicate")
	assert.Equal(t, "updated", notes[0].Content)
}

func TestStore_RenamedTitleKeepsFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n := sampleNote()
	require.NoError(t, store.Put(ctx, n, nil))

	// A title change never re-derives the slug, so the file stays put.
	n.Title = "Completely different title"
	require.NoError(t, store.Put(ctx, n, nil))

	entries, err := os.ReadDir(store.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kubernetes-rollout.md", entries[0].Name())

	require.NoError(t, store.Delete(ctx, n))
	entries, err = os.ReadDir(store.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "delete after rename must not orphan the file")
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		n := core.NewNote(title, "x", nil)
		n.Created = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Put(ctx, n, nil))
	}

	notes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "newest", notes[0].Title)
	assert.Equal(t, "oldest", notes[2].Title)
}

func TestStore_ListSkipsCorruptFiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleNote(), nil))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "stray.md"), []byte("no frontmatter here"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "notes.txt"), []byte("not markdown"), 0644))

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1, "corrupt and non-markdown files must be skipped")
}

func TestStore_ListMissingDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	notes, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestStore_DeleteMissing(t *testing.T) {
	store := newTestStore(t)
	err := store.Delete(context.Background(), sampleNote())
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestStore_Initialize(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vault", "notes")
	store := New(dir, nil)
	require.NoError(t, store.Initialize(context.Background()))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_ListIgnoresInFlightTempFiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleNote(), nil))
	stray := filepath.Join(store.Dir, atomicfile.TempPrefix+"12345.md")
	require.NoError(t, os.WriteFile(stray, []byte("partial"), 0644))

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}
