package core_test

import (
	"fmt"
	"testing"

	"github.com/sedgehq/sedge/pkg/core"
)

func note(id string, tags []string, project, category, content string) core.Note {
	return core.Note{
		ID:       id,
		Slug:     id,
		Title:    id,
		Content:  content,
		Tags:     tags,
		Project:  project,
		Category: category,
	}
}

func TestRelated_SharedTagOrdering(t *testing.T) {
	current := note("current", []string{"go", "cli", "notes"}, "", "", "")
	pool := []core.Note{
		current,
		note("one-shared", []string{"go"}, "", "", ""),
		note("two-shared", []string{"go", "cli"}, "", "", ""),
		note("unrelated", []string{"cooking"}, "", "", ""),
	}

	got := core.Related(current, pool)
	if len(got) != 2 {
		t.Fatalf("expected 2 related notes, got %d", len(got))
	}
	if got[0].ID != "two-shared" || got[1].ID != "one-shared" {
		t.Errorf("wrong order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestRelated_ExcludesSelf(t *testing.T) {
	current := note("a", []string{"go"}, "", "", "")
	got := core.Related(current, []core.Note{current})
	if len(got) != 0 {
		t.Errorf("a note must not relate to itself, got %v", got)
	}
}

func TestRelated_ProjectQualifies(t *testing.T) {
	current := note("a", nil, "sedge", "", "")
	pool := []core.Note{note("b", nil, "sedge", "", "")}
	got := core.Related(current, pool)
	if len(got) != 1 {
		t.Fatalf("shared project should qualify, got %d results", len(got))
	}
}

func TestRelated_EmptyProjectNeverMatches(t *testing.T) {
	current := note("a", nil, "", "", "")
	pool := []core.Note{note("b", nil, "", "", "")}
	if got := core.Related(current, pool); len(got) != 0 {
		t.Errorf("two empty projects must not match, got %v", got)
	}
}

func TestRelated_CapsAtFive(t *testing.T) {
	current := note("current", []string{"go"}, "", "", "")
	var pool []core.Note
	for i := 0; i < 8; i++ {
		pool = append(pool, note(fmt.Sprintf("n%d", i), []string{"go"}, "", "", ""))
	}
	if got := core.Related(current, pool); len(got) != core.SimpleLimit {
		t.Errorf("expected %d results, got %d", core.SimpleLimit, len(got))
	}
}

func TestRelated_StableTieBreak(t *testing.T) {
	current := note("current", []string{"go"}, "", "", "")
	pool := []core.Note{
		note("first", []string{"go"}, "", "", ""),
		note("second", []string{"go"}, "", "", ""),
	}
	got := core.Related(current, pool)
	if got[0].ID != "first" || got[1].ID != "second" {
		t.Errorf("ties must keep pool order, got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestScoreRelated_Weights(t *testing.T) {
	current := note("current", []string{"go", "cli"}, "sedge", "dev", "")
	pool := []core.Note{
		note("full-match", []string{"go", "cli"}, "sedge", "dev", ""),
	}

	got := core.ScoreRelated(current, pool)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	// 2 tags * 10 + project 15 + category 8.
	if got[0].Score != 43 {
		t.Errorf("expected score 43, got %d", got[0].Score)
	}
	if got[0].ConnectionType != "tags" {
		t.Errorf("expected connection type tags, got %q", got[0].ConnectionType)
	}
	// Shared elements list both tags and the project name.
	if len(got[0].SharedElements) != 3 {
		t.Errorf("expected 3 shared elements, got %v", got[0].SharedElements)
	}
}

func TestScoreRelated_ProjectOnlyConnection(t *testing.T) {
	current := note("current", nil, "sedge", "", "")
	pool := []core.Note{note("b", nil, "sedge", "", "")}

	got := core.ScoreRelated(current, pool)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Score != 15 {
		t.Errorf("expected score 15, got %d", got[0].Score)
	}
	if got[0].ConnectionType != "project" {
		t.Errorf("expected connection type project, got %q", got[0].ConnectionType)
	}
}

func TestScoreRelated_SimilarityBonus(t *testing.T) {
	content := "kubernetes deployment rollout strategy canary traffic"
	current := note("current", []string{"infra"}, "", "", content)
	pool := []core.Note{
		note("same-content", []string{"infra"}, "", "", content),
		note("different", []string{"infra"}, "", "", "sourdough bread hydration"),
	}

	got := core.ScoreRelated(current, pool)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	// Identical content earns the full bonus on top of one shared tag.
	if got[0].Note.ID != "same-content" {
		t.Fatalf("expected same-content ranked first, got %s", got[0].Note.ID)
	}
	if got[0].Score != 15 {
		t.Errorf("expected 10 + 5 bonus, got %d", got[0].Score)
	}
	if got[1].Score != 10 {
		t.Errorf("expected no bonus for disjoint content, got %d", got[1].Score)
	}
}

func TestScoreRelated_CapsAtTen(t *testing.T) {
	current := note("current", []string{"go"}, "", "", "")
	var pool []core.Note
	for i := 0; i < 15; i++ {
		pool = append(pool, note(fmt.Sprintf("n%d", i), []string{"go"}, "", "", ""))
	}
	if got := core.ScoreRelated(current, pool); len(got) != core.ScoredLimit {
		t.Errorf("expected %d results, got %d", core.ScoredLimit, len(got))
	}
}

func TestKeywords(t *testing.T) {
	set := core.Keywords("The quick brown fox jumps over the lazy dog, with some haste!")
	for _, want := range []string{"quick", "brown", "jumps", "lazy", "haste"} {
		if !set[want] {
			t.Errorf("expected keyword %q in %v", want, set)
		}
	}
	// Short words and stop-words are excluded.
	for _, banned := range []string{"the", "fox", "dog", "over", "with", "some"} {
		if set[banned] {
			t.Errorf("did not expect %q in %v", banned, set)
		}
	}
}

func TestKeywords_Capped(t *testing.T) {
	var text string
	for i := 0; i < 40; i++ {
		text += fmt.Sprintf("distinctword%02d ", i)
	}
	if set := core.Keywords(text); len(set) > 20 {
		t.Errorf("keyword set exceeds cap: %d", len(set))
	}
}
