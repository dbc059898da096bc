package core

import (
	"math"
	"sort"
	"strings"
)

// Scoring weights for the relatedness heuristic.
const (
	scorePerSharedTag   = 10
	scoreSharedProject  = 15
	scoreSharedCategory = 8
	maxSimilarityBonus  = 5

	// similarityThreshold gates the content-similarity bonus.
	similarityThreshold = 0.3

	// maxKeywords caps each keyword set to keep the Jaccard comparison cheap.
	maxKeywords = 20

	// SimpleLimit and ScoredLimit bound the result lengths.
	SimpleLimit = 5
	ScoredLimit = 10
)

// stopWords are common terms excluded from keyword extraction.
var stopWords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "before": true,
	"being": true, "between": true, "both": true, "command": true, "could": true,
	"does": true, "down": true, "each": true, "from": true, "have": true,
	"here": true, "just": true, "like": true, "more": true, "most": true,
	"other": true, "over": true, "same": true, "should": true, "some": true,
	"such": true, "than": true, "that": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "under": true, "very": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"will": true, "with": true, "would": true, "your": true,
}

// Related returns up to SimpleLimit notes from pool that share at least
// one tag or a non-empty project with current, ordered by the number of
// shared tags descending. Ties keep pool order (stable sort).
// The current note itself is always excluded. Pure function.
func Related(current Note, pool []Note) []Note {
	candidates := candidates(current, pool)

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(current.SharedTags(candidates[i])) > len(current.SharedTags(candidates[j]))
	})

	if len(candidates) > SimpleLimit {
		candidates = candidates[:SimpleLimit]
	}
	return candidates
}

// ScoreRelated returns up to ScoredLimit scored links for current against
// pool. Candidates qualify by shared tag or shared project; the score
// additionally rewards a shared category and keyword overlap in content.
func ScoreRelated(current Note, pool []Note) []RelatedNote {
	currentKeywords := Keywords(current.Content)

	var results []RelatedNote
	for _, candidate := range candidates(current, pool) {
		score := 0
		var connection string
		shared := current.SharedTags(candidate)

		if len(shared) > 0 {
			score += scorePerSharedTag * len(shared)
			connection = "tags"
		}
		if current.Project != "" && current.Project == candidate.Project {
			score += scoreSharedProject
			if connection == "" {
				connection = "project"
			}
			shared = append(shared, candidate.Project)
		}
		if current.Category != "" && current.Category == candidate.Category {
			score += scoreSharedCategory
		}

		if sim := jaccard(currentKeywords, Keywords(candidate.Content)); sim > similarityThreshold {
			bonus := int(math.Round(sim * maxSimilarityBonus))
			if bonus > maxSimilarityBonus {
				bonus = maxSimilarityBonus
			}
			score += bonus
		}

		results = append(results, RelatedNote{
			Note:           candidate,
			Score:          score,
			ConnectionType: connection,
			SharedElements: shared,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > ScoredLimit {
		results = results[:ScoredLimit]
	}
	return results
}

// candidates filters pool down to notes that qualify as related to
// current: not the note itself, sharing at least one tag or a non-empty
// project value. Pool order is preserved.
func candidates(current Note, pool []Note) []Note {
	var out []Note
	for _, n := range pool {
		if n.ID == current.ID {
			continue
		}
		byTag := len(current.SharedTags(n)) > 0
		byProject := current.Project != "" && current.Project == n.Project
		if byTag || byProject {
			out = append(out, n)
		}
	}
	return out
}

// Keywords extracts a bounded set of significant terms from text:
// lowercased, punctuation stripped, whitespace-split, short words and
// stop-words dropped, capped at maxKeywords distinct terms.
func Keywords(text string) map[string]bool {
	set := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, field)

		if len(word) <= 3 || stopWords[word] || set[word] {
			continue
		}
		set[word] = true
		if len(set) >= maxKeywords {
			break
		}
	}
	return set
}

// jaccard computes the Jaccard index of two keyword sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
