package kb

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// suggestMinScore is the minimum Jaro-Winkler similarity for a phrasing to be
// offered as a suggestion.
const suggestMinScore = 0.72

// Suggestions returns up to limit known phrasings closest to a query that the
// matcher could not answer, for "did you mean" prompts. Candidates are every
// entry's question patterns and tags; they are ranked by Jaro-Winkler
// similarity against the normalized query, with a Double Metaphone code
// overlap acting as a tie-breaking boost for misspelled Manglish words. This
// is advisory only and never influences FindEntry.
func Suggestions(query string, entries []Entry, limit int) []string {
	q := Normalize(query)
	if q == "" || limit <= 0 {
		return nil
	}

	type scored struct {
		text  string
		score float64
	}
	seen := make(map[string]struct{})
	var candidates []scored
	for _, entry := range entries {
		for _, text := range append(append([]string{}, entry.QuestionPatterns...), entry.Tags...) {
			t := Normalize(text)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			score := matchr.JaroWinkler(q, t, false)
			if phoneticOverlap(q, t) {
				score += 0.05
			}
			if score >= suggestMinScore {
				candidates = append(candidates, scored{text: t, score: score})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.text
	}
	return out
}

// phoneticOverlap reports whether any word of a shares a Double Metaphone
// code with any word of b.
func phoneticOverlap(a, b string) bool {
	codes := func(text string) map[string]struct{} {
		set := make(map[string]struct{})
		for _, word := range strings.Fields(text) {
			primary, secondary := matchr.DoubleMetaphone(word)
			if primary != "" {
				set[primary] = struct{}{}
			}
			if secondary != "" {
				set[secondary] = struct{}{}
			}
		}
		return set
	}
	aCodes := codes(a)
	for code := range codes(b) {
		if _, ok := aCodes[code]; ok {
			return true
		}
	}
	return false
}
