package kb

import "strings"

// FuzzyCutoff is the minimum sequence similarity ratio for the fuzzy tag pass.
const FuzzyCutoff = 0.5

// FindEntry returns the entry that best answers query, trying three passes in
// strict priority order; the first pass that produces a result wins.
//
//  1. Pattern substring: for every entry, for every pattern, the normalized
//     pattern and normalized query are tested for containment in either
//     direction. A one-character pattern therefore matches any query that
//     contains it, and an empty query matches the first entry with any
//     pattern at all. Both behaviors are deliberate and pinned by tests.
//  2. Tag substring: all tags are collected into a normalized-tag-to-entry
//     mapping. When two entries share a normalized tag, the later entry
//     silently wins ownership. Tags are scanned in collection order and the
//     first tag contained in the query decides.
//  3. Fuzzy tag: the whole normalized query is compared against every tag
//     with Ratio; the best-scoring tag at or above FuzzyCutoff decides, ties
//     going to the earliest-collected tag.
//
// There is no ranked result and no score: callers get an entry or nothing.
func FindEntry(query string, entries []Entry) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}
	q := Normalize(query)

	for _, entry := range entries {
		for _, pattern := range entry.QuestionPatterns {
			p := Normalize(pattern)
			if strings.Contains(q, p) || strings.Contains(p, q) {
				return entry, true
			}
		}
	}

	tags, owner := collectTags(entries)
	for _, tag := range tags {
		if strings.Contains(q, tag) {
			return entries[owner[tag]], true
		}
	}

	bestScore := -1.0
	bestTag := ""
	for _, tag := range tags {
		if score := Ratio(q, tag); score > bestScore {
			bestScore = score
			bestTag = tag
		}
	}
	if bestScore >= FuzzyCutoff {
		return entries[owner[bestTag]], true
	}
	return Entry{}, false
}

// collectTags flattens every entry's tags into collection order, alongside a
// last-write-wins ownership map keyed by normalized tag text.
func collectTags(entries []Entry) ([]string, map[string]int) {
	var tags []string
	owner := make(map[string]int)
	for i, entry := range entries {
		for _, tag := range entry.Tags {
			t := Normalize(tag)
			tags = append(tags, t)
			owner[t] = i
		}
	}
	return tags, owner
}
