package kb

import "strings"

// minFallbackWordLen bounds the direct word pass: only query words strictly
// longer than this take part.
const minFallbackWordLen = 3

// ExtractFact determines which single fact within entry answers the query.
// Categories detected from the query are consulted in taxonomy order; each
// category's candidate key fragments are tried in order against the entry's
// facts in insertion order, using the same bidirectional substring test as
// entry matching. When no category-based match lands, a direct pass compares
// query words longer than three characters against underscore-cleaned fact
// keys. ok is false when nothing matches; the caller is expected to fall back
// to a multi-fact summary or a fully phrased answer.
func ExtractFact(query string, entry Entry) (value, key string, ok bool) {
	for _, cat := range detectCategories(query) {
		for _, fragment := range cat.candidateKeys(entry) {
			for _, fact := range entry.AnswerFacts {
				k := Normalize(fact.Key)
				if strings.Contains(k, fragment) || strings.Contains(fragment, k) {
					return fact.Value, fact.Key, true
				}
			}
		}
	}

	words := strings.Fields(Normalize(query))
	for _, fact := range entry.AnswerFacts {
		cleaned := strings.ReplaceAll(Normalize(fact.Key), "_", " ")
		for _, word := range words {
			if len([]rune(word)) > minFallbackWordLen && strings.Contains(cleaned, word) {
				return fact.Value, fact.Key, true
			}
		}
	}

	return "", "", false
}
