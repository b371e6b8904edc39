// Package kb implements the knowledge base query matcher: given free-text
// input it decides which FAQ entry (if any) answers it, and which fact within
// that entry is relevant. The package is pure computation over immutable
// inputs and is safe for concurrent use without locking.
package kb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one knowledge base record pairing trigger phrases and tags with a
// set of labeled facts. Entries are loaded once by an external provider and
// never mutated by this package. An entry with no patterns, no tags, and no
// facts is matchable by nothing; that is valid, not an error.
type Entry struct {
	ID               string   `json:"id"`
	QuestionPatterns []string `json:"question_patterns"`
	Tags             []string `json:"tags"`
	AnswerFacts      Facts    `json:"answer_facts"`
}

// Fact is a single labeled piece of information within an entry.
type Fact struct {
	Key   string
	Value string
}

// Facts is an insertion-ordered fact list. JSON object key order is preserved
// on decode because the first-N fallback display depends on it.
type Facts []Fact

// Get returns the value for key, if present.
func (f Facts) Get(key string) (string, bool) {
	for _, fact := range f {
		if fact.Key == key {
			return fact.Value, true
		}
	}
	return "", false
}

// First returns up to n facts in insertion order.
func (f Facts) First(n int) Facts {
	if n < 0 {
		n = 0
	}
	if n > len(f) {
		n = len(f)
	}
	return f[:n]
}

// UnmarshalJSON decodes a JSON object while keeping key order.
func (f *Facts) UnmarshalJSON(data []byte) error {
	*f = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("answer_facts: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("answer_facts: expected string key, got %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("answer_facts[%s]: %w", key, err)
		}
		*f = append(*f, Fact{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the facts as a JSON object in insertion order.
func (f Facts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fact := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fact.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(fact.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
