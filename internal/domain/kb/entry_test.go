package kb

import (
	"encoding/json"
	"testing"
)

func TestFactsPreserveInsertionOrder(t *testing.T) {
	payload := `{
		"id": "college_contact",
		"question_patterns": ["contact", "phone number"],
		"tags": ["contact", "phone"],
		"answer_facts": {"phone": "04994 230 008", "email": "principal@lbscek.ac.in", "fax": "04994 230 015"}
	}`

	var entry Entry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	wantKeys := []string{"phone", "email", "fax"}
	if len(entry.AnswerFacts) != len(wantKeys) {
		t.Fatalf("expected %d facts got %d", len(wantKeys), len(entry.AnswerFacts))
	}
	for i, key := range wantKeys {
		if entry.AnswerFacts[i].Key != key {
			t.Fatalf("fact %d: expected key %s got %s", i, key, entry.AnswerFacts[i].Key)
		}
	}
}

func TestFactsRoundTrip(t *testing.T) {
	facts := Facts{
		{Key: "phone", Value: "04994 230 008"},
		{Key: "email", Value: "principal@lbscek.ac.in"},
	}
	data, err := json.Marshal(facts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Facts
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Key != "phone" || decoded[1].Key != "email" {
		t.Fatalf("round trip lost order: %v", decoded)
	}
}

func TestFactsTolerateAbsence(t *testing.T) {
	// Partially specified entries degrade gracefully: missing collections
	// decode to empty, never an error.
	var entry Entry
	if err := json.Unmarshal([]byte(`{"id":"bare"}`), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entry.QuestionPatterns) != 0 || len(entry.Tags) != 0 || len(entry.AnswerFacts) != 0 {
		t.Fatalf("expected empty collections, got %+v", entry)
	}
	var facts Facts
	if err := json.Unmarshal([]byte(`null`), &facts); err != nil {
		t.Fatalf("null facts: %v", err)
	}
	if len(facts) != 0 {
		t.Fatalf("null facts should decode empty, got %v", facts)
	}
}

func TestFactsHelpers(t *testing.T) {
	facts := Facts{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2"},
		{Key: "c", Value: "3"},
	}
	if v, ok := facts.Get("b"); !ok || v != "2" {
		t.Fatalf("Get(b) = %v %v", v, ok)
	}
	if _, ok := facts.Get("missing"); ok {
		t.Fatalf("Get(missing) should fail")
	}
	if first := facts.First(2); len(first) != 2 || first[1].Key != "b" {
		t.Fatalf("First(2) = %v", first)
	}
	if first := facts.First(10); len(first) != 3 {
		t.Fatalf("First over length should clamp, got %v", first)
	}
}
