package kbrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/akhilvs/sarvajna/internal/domain/kb"
)

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func TestFileSourceLoadsEntries(t *testing.T) {
	path := writeTestFile(t, `[
		{
			"id": "library",
			"question_patterns": ["library hours"],
			"tags": ["library"],
			"answer_facts": {"library_timing": "9 to 5", "library_books": "25000"}
		}
	]`)

	source, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, err := source.Entries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "library" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].AnswerFacts[0].Key != "library_timing" {
		t.Fatalf("fact order not preserved: %+v", entries[0].AnswerFacts)
	}
}

func TestFileSourceEmptyPathUsesDefaults(t *testing.T) {
	source, err := NewFileSource("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, err := source.Entries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected default entries")
	}
}

func TestFileSourceRejectsBadJSON(t *testing.T) {
	path := writeTestFile(t, `{"not": "a list"`)
	if _, err := NewFileSource(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestFileSourceUpsertPersists(t *testing.T) {
	path := writeTestFile(t, `[]`)
	source, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := kb.Entry{
		ID:               "canteen",
		QuestionPatterns: []string{"canteen menu"},
		Tags:             []string{"canteen"},
		AnswerFacts:      kb.Facts{{Key: "canteen_timing", Value: "8 to 6"}},
	}
	if err := source.UpsertEntry(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reopened, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, err := reopened.Entries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "canteen" {
		t.Fatalf("upsert not persisted: %+v", entries)
	}
}

func TestFileSourceUpsertReplacesByID(t *testing.T) {
	source, err := NewFileSource("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated := kb.Entry{
		ID:          "library",
		Tags:        []string{"library"},
		AnswerFacts: kb.Facts{{Key: "library_timing", Value: "8 AM to 8 PM"}},
	}
	if err := source.UpsertEntry(context.Background(), updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, _ := source.Entries(context.Background())
	count := 0
	for _, e := range entries {
		if e.ID == "library" {
			count++
			if value, _ := e.AnswerFacts.Get("library_timing"); value != "8 AM to 8 PM" {
				t.Fatalf("entry not replaced: %+v", e)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected a single library entry, got %d", count)
	}
}

func TestDefaultEntriesMatchable(t *testing.T) {
	entries := DefaultEntries()
	entry, found := kb.FindEntry("library hours", entries)
	if !found || entry.ID != "library" {
		t.Fatalf("expected library match, got %+v found=%v", entry, found)
	}
}
