package assistant

import (
	"strings"
	"testing"

	"github.com/akhilvs/sarvajna/internal/domain/kb"
	"github.com/akhilvs/sarvajna/internal/domain/lang"
)

func TestBuildMessagesIncludesFacts(t *testing.T) {
	entry := kb.Entry{
		AnswerFacts: kb.Facts{
			{Key: "library_timing", Value: "9 to 5"},
			{Key: "library_books", Value: "20000 books"},
		},
	}
	msgs := buildMessages(Config{}, nil, "library hours", entry, "", lang.ModeEnglish)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(msgs))
	}
	if msgs[0].Role != "system" || !strings.Contains(msgs[0].Content, "Reply in English.") {
		t.Fatalf("unexpected system message %+v", msgs[0])
	}
	user := msgs[1].Content
	if !strings.Contains(user, "library timing: 9 to 5") || !strings.Contains(user, "library books: 20000 books") {
		t.Fatalf("facts missing from prompt: %q", user)
	}
}

func TestBuildMessagesFiltersToMatchedFact(t *testing.T) {
	entry := kb.Entry{
		AnswerFacts: kb.Facts{
			{Key: "library_timing", Value: "9 to 5"},
			{Key: "hostel_fee", Value: "25000 per year"},
		},
	}
	msgs := buildMessages(Config{}, nil, "library hours", entry, "library_timing", lang.ModeEnglish)
	user := msgs[1].Content
	if !strings.Contains(user, "library timing") {
		t.Fatalf("matched fact missing: %q", user)
	}
	if strings.Contains(user, "hostel fee") {
		t.Fatalf("unmatched fact leaked into prompt: %q", user)
	}
}

func TestBuildMessagesTokenBudget(t *testing.T) {
	entry := kb.Entry{
		AnswerFacts: kb.Facts{
			{Key: "first", Value: "short"},
			{Key: "second", Value: strings.Repeat("word ", 500)},
		},
	}
	// With a nil encoding the budget counts words, so a tiny budget keeps
	// only the leading fact.
	msgs := buildMessages(Config{MaxPromptTokens: 10}, nil, "q", entry, "", lang.ModeEnglish)
	user := msgs[1].Content
	if !strings.Contains(user, "first: short") {
		t.Fatalf("leading fact missing: %q", user)
	}
	if strings.Contains(user, "second:") {
		t.Fatalf("oversized fact should have been trimmed: %q", user)
	}
}

func TestLanguageInstruction(t *testing.T) {
	if !strings.Contains(languageInstruction(lang.ModeMalayalam), "Malayalam script") {
		t.Fatal("malayalam instruction mismatch")
	}
	if !strings.Contains(languageInstruction(lang.ModeManglish), "Manglish") {
		t.Fatal("manglish instruction mismatch")
	}
}
