package answercache

import (
	"context"
	"testing"
	"time"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
)

func TestMemoryStoreAnswerRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := assistant.AnswerRecord{
		CacheKey:  "library|plain|en|library_timing",
		Question:  "library hours",
		Answer:    "library timing: 9 to 5",
		Source:    "kb",
		CreatedAt: time.Now(),
	}
	if err := store.SaveAnswer(ctx, record, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := store.GetAnswer(ctx, record.CacheKey)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Answer != record.Answer {
		t.Fatalf("unexpected answer %q", got.Answer)
	}

	if _, ok, _ := store.GetAnswer(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := assistant.AnswerRecord{CacheKey: "k", Answer: "a"}
	if err := store.SaveAnswer(ctx, record, time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := store.GetAnswer(ctx, "k"); ok {
		t.Fatal("expected expired record to be evicted")
	}
}

func TestMemoryStoreTrendingOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = store.IncrementQuery(ctx, "library hours", "Library Hours")
	}
	_ = store.IncrementQuery(ctx, "hostel fee", "Hostel Fee")

	top, err := store.TopQueries(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected two queries, got %d", len(top))
	}
	if top[0].Query != "Library Hours" || top[0].Count != 3 {
		t.Fatalf("unexpected leader %+v", top[0])
	}
}

func TestMemoryStoreTrendingKeepsFirstDisplay(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.IncrementQuery(ctx, "library hours", "library hours?")
	_ = store.IncrementQuery(ctx, "library hours", "LIBRARY HOURS")

	top, _ := store.TopQueries(ctx, 1)
	if len(top) != 1 || top[0].Query != "library hours?" {
		t.Fatalf("expected first display string, got %+v", top)
	}
}
