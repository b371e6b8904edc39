package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/akhilvs/sarvajna/internal/domain/kb"
	"github.com/akhilvs/sarvajna/internal/infra/llm/perplexity"
)

type stubSource struct {
	entries  []kb.Entry
	reloads  int
	failLoad bool
}

func (s *stubSource) Entries(ctx context.Context) ([]kb.Entry, error) {
	if s.failLoad {
		return nil, errors.New("load failed")
	}
	return s.entries, nil
}

func (s *stubSource) Reload(ctx context.Context) error {
	s.reloads++
	return nil
}

type stubStore struct {
	answers    map[string]AnswerRecord
	counts     map[string]int64
	topQueries []TrendingQuery
}

func newStubStore() *stubStore {
	return &stubStore{
		answers: make(map[string]AnswerRecord),
		counts:  make(map[string]int64),
	}
}

func (s *stubStore) GetAnswer(ctx context.Context, cacheKey string) (AnswerRecord, bool, error) {
	rec, ok := s.answers[cacheKey]
	return rec, ok, nil
}

func (s *stubStore) SaveAnswer(ctx context.Context, record AnswerRecord, ttl time.Duration) error {
	s.answers[record.CacheKey] = record
	return nil
}

func (s *stubStore) IncrementQuery(ctx context.Context, canonical, display string) error {
	s.counts[canonical]++
	return nil
}

func (s *stubStore) TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error) {
	return s.topQueries, nil
}

type stubChat struct {
	reply string
	calls int
	err   error
}

func (c *stubChat) CreateChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (perplexity.ChatCompletionResponse, error) {
	c.calls++
	if c.err != nil {
		return perplexity.ChatCompletionResponse{}, c.err
	}
	var resp perplexity.ChatCompletionResponse
	resp.Choices = []struct {
		Message perplexity.Message `json:"message"`
	}{{Message: perplexity.Message{Role: "assistant", Content: c.reply}}}
	resp.Usage = perplexity.Usage{PromptTokens: 40, CompletionTokens: 20, TotalTokens: 60}
	return resp, nil
}

func (c *stubChat) CreateEmbedding(ctx context.Context, req perplexity.EmbeddingRequest) (perplexity.EmbeddingResponse, error) {
	return perplexity.EmbeddingResponse{}, errors.New("embeddings disabled")
}

type stubSpeech struct {
	calls int
}

func (s *stubSpeech) Synthesize(ctx context.Context, req SpeechRequest) (SpeechResult, error) {
	s.calls++
	return SpeechResult{Audio: []byte("audio-bytes"), MimeType: "audio/mpeg"}, nil
}

type stubAudio struct {
	data map[string][]byte
}

func newStubAudio() *stubAudio {
	return &stubAudio{data: make(map[string][]byte)}
}

func (s *stubAudio) Get(ctx context.Context, key string) ([]byte, string, bool, error) {
	d, ok := s.data[key]
	return d, "audio/mpeg", ok, nil
}

func (s *stubAudio) Put(ctx context.Context, key string, data []byte, mimeType string) error {
	s.data[key] = data
	return nil
}

type englishDetector struct{}

func (englishDetector) IsEnglish(text string) bool { return true }

type upperTranslit struct{}

func (upperTranslit) ToLatin(text string) string { return "translit:" + text }

func testEntries() []kb.Entry {
	return []kb.Entry{
		{
			ID:               "college",
			QuestionPatterns: []string{"library hours", "when does the library open"},
			Tags:             []string{"library", "timing"},
			AnswerFacts: kb.Facts{
				{Key: "library_timing", Value: "9 AM to 5 PM"},
				{Key: "library_books", Value: "over 20000 books"},
			},
		},
	}
}

func newTestService(source EntrySource, store Store, chat ChatClient, speech SpeechClient, audio AudioStore) Service {
	cfg := Config{
		Model:              "sonar",
		Temperature:        0.2,
		DefaultStyle:       StylePlain,
		CacheTTL:           time.Minute,
		TopRecommendations: 3,
		SummaryFacts:       3,
		MaxSuggestions:     3,
		Voice:              VoiceConfig{Speaker: "arya", Pace: 1.0, SampleRate: 22050},
	}
	logger := slog.New(slog.DiscardHandler)
	return NewService(cfg, source, store, chat, speech, audio, englishDetector{}, upperTranslit{}, logger)
}

func TestAnswerPlainFact(t *testing.T) {
	store := newStubStore()
	svc := newTestService(&stubSource{entries: testEntries()}, store, &stubChat{}, &stubSpeech{}, newStubAudio())

	resp, err := svc.Answer(context.Background(), Request{Question: "library hours please"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "library timing: 9 AM to 5 PM" {
		t.Fatalf("unexpected answer %q", resp.Answer)
	}
	if resp.Source != "kb" {
		t.Fatalf("expected source kb, got %q", resp.Source)
	}
	if resp.EntryID != "college" || resp.FactKey != "library_timing" {
		t.Fatalf("unexpected match metadata: %+v", resp)
	}
	if store.counts["library hours please"] != 1 {
		t.Fatalf("expected trending increment, got %v", store.counts)
	}
}

func TestAnswerUsesCache(t *testing.T) {
	store := newStubStore()
	svc := newTestService(&stubSource{entries: testEntries()}, store, &stubChat{}, &stubSpeech{}, newStubAudio())

	first, err := svc.Answer(context.Background(), Request{Question: "library hours"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Answer(context.Background(), Request{Question: "library hours"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Source != "cache" {
		t.Fatalf("expected cached source, got %q", second.Source)
	}
	if second.Answer != first.Answer {
		t.Fatalf("cache returned different answer: %q vs %q", second.Answer, first.Answer)
	}
}

func TestAnswerNotFoundSuggests(t *testing.T) {
	svc := newTestService(&stubSource{entries: testEntries()}, newStubStore(), &stubChat{}, &stubSpeech{}, newStubAudio())

	resp, err := svc.Answer(context.Background(), Request{Question: "zzzz qqqq"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Source != "none" {
		t.Fatalf("expected source none, got %q", resp.Source)
	}
	if !strings.HasPrefix(resp.Answer, "Sorry") {
		t.Fatalf("expected apology, got %q", resp.Answer)
	}
}

func TestAnswerEmptyQuestion(t *testing.T) {
	svc := newTestService(&stubSource{entries: testEntries()}, newStubStore(), &stubChat{}, &stubSpeech{}, newStubAudio())

	if _, err := svc.Answer(context.Background(), Request{Question: "   "}); err == nil {
		t.Fatal("expected invalid input error")
	}
}

func TestAnswerLLMStyle(t *testing.T) {
	chat := &stubChat{reply: "The library is open from 9 AM to 5 PM."}
	svc := newTestService(&stubSource{entries: testEntries()}, newStubStore(), chat, &stubSpeech{}, newStubAudio())

	resp, err := svc.Answer(context.Background(), Request{Question: "library hours", Style: StyleLLM})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chat.calls != 1 {
		t.Fatalf("expected one completion call, got %d", chat.calls)
	}
	if resp.Answer != chat.reply {
		t.Fatalf("unexpected answer %q", resp.Answer)
	}
	if resp.TokenUsage == nil || resp.TokenUsage.TotalTokens != 60 {
		t.Fatalf("expected token usage, got %+v", resp.TokenUsage)
	}
}

func TestAnswerLLMFailure(t *testing.T) {
	chat := &stubChat{err: errors.New("upstream down")}
	svc := newTestService(&stubSource{entries: testEntries()}, newStubStore(), chat, &stubSpeech{}, newStubAudio())

	if _, err := svc.Answer(context.Background(), Request{Question: "library hours", Style: StyleLLM}); err == nil {
		t.Fatal("expected llm error")
	}
}

func TestSpeakSynthesizesAndCaches(t *testing.T) {
	speech := &stubSpeech{}
	audio := newStubAudio()
	svc := newTestService(&stubSource{entries: testEntries()}, newStubStore(), &stubChat{}, speech, audio)

	first, err := svc.Speak(context.Background(), VoiceRequest{Request: Request{Question: "library hours"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.AudioBase64 == "" || first.MimeType != "audio/mpeg" {
		t.Fatalf("expected audio payload, got %+v", first)
	}
	if first.Style != StyleVoice {
		t.Fatalf("expected voice style, got %q", first.Style)
	}

	second, err := svc.Speak(context.Background(), VoiceRequest{Request: Request{Question: "library hours"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if speech.calls != 1 {
		t.Fatalf("expected audio cache hit, synthesize called %d times", speech.calls)
	}
	if second.AudioKey != first.AudioKey {
		t.Fatalf("audio keys differ: %q vs %q", second.AudioKey, first.AudioKey)
	}
}

func TestListEntries(t *testing.T) {
	source := &stubSource{entries: testEntries()}
	svc := newTestService(source, newStubStore(), &stubChat{}, &stubSpeech{}, newStubAudio())

	entries, err := svc.ListEntries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != len(testEntries()) {
		t.Fatalf("expected %d entries, got %d", len(testEntries()), len(entries))
	}
}

func TestReloadEntries(t *testing.T) {
	source := &stubSource{entries: testEntries()}
	svc := newTestService(source, newStubStore(), &stubChat{}, &stubSpeech{}, newStubAudio())

	if err := svc.ReloadEntries(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.reloads != 1 {
		t.Fatalf("expected one reload, got %d", source.reloads)
	}
}
