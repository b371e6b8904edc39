package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/akhilvs/sarvajna/internal/domain/kb"
	"github.com/akhilvs/sarvajna/internal/domain/lang"
	"github.com/akhilvs/sarvajna/internal/infra/llm/perplexity"
	apperrors "github.com/akhilvs/sarvajna/pkg/errors"
	"github.com/akhilvs/sarvajna/pkg/metrics"
	"github.com/akhilvs/sarvajna/pkg/util"
)

// Service exposes the assistant capabilities.
type Service interface {
	Answer(ctx context.Context, req Request) (Response, error)
	Speak(ctx context.Context, req VoiceRequest) (VoiceResponse, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	ListEntries(ctx context.Context) ([]kb.Entry, error)
	ReloadEntries(ctx context.Context) error
	SaveEntry(ctx context.Context, entry kb.Entry) error
}

// ChatClient is the LLM surface the assistant depends on.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (perplexity.ChatCompletionResponse, error)
	CreateEmbedding(ctx context.Context, req perplexity.EmbeddingRequest) (perplexity.EmbeddingResponse, error)
}

type service struct {
	cfg      Config
	source   EntrySource
	store    Store
	client   ChatClient
	speech   SpeechClient
	audio    AudioStore
	detector lang.Detector
	translit lang.Transliterator
	logger   *slog.Logger
	enc      *tiktoken.Tiktoken
}

// NewService wires up the assistant domain. The token encoding is loaded
// eagerly; a missing encoding degrades token budgeting to a word count
// instead of failing startup.
func NewService(cfg Config, source EntrySource, store Store, client ChatClient, speech SpeechClient, audio AudioStore, detector lang.Detector, translit lang.Transliterator, logger *slog.Logger) Service {
	log := logger.With("component", "assistant.service")
	encoding := cfg.TokenEncoding
	if encoding == "" {
		encoding = defaultTokenEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		log.Warn("token encoding unavailable", "encoding", encoding, "error", err)
		enc = nil
	}
	return &service{
		cfg:      cfg,
		source:   source,
		store:    store,
		client:   client,
		speech:   speech,
		audio:    audio,
		detector: detector,
		translit: translit,
		logger:   log,
		enc:      enc,
	}
}

func (s *service) Answer(ctx context.Context, req Request) (Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}

	style := sanitizeStyle(req.Style, s.cfg.DefaultStyle)
	mode := lang.DetectMode(question, s.detector)
	started := util.NowUTC()

	entries, err := s.source.Entries(ctx)
	if err != nil {
		return Response{}, apperrors.Wrap("kb_error", "failed to load knowledge base", err)
	}

	entry, found := kb.FindEntry(question, entries)
	source := "kb"

	if !found && s.cfg.SemanticFallback {
		entry, found, err = s.semanticLookup(ctx, question)
		if err != nil {
			s.logger.Warn("semantic fallback failed", "error", err)
		} else if found {
			source = "semantic"
		}
	}

	resp := Response{
		Question: question,
		Style:    style,
		Language: mode,
	}

	if !found {
		resp.Answer = notFoundMessage(mode)
		resp.Source = "none"
		resp.Suggestions = kb.Suggestions(question, entries, s.cfg.MaxSuggestions)
	} else {
		value, factKey, hasFact := kb.ExtractFact(question, entry)
		resp.EntryID = entry.ID
		resp.FactKey = factKey

		cacheKey := answerCacheKey(entry.ID, style, mode, factKey)
		cached, ok, err := s.store.GetAnswer(ctx, cacheKey)
		if err != nil {
			s.logger.Warn("answer cache lookup failed", "error", err)
		}
		if ok {
			resp.Answer = cached.Answer
			resp.Source = "cache"
		} else {
			answer, usage, renderErr := s.renderAnswer(ctx, style, mode, question, entry, value, factKey, hasFact)
			if renderErr != nil {
				return Response{}, renderErr
			}
			resp.Answer = answer
			resp.Source = source
			resp.TokenUsage = usage
			s.cacheAnswer(ctx, cacheKey, question, answer, source)
		}
	}

	canonical := kb.Normalize(question)
	if err := s.store.IncrementQuery(ctx, canonical, question); err != nil {
		s.logger.Warn("trending increment failed", "error", err)
	}
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		s.logger.Warn("trending fetch failed", "error", err)
		recs = nil
	}
	resp.Recommendations = recs
	resp.DurationMs = time.Since(started).Milliseconds()
	return resp, nil
}

func (s *service) Speak(ctx context.Context, req VoiceRequest) (VoiceResponse, error) {
	base := req.Request
	if base.Style == "" {
		base.Style = StyleVoice
	}
	answer, err := s.Answer(ctx, base)
	if err != nil {
		return VoiceResponse{}, err
	}

	speaker := strings.TrimSpace(req.Speaker)
	if speaker == "" {
		speaker = s.cfg.Voice.Speaker
	}
	language := speechLanguage(answer.Language)
	key := audioKey(answer.Answer, language, speaker)

	if data, mimeType, ok, err := s.audio.Get(ctx, key); err != nil {
		s.logger.Warn("audio cache lookup failed", "error", err)
	} else if ok {
		return voiceResponse(answer, key, data, mimeType), nil
	}

	result, err := s.speech.Synthesize(ctx, SpeechRequest{
		Text:       answer.Answer,
		Language:   language,
		Speaker:    speaker,
		Pace:       s.cfg.Voice.Pace,
		Pitch:      s.cfg.Voice.Pitch,
		Loudness:   s.cfg.Voice.Loudness,
		SampleRate: s.cfg.Voice.SampleRate,
	})
	if err != nil {
		return VoiceResponse{}, apperrors.Wrap("tts_error", "speech synthesis failed", err)
	}
	if err := s.audio.Put(ctx, key, result.Audio, result.MimeType); err != nil {
		s.logger.Warn("audio cache save failed", "error", err)
	}
	return voiceResponse(answer, key, result.Audio, result.MimeType), nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap("kb_error", "failed to load trending queries", err)
	}
	return recs, nil
}

func (s *service) ListEntries(ctx context.Context) ([]kb.Entry, error) {
	entries, err := s.source.Entries(ctx)
	if err != nil {
		return nil, apperrors.Wrap("kb_error", "failed to load knowledge base", err)
	}
	return entries, nil
}

func (s *service) ReloadEntries(ctx context.Context) error {
	if err := s.source.Reload(ctx); err != nil {
		return apperrors.Wrap("kb_error", "knowledge base reload failed", err)
	}
	return nil
}

func (s *service) SaveEntry(ctx context.Context, entry kb.Entry) error {
	if strings.TrimSpace(entry.ID) == "" {
		return apperrors.Wrap("invalid_input", "entry id cannot be empty", nil)
	}
	writer, ok := s.source.(EntryWriter)
	if !ok {
		return apperrors.Wrap("kb_error", "entry source is read only", nil)
	}
	if err := writer.UpsertEntry(ctx, entry); err != nil {
		return apperrors.Wrap("kb_error", "entry save failed", err)
	}
	return nil
}

func (s *service) renderAnswer(ctx context.Context, style ResponseStyle, mode lang.Mode, question string, entry kb.Entry, value, factKey string, hasFact bool) (string, *metrics.TokenUsage, error) {
	switch style {
	case StyleLLM:
		return s.phraseWithLLM(ctx, question, entry, factKey, mode)
	case StyleVoice:
		var answer string
		if hasFact {
			answer = renderVoiceFact(value)
		} else {
			answer = renderSummary(mode, entry, s.cfg.SummaryFacts)
		}
		if mode == lang.ModeManglish && s.translit != nil && lang.ContainsMalayalam(answer) {
			answer = s.translit.ToLatin(answer)
		}
		return answer, nil, nil
	default:
		if hasFact {
			return renderFact(factKey, value), nil, nil
		}
		return renderSummary(mode, entry, s.cfg.SummaryFacts), nil, nil
	}
}

func (s *service) phraseWithLLM(ctx context.Context, question string, entry kb.Entry, factKey string, mode lang.Mode) (string, *metrics.TokenUsage, error) {
	messages := buildMessages(s.cfg, s.enc, question, entry, factKey, mode)
	resp, err := s.client.CreateChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", nil, apperrors.Wrap("llm_error", "completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, apperrors.Wrap("llm_error", "completion returned no choices", errors.New("empty choices"))
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", nil, apperrors.Wrap("llm_error", "completion response empty", nil)
	}
	if mode == lang.ModeManglish && s.translit != nil && lang.ContainsMalayalam(answer) {
		answer = s.translit.ToLatin(answer)
	}
	var usage *metrics.TokenUsage
	if resp.Usage.TotalTokens > 0 {
		usage = &metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return answer, usage, nil
}

func (s *service) semanticLookup(ctx context.Context, question string) (kb.Entry, bool, error) {
	searcher, ok := s.source.(VectorSearcher)
	if !ok {
		return kb.Entry{}, false, nil
	}
	embResp, err := s.client.CreateEmbedding(ctx, perplexity.EmbeddingRequest{
		Model: s.cfg.EmbeddingModel,
		Input: question,
	})
	if err != nil {
		return kb.Entry{}, false, err
	}
	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return kb.Entry{}, false, errors.New("embedding response empty")
	}
	entry, distance, found, err := searcher.NearestEntry(ctx, embResp.Data[0].Embedding)
	if err != nil {
		return kb.Entry{}, false, err
	}
	if !found || distance > s.cfg.SimilarityThreshold {
		return kb.Entry{}, false, nil
	}
	return entry, true, nil
}

func (s *service) cacheAnswer(ctx context.Context, cacheKey, question, answer, source string) {
	record := AnswerRecord{
		CacheKey:  cacheKey,
		Question:  question,
		Answer:    answer,
		Source:    source,
		CreatedAt: util.NowUTC(),
	}
	if err := s.store.SaveAnswer(ctx, record, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("answer cache save failed", "error", err)
	}
}

func answerCacheKey(entryID string, style ResponseStyle, mode lang.Mode, factKey string) string {
	if factKey == "" {
		factKey = "summary"
	}
	return fmt.Sprintf("%s|%s|%s|%s", entryID, style, mode, factKey)
}

func speechLanguage(mode lang.Mode) string {
	if mode == lang.ModeEnglish {
		return "en-IN"
	}
	return "ml-IN"
}

func audioKey(answer, language, speaker string) string {
	sum := sha256.Sum256([]byte(answer + "|" + language + "|" + speaker))
	return hex.EncodeToString(sum[:])
}

func voiceResponse(answer Response, key string, data []byte, mimeType string) VoiceResponse {
	return VoiceResponse{
		Response:    answer,
		AudioBase64: base64.StdEncoding.EncodeToString(data),
		AudioKey:    key,
		MimeType:    mimeType,
	}
}
