package assistant

import (
	"time"

	"github.com/akhilvs/sarvajna/internal/domain/lang"
	"github.com/akhilvs/sarvajna/pkg/metrics"
)

// ResponseStyle selects how a matched answer is rendered.
type ResponseStyle string

const (
	// StylePlain returns the raw fact, labelled with its key.
	StylePlain ResponseStyle = "plain"
	// StyleLLM rephrases the matched facts with the language model.
	StyleLLM ResponseStyle = "llm"
	// StyleVoice produces a short spoken-friendly sentence.
	StyleVoice ResponseStyle = "voice"
)

// Request encapsulates an assistant question.
type Request struct {
	Question string        `json:"question"`
	Style    ResponseStyle `json:"style"`
}

// VoiceRequest extends Request with speech synthesis knobs.
type VoiceRequest struct {
	Request
	Speaker string `json:"speaker"`
}

// Response is returned to the HTTP transport.
type Response struct {
	Question        string              `json:"question"`
	Answer          string              `json:"answer"`
	Source          string              `json:"source"`
	Style           ResponseStyle       `json:"style"`
	Language        lang.Mode           `json:"language"`
	EntryID         string              `json:"entryId,omitempty"`
	FactKey         string              `json:"factKey,omitempty"`
	Suggestions     []string            `json:"suggestions,omitempty"`
	Recommendations []TrendingQuery     `json:"recommendations"`
	DurationMs      int64               `json:"durationMs,omitempty"`
	TokenUsage      *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// VoiceResponse carries the synthesized audio alongside the text answer.
type VoiceResponse struct {
	Response
	AudioBase64 string `json:"audioBase64"`
	AudioKey    string `json:"audioKey"`
	MimeType    string `json:"mimeType"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// AnswerRecord captures the payload persisted in the KV cache.
type AnswerRecord struct {
	CacheKey  string    `json:"cacheKey"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}
