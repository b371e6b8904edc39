package assistant

import "time"

// Config holds runtime knobs for the assistant service.
type Config struct {
	Model               string
	EmbeddingModel      string
	Temperature         float32
	Prompt              string
	DefaultStyle        ResponseStyle
	CacheTTL            time.Duration
	TopRecommendations  int
	SummaryFacts        int
	MaxSuggestions      int
	MaxPromptTokens     int
	TokenEncoding       string
	SemanticFallback    bool
	SimilarityThreshold float64
	Voice               VoiceConfig
}

// VoiceConfig carries speech synthesis defaults.
type VoiceConfig struct {
	Speaker    string
	Pace       float64
	Pitch      float64
	Loudness   float64
	SampleRate int
}
