package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	TTS       TTSConfig       `yaml:"tts"`
	KB        KBConfig        `yaml:"kb"`
	Assistant AssistantConfig `yaml:"assistant"`
	Auth      AuthConfig      `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LLMConfig contains settings for the Perplexity-compatible chat API.
type LLMConfig struct {
	APIKey         string  `yaml:"apiKey"`
	BaseURL        string  `yaml:"baseUrl"`
	Model          string  `yaml:"model"`
	EmbeddingModel string  `yaml:"embeddingModel"`
	Temperature    float32 `yaml:"temperature"`
}

// TTSConfig contains Sarvam speech synthesis settings.
type TTSConfig struct {
	APIKey     string  `yaml:"apiKey"`
	BaseURL    string  `yaml:"baseUrl"`
	Speaker    string  `yaml:"speaker"`
	Pace       float64 `yaml:"pace"`
	Pitch      float64 `yaml:"pitch"`
	Loudness   float64 `yaml:"loudness"`
	SampleRate int     `yaml:"sampleRate"`
	// Audio caches synthesized clips in an S3-compatible bucket.
	Audio AudioConfig `yaml:"audio"`
}

// AudioConfig holds object storage settings for the audio cache.
type AudioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// KBConfig controls knowledge base sourcing.
type KBConfig struct {
	// DataFile points at the JSON entry file; empty selects the built-in
	// defaults unless Postgres is configured.
	DataFile            string         `yaml:"dataFile"`
	SemanticFallback    bool           `yaml:"semanticFallback"`
	SimilarityThreshold float64        `yaml:"similarityThreshold"`
	Postgres            PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// AssistantConfig controls answer rendering and caching.
type AssistantConfig struct {
	Prompt             string        `yaml:"prompt"`
	DefaultStyle       string        `yaml:"defaultStyle"`
	CacheTTL           time.Duration `yaml:"cacheTtl"`
	TopRecommendations int           `yaml:"topRecommendations"`
	SummaryFacts       int           `yaml:"summaryFacts"`
	MaxSuggestions     int           `yaml:"maxSuggestions"`
	MaxPromptTokens    int           `yaml:"maxPromptTokens"`
	TokenEncoding      string        `yaml:"tokenEncoding"`
	Valkey             ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the answer cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// AuthConfig drives staff authentication.
type AuthConfig struct {
	Secret              string           `yaml:"secret"`
	TokenTTL            time.Duration    `yaml:"tokenTtl"`
	RefreshTokenTTL     time.Duration    `yaml:"refreshTokenTtl"`
	AllowedEmailDomains []string         `yaml:"allowedEmailDomains"`
	AdminEmails         []string         `yaml:"adminEmails"`
	Google              GoogleAuthConfig `yaml:"google"`
}

// GoogleAuthConfig holds OAuth settings for Google sign-in.
type GoogleAuthConfig struct {
	ClientID             string `yaml:"clientId"`
	ClientSecret         string `yaml:"clientSecret"`
	RedirectURL          string `yaml:"redirectUrl"`
	TokenEncryptionKey   string `yaml:"tokenEncryptionKey"`
	PostLoginRedirectURL string `yaml:"postLoginRedirectUrl"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("TTS_API_KEY"); v != "" {
		cfg.TTS.APIKey = v
	}
	if v := os.Getenv("TTS_BASE_URL"); v != "" {
		cfg.TTS.BaseURL = v
	}
	if v := os.Getenv("TTS_SPEAKER"); v != "" {
		cfg.TTS.Speaker = v
	}
	if v := os.Getenv("AUDIO_ENDPOINT"); v != "" {
		cfg.TTS.Audio.Endpoint = v
	}
	if v := os.Getenv("AUDIO_ACCESS_KEY"); v != "" {
		cfg.TTS.Audio.AccessKey = v
	}
	if v := os.Getenv("AUDIO_SECRET_KEY"); v != "" {
		cfg.TTS.Audio.SecretKey = v
	}
	if v := os.Getenv("AUDIO_BUCKET"); v != "" {
		cfg.TTS.Audio.Bucket = v
	}
	if v := os.Getenv("KB_DATA_FILE"); v != "" {
		cfg.KB.DataFile = v
	}
	if v := os.Getenv("KB_SEMANTIC_FALLBACK"); v != "" {
		cfg.KB.SemanticFallback = isTruthy(v)
	}
	if v := os.Getenv("KB_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.KB.SimilarityThreshold = parsed
		}
	}
	if v := os.Getenv("KB_POSTGRES_DSN"); v != "" {
		cfg.KB.Postgres.DSN = v
	}
	if v := os.Getenv("KB_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.KB.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("KB_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.KB.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("ASSISTANT_PROMPT"); v != "" {
		cfg.Assistant.Prompt = v
	}
	if v := os.Getenv("ASSISTANT_DEFAULT_STYLE"); v != "" {
		cfg.Assistant.DefaultStyle = v
	}
	if v := os.Getenv("ASSISTANT_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Assistant.CacheTTL = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_MAX_PROMPT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.MaxPromptTokens = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_VALKEY_ENABLED"); v != "" {
		cfg.Assistant.Valkey.Enabled = isTruthy(v)
	}
	if v := os.Getenv("ASSISTANT_VALKEY_ADDR"); v != "" {
		cfg.Assistant.Valkey.Addr = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_ALLOWED_EMAIL_DOMAINS"); v != "" {
		cfg.Auth.AllowedEmailDomains = splitList(v)
	}
	if v := os.Getenv("AUTH_ADMIN_EMAILS"); v != "" {
		cfg.Auth.AdminEmails = splitList(v)
	}
	if v := os.Getenv("AUTH_GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.Google.ClientID = v
	}
	if v := os.Getenv("AUTH_GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Auth.Google.ClientSecret = v
	}
	if v := os.Getenv("AUTH_GOOGLE_REDIRECT_URL"); v != "" {
		cfg.Auth.Google.RedirectURL = v
	}
	if v := os.Getenv("AUTH_GOOGLE_TOKEN_ENCRYPTION_KEY"); v != "" {
		cfg.Auth.Google.TokenEncryptionKey = v
	}
	if v := os.Getenv("AUTH_GOOGLE_POST_LOGIN_REDIRECT_URL"); v != "" {
		cfg.Auth.Google.PostLoginRedirectURL = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/assistant/speak",
				},
			},
		},
		LLM: LLMConfig{
			Model:          "sonar",
			EmbeddingModel: "text-embedding-3-small",
			Temperature:    0.2,
		},
		TTS: TTSConfig{
			Speaker:    "arya",
			Pace:       1.0,
			Pitch:      0,
			Loudness:   1.0,
			SampleRate: 22050,
		},
		KB: KBConfig{
			SemanticFallback:    false,
			SimilarityThreshold: 0.7,
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
		Assistant: AssistantConfig{
			Prompt:             "You are a helpful assistant for a college. Answer using only the facts provided.",
			DefaultStyle:       "plain",
			CacheTTL:           6 * time.Hour,
			TopRecommendations: 10,
			SummaryFacts:       3,
			MaxSuggestions:     3,
			MaxPromptTokens:    1024,
			TokenEncoding:      "cl100k_base",
		},
		Auth: AuthConfig{
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Assistant.Prompt == "" {
		return errors.New("assistant.prompt cannot be empty")
	}
	if c.Assistant.CacheTTL < 0 {
		return errors.New("assistant.cacheTtl cannot be negative")
	}
	if c.Assistant.TopRecommendations < 0 {
		return errors.New("assistant.topRecommendations cannot be negative")
	}
	if c.Assistant.SummaryFacts <= 0 {
		return errors.New("assistant.summaryFacts must be positive")
	}
	if c.Assistant.MaxPromptTokens < 0 {
		return errors.New("assistant.maxPromptTokens cannot be negative")
	}
	if c.Assistant.Valkey.Enabled && strings.TrimSpace(c.Assistant.Valkey.Addr) == "" {
		return errors.New("assistant.valkey.addr cannot be empty when the valkey cache is enabled")
	}
	switch c.Assistant.DefaultStyle {
	case "plain", "llm", "voice":
	default:
		return errors.New("assistant.defaultStyle must be plain, llm, or voice")
	}
	if c.KB.SimilarityThreshold < 0 {
		return errors.New("kb.similarityThreshold must be non-negative")
	}
	if c.KB.SemanticFallback && strings.TrimSpace(c.KB.Postgres.DSN) == "" {
		return errors.New("kb.postgres.dsn is required when semantic fallback is enabled")
	}
	if strings.TrimSpace(c.LLM.EmbeddingModel) == "" {
		return errors.New("llm.embeddingModel cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
