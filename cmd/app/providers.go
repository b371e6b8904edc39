package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
	"github.com/akhilvs/sarvajna/internal/domain/auth"
	"github.com/akhilvs/sarvajna/internal/domain/lang"
	"github.com/akhilvs/sarvajna/internal/infra/answercache"
	"github.com/akhilvs/sarvajna/internal/infra/audiostore"
	"github.com/akhilvs/sarvajna/internal/infra/authrepo"
	"github.com/akhilvs/sarvajna/internal/infra/config"
	"github.com/akhilvs/sarvajna/internal/infra/kbrepo"
	"github.com/akhilvs/sarvajna/internal/infra/langdetect"
	"github.com/akhilvs/sarvajna/internal/infra/llm/perplexity"
	"github.com/akhilvs/sarvajna/internal/infra/translit"
	"github.com/akhilvs/sarvajna/internal/infra/tts/sarvam"
	apperrors "github.com/akhilvs/sarvajna/pkg/errors"
)

func provideAssistantConfig(cfg *config.Config) assistant.Config {
	return assistant.Config{
		Model:               cfg.LLM.Model,
		EmbeddingModel:      cfg.LLM.EmbeddingModel,
		Temperature:         cfg.LLM.Temperature,
		Prompt:              cfg.Assistant.Prompt,
		DefaultStyle:        assistant.ResponseStyle(cfg.Assistant.DefaultStyle),
		CacheTTL:            cfg.Assistant.CacheTTL,
		TopRecommendations:  cfg.Assistant.TopRecommendations,
		SummaryFacts:        cfg.Assistant.SummaryFacts,
		MaxSuggestions:      cfg.Assistant.MaxSuggestions,
		MaxPromptTokens:     cfg.Assistant.MaxPromptTokens,
		TokenEncoding:       cfg.Assistant.TokenEncoding,
		SemanticFallback:    cfg.KB.SemanticFallback,
		SimilarityThreshold: cfg.KB.SimilarityThreshold,
		Voice: assistant.VoiceConfig{
			Speaker:    cfg.TTS.Speaker,
			Pace:       cfg.TTS.Pace,
			Pitch:      cfg.TTS.Pitch,
			Loudness:   cfg.TTS.Loudness,
			SampleRate: cfg.TTS.SampleRate,
		},
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:              cfg.Auth.Secret,
		TokenTTL:            cfg.Auth.TokenTTL,
		RefreshTokenTTL:     cfg.Auth.RefreshTokenTTL,
		AllowedEmailDomains: cfg.Auth.AllowedEmailDomains,
		AdminEmails:         cfg.Auth.AdminEmails,
		Google: auth.GoogleConfig{
			ClientID:             cfg.Auth.Google.ClientID,
			ClientSecret:         cfg.Auth.Google.ClientSecret,
			RedirectURL:          cfg.Auth.Google.RedirectURL,
			TokenEncryptionKey:   cfg.Auth.Google.TokenEncryptionKey,
			PostLoginRedirectURL: cfg.Auth.Google.PostLoginRedirectURL,
		},
	}
}

func providePerplexityClient(cfg *config.Config) (*perplexity.Client, error) {
	return perplexity.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

// providePgxPool opens the shared Postgres pool. A missing DSN is not an
// error; callers fall back to their in-memory implementations.
func providePgxPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.KB.Postgres.DSN)
	if dsn == "" {
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, falling back to in-memory stores", "error", err)
		return nil
	}
	if cfg.KB.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.KB.Postgres.MaxConns
	}
	if cfg.KB.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.KB.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, falling back to in-memory stores", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, falling back to in-memory stores", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

func provideEntrySource(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (assistant.EntrySource, error) {
	if pool != nil {
		logger.Info("knowledge base postgres source enabled")
		return kbrepo.NewPostgresSource(pool), nil
	}
	source, err := kbrepo.NewFileSource(cfg.KB.DataFile)
	if err != nil {
		return nil, err
	}
	if cfg.KB.DataFile == "" {
		logger.Info("knowledge base using built-in entries")
	} else {
		logger.Info("knowledge base file source enabled", "path", cfg.KB.DataFile)
	}
	return source, nil
}

func provideAnswerStore(cfg *config.Config, logger *slog.Logger) assistant.Store {
	if cfg.Assistant.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return answercache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return answercache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("assistant valkey cache enabled", "addr", cfg.Assistant.Valkey.Addr)
			return answercache.NewValkeyStore(client, "assistant")
		}
	}
	return answercache.NewMemoryStore()
}

func provideSpeechClient(cfg *config.Config, logger *slog.Logger) assistant.SpeechClient {
	if strings.TrimSpace(cfg.TTS.APIKey) == "" {
		logger.Info("tts api key not set, speech synthesis disabled")
		return disabledSpeech{}
	}
	client, err := sarvam.NewClient(cfg.TTS.APIKey, cfg.TTS.BaseURL)
	if err != nil {
		logger.Error("failed to create tts client, speech synthesis disabled", "error", err)
		return disabledSpeech{}
	}
	return client
}

func provideAudioStore(cfg *config.Config, logger *slog.Logger) assistant.AudioStore {
	audio := cfg.TTS.Audio
	if strings.TrimSpace(audio.Endpoint) == "" || strings.TrimSpace(audio.Bucket) == "" {
		return audiostore.NewMemoryStore()
	}
	store, err := audiostore.NewObjectStore(audio.Endpoint, audio.AccessKey, audio.SecretKey, audio.Bucket, audio.Region, logger)
	if err != nil {
		logger.Error("failed to initialize audio object store, falling back to memory store", "error", err)
		return audiostore.NewMemoryStore()
	}
	logger.Info("audio object store enabled", "bucket", audio.Bucket)
	return store
}

func provideDetector() lang.Detector {
	return langdetect.NewLinguaDetector()
}

func provideTransliterator() lang.Transliterator {
	return translit.NewTransliterator()
}

func provideAuthRepository(pool *pgxpool.Pool, logger *slog.Logger) auth.Repository {
	if pool != nil {
		logger.Info("auth postgres repository enabled")
		return authrepo.NewPostgresRepository(pool)
	}
	return authrepo.NewMemoryRepository()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Assistant.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Assistant.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Assistant.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// disabledSpeech stands in when no TTS key is configured.
type disabledSpeech struct{}

func (disabledSpeech) Synthesize(_ context.Context, _ assistant.SpeechRequest) (assistant.SpeechResult, error) {
	return assistant.SpeechResult{}, apperrors.Wrap("tts_error", "speech synthesis is not configured", nil)
}
