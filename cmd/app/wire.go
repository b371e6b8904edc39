//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/akhilvs/sarvajna/internal/bootstrap"
	"github.com/akhilvs/sarvajna/internal/domain/assistant"
	"github.com/akhilvs/sarvajna/internal/domain/auth"
	"github.com/akhilvs/sarvajna/internal/infra/config"
	"github.com/akhilvs/sarvajna/internal/infra/llm/perplexity"
	httpiface "github.com/akhilvs/sarvajna/internal/interface/http"
	"github.com/akhilvs/sarvajna/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAssistantConfig,
		provideAuthConfig,
		providePerplexityClient,
		providePgxPool,
		provideEntrySource,
		provideAnswerStore,
		provideSpeechClient,
		provideAudioStore,
		provideDetector,
		provideTransliterator,
		provideAuthRepository,
		assistant.NewService,
		auth.NewService,
		wire.Bind(new(assistant.ChatClient), new(*perplexity.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
