package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/atinylittleshell/gdash/internal/assistant"
	"github.com/atinylittleshell/gdash/internal/config"
	"github.com/atinylittleshell/gdash/internal/core"
	"github.com/atinylittleshell/gdash/internal/dashboard"
	"github.com/atinylittleshell/gdash/internal/notify"
	"github.com/atinylittleshell/gdash/internal/store"
	"github.com/atinylittleshell/gdash/internal/weather"
)

var errNoAPIKey = errors.New("no OpenAI API key configured; set OPENAI_API_KEY or openai.api_key in the config file")

// app holds the components shared by every command.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	store   store.Store
	bus     *notify.Bus
	board   *dashboard.Board
	weather *weather.Refresher
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	s, err := store.Open(cfg.StoreOptions(core.StoreFile()))
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", zap.String("backend", cfg.Store.Backend))

	bus := notify.NewBus()
	board := dashboard.NewBoard(s, bus, logger.Named("dashboard"))
	refresher := weather.NewRefresher(
		weather.NewClient(weather.ClientConfig{}),
		board,
		cfg.Weather.Location,
		logger.Named("weather"),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   s,
		bus:     bus,
		board:   board,
		weather: refresher,
	}, nil
}

// newAssistant builds the assistant. It fails when no API key is configured.
func (a *app) newAssistant() (*assistant.Assistant, error) {
	if a.cfg.OpenAI.APIKey == "" {
		return nil, errNoAPIKey
	}
	provider, err := assistant.NewOpenAIProvider(a.cfg.ProviderConfig())
	if err != nil {
		return nil, err
	}
	executor := assistant.NewExecutor(a.board, a.bus, a.logger.Named("executor"))
	return assistant.New(a.board, provider, executor, a.logger.Named("assistant")), nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
}
