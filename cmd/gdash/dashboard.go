package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinylittleshell/gdash/internal/tui"
)

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	asst, err := a.newAssistant()
	if err != nil {
		return err
	}

	weatherCtx, stopWeather := context.WithCancel(ctx)
	weatherDone := make(chan struct{})
	go func() {
		defer close(weatherDone)
		if err := a.weather.Run(weatherCtx, cfg.Weather.RefreshInterval); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("weather refresher stopped", zap.Error(err))
		}
	}()

	err = tui.Run(ctx, tui.Options{
		Board:     a.board,
		Assistant: asst,
		Bus:       a.bus,
		Weather:   a.weather,
		Logger:    logger.Named("tui"),
	})

	// the store closes after this returns
	stopWeather()
	<-weatherDone
	return err
}
