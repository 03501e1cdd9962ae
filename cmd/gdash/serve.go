package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinylittleshell/gdash/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and assistant over HTTP",
	Long: `Starts an HTTP API for web or mobile front ends:

  POST   /api/chat          send a message to the assistant
  GET    /api/history       conversation so far
  DELETE /api/history       clear the conversation
  GET    /api/quick-prompts canned prompts for quick buttons
  GET    /api/dashboard     tasks, events, notes and weather
  POST   /api/tasks/:id/toggle  flip a task between done and pending
  DELETE /api/tasks/:id     delete a task
  DELETE /api/events/:id    delete an event
  GET    /api/events.ics    calendar export
  GET    /api/stream        server-sent change notifications
  GET    /api/weather       current weather summary and location
  POST   /api/weather       refresh weather, optionally for a new location
  GET    /healthz           liveness check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := server.New(server.Options{
		Board:        a.board,
		Assistant:    asst,
		Bus:          a.bus,
		Weather:      a.weather,
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       logger.Named("http"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(addr)
	})
	g.Go(func() error {
		err := a.weather.Run(gctx, cfg.Weather.RefreshInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
