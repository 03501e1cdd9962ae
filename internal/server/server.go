// Package server exposes the dashboard and its assistant over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/atinylittleshell/gdash/internal/assistant"
	"github.com/atinylittleshell/gdash/internal/dashboard"
	"github.com/atinylittleshell/gdash/internal/notify"
	"github.com/atinylittleshell/gdash/internal/weather"
)

// Options wires the server to the dashboard.
type Options struct {
	Board     *dashboard.Board
	Assistant *assistant.Assistant
	Bus       *notify.Bus

	// Weather is optional; without it the weather routes are not registered.
	Weather *weather.Refresher

	AllowOrigins []string
	Logger       *zap.Logger
}

// Server is the HTTP surface of the dashboard.
type Server struct {
	echo      *echo.Echo
	board     *dashboard.Board
	assistant *assistant.Assistant
	weather   *weather.Refresher
	broker    *updateBroker
	logger    *zap.Logger

	unsubscribe func()
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		board:     opts.Board,
		assistant: opts.Assistant,
		weather:   opts.Weather,
		broker:    newUpdateBroker(logger),
		logger:    logger,
	}
	if opts.Bus != nil {
		s.unsubscribe = opts.Bus.Subscribe("", s.broker.publish)
	}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Debug("request", fields...)
			return nil
		},
	}))

	s.register()
	return s
}

func (s *Server) register() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")
	api.POST("/chat", s.handleChat)
	api.GET("/history", s.handleHistory)
	api.DELETE("/history", s.handleClearHistory)
	api.GET("/quick-prompts", s.handleQuickPrompts)
	api.GET("/dashboard", s.handleDashboard)
	api.POST("/tasks/:id/toggle", s.handleToggleTask)
	api.DELETE("/tasks/:id", s.handleRemoveTask)
	api.DELETE("/events/:id", s.handleRemoveEvent)
	api.GET("/events.ics", s.handleEventsICS)
	api.GET("/stream", s.handleStream)
	if s.weather != nil {
		api.GET("/weather", s.handleWeatherSummary)
		api.POST("/weather", s.handleWeather)
	}
}

// Handler returns the HTTP handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and detaches from the bus.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	return s.echo.Shutdown(ctx)
}
