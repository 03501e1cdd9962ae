package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/atinylittleshell/gdash/internal/assistant"
	"github.com/atinylittleshell/gdash/internal/dashboard"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    string   `json:"reply"`
	Outcomes []string `json:"outcomes"`
	Error    string   `json:"error,omitempty"`
}

type dashboardResponse struct {
	dashboard.Snapshot
	Pending  []dashboard.Task  `json:"pending"`
	Upcoming []dashboard.Event `json:"upcoming"`
	Summary  string            `json:"context"`
}

type weatherRequest struct {
	Location string `json:"location"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reply, err := s.assistant.Ask(c.Request().Context(), req.Message)
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, assistant.ErrBusy):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return err
	}

	resp := chatResponse{Reply: reply.Text, Outcomes: reply.Outcomes}
	if resp.Outcomes == nil {
		resp.Outcomes = []string{}
	}
	if reply.Err != nil {
		resp.Error = reply.Err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHistory(c echo.Context) error {
	msgs, err := s.assistant.History(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

func (s *Server) handleClearHistory(c echo.Context) error {
	msgs, err := s.assistant.Clear(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

func (s *Server) handleQuickPrompts(c echo.Context) error {
	return c.JSON(http.StatusOK, assistant.QuickPrompts())
}

func (s *Server) handleDashboard(c echo.Context) error {
	snap := s.board.Snapshot(c.Request().Context())
	return c.JSON(http.StatusOK, dashboardResponse{
		Snapshot: snap,
		Pending:  snap.Pending(),
		Upcoming: snap.Upcoming(),
		Summary:  snap.Context(),
	})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// boardError maps board sentinel errors to HTTP errors.
func boardError(err error) error {
	if errors.Is(err, dashboard.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return err
}

func (s *Server) handleToggleTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	task, err := s.board.ToggleTask(c.Request().Context(), id)
	if err != nil {
		return boardError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleRemoveTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	task, err := s.board.RemoveTask(c.Request().Context(), id)
	if err != nil {
		return boardError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleRemoveEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	event, err := s.board.RemoveEvent(c.Request().Context(), id)
	if err != nil {
		return boardError(err)
	}
	return c.JSON(http.StatusOK, event)
}

func (s *Server) handleEventsICS(c echo.Context) error {
	snap := s.board.Snapshot(c.Request().Context())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="gdash-events.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(dashboard.EventsICS(snap.Events, snap.Now)))
}

func (s *Server) handleWeatherSummary(c echo.Context) error {
	ctx := c.Request().Context()
	summary, err := s.board.Weather(ctx)
	if err != nil {
		return err
	}
	location := s.weather.Location(ctx)
	return c.JSON(http.StatusOK, map[string]string{"weather": summary, "location": location})
}

func (s *Server) handleWeather(c echo.Context) error {
	var req weatherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	var err error
	if strings.TrimSpace(req.Location) != "" {
		_, err = s.weather.SetLocation(ctx, req.Location)
	} else {
		_, err = s.weather.Refresh(ctx)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	summary, err := s.board.Weather(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"weather": summary})
}

// handleStream sends every bus broadcast as a server-sent event until the
// client disconnects.
func (s *Server) handleStream(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "stream unsupported")
	}

	ctx := c.Request().Context()
	ch := s.broker.subscribe()
	defer s.broker.unsubscribe(ch)

	c.Response().WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(c.Response(), ": connected\n\n"); err != nil {
		return nil
	}
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-ch:
			if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", f.topic, f.data); err != nil {
				s.logger.Debug("stream client went away", zap.Error(err))
				return nil
			}
			flusher.Flush()
		}
	}
}
