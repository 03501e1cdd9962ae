package weather

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinylittleshell/gdash/internal/dashboard"
)

const (
	// DefaultLocation is used until the user saves one.
	DefaultLocation = "New York"

	// Unavailable is stored when conditions could not be fetched.
	Unavailable = "Unavailable"
)

// Refresher writes the current conditions for the saved location to the
// dashboard's weather summary.
type Refresher struct {
	client          *Client
	board           *dashboard.Board
	logger          *zap.Logger
	defaultLocation string
}

func NewRefresher(client *Client, board *dashboard.Board, defaultLocation string, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(defaultLocation) == "" {
		defaultLocation = DefaultLocation
	}
	return &Refresher{client: client, board: board, logger: logger, defaultLocation: defaultLocation}
}

// Location is the saved location, or the default when none is saved.
func (r *Refresher) Location(ctx context.Context) string {
	loc, err := r.board.Location(ctx)
	if err != nil {
		r.logger.Warn("failed to read weather location", zap.Error(err))
	}
	if loc == "" {
		return r.defaultLocation
	}
	return loc
}

// Refresh fetches conditions and stores the summary. On failure the summary
// becomes Unavailable and the error is returned.
func (r *Refresher) Refresh(ctx context.Context) (Conditions, error) {
	location := r.Location(ctx)

	conditions, err := r.fetch(ctx, location)
	if err != nil {
		if ctx.Err() != nil {
			return Conditions{}, err
		}
		r.logger.Warn("weather refresh failed", zap.String("location", location), zap.Error(err))
		if werr := r.board.SetWeather(ctx, Unavailable); werr != nil {
			r.logger.Warn("failed to store weather summary", zap.Error(werr))
		}
		return Conditions{}, err
	}

	if err := r.board.SetWeather(ctx, conditions.Summary()); err != nil {
		return conditions, err
	}
	r.logger.Debug("weather refreshed", zap.String("location", location), zap.String("summary", conditions.Summary()))
	return conditions, nil
}

// SetLocation saves a new location and refreshes. An empty location restores
// the default.
func (r *Refresher) SetLocation(ctx context.Context, location string) (Conditions, error) {
	if err := r.board.SetLocation(ctx, strings.TrimSpace(location)); err != nil {
		return Conditions{}, err
	}
	return r.Refresh(ctx)
}

// Run refreshes immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_, _ = r.Refresh(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Refresher) fetch(ctx context.Context, location string) (Conditions, error) {
	place, err := r.client.Geocode(ctx, location)
	if err != nil {
		return Conditions{}, err
	}
	return r.client.Current(ctx, place)
}
