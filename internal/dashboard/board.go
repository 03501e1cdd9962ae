package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinylittleshell/gdash/internal/notify"
	"github.com/atinylittleshell/gdash/internal/store"
)

// timeNow is a variable that can be overridden for testing.
var timeNow = time.Now

// Board is the typed view over the dashboard store. Every mutation writes the
// whole value back and then publishes notify.TopicDashboardUpdate.
type Board struct {
	store    store.Store
	notifier notify.Notifier
	logger   *zap.Logger

	// mu serializes read-modify-write cycles. It is never held while publishing.
	mu     sync.Mutex
	lastID int64
}

func NewBoard(s store.Store, notifier notify.Notifier, logger *zap.Logger) *Board {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{store: s, notifier: notifier, logger: logger}
}

// Store returns the underlying key-value store.
func (b *Board) Store() store.Store {
	return b.store
}

func (b *Board) changed() {
	b.notifier.Publish(notify.TopicDashboardUpdate, nil)
}

// newID returns a creation timestamp in milliseconds that is larger than every
// id handed out before and than floor.
func (b *Board) newID(floor int64) int64 {
	id := timeNow().UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	if id <= floor {
		id = floor + 1
	}
	b.lastID = id
	return id
}

// Tasks returns the stored task list. A missing or corrupt value reads as an
// empty list; only store failures are returned as errors.
func (b *Board) Tasks(ctx context.Context) ([]Task, error) {
	raw, ok, err := b.store.Get(ctx, store.KeyTasks)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	tasks := []Task{}
	if !ok {
		return tasks, nil
	}
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil || tasks == nil {
		b.logger.Warn("ignoring unparsable task list", zap.Error(err))
		return []Task{}, nil
	}
	return tasks, nil
}

func (b *Board) saveTasks(ctx context.Context, tasks []Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := b.store.Set(ctx, store.KeyTasks, string(data)); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

// Events returns the stored events. The default seed events are returned
// when the calendar has never been written or its value is corrupt; a
// calendar the user emptied stays empty.
func (b *Board) Events(ctx context.Context) ([]Event, error) {
	raw, ok, err := b.store.Get(ctx, store.KeyEvents)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	if !ok {
		return DefaultEvents(), nil
	}
	var events []Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil || events == nil {
		b.logger.Warn("ignoring unparsable event list", zap.Error(err))
		return DefaultEvents(), nil
	}
	return events, nil
}

func (b *Board) saveEvents(ctx context.Context, events []Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if err := b.store.Set(ctx, store.KeyEvents, string(data)); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	return nil
}

func (b *Board) readString(ctx context.Context, key, fallback string) (string, error) {
	v, ok, err := b.store.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || v == "" {
		return fallback, nil
	}
	return v, nil
}

func (b *Board) Notes(ctx context.Context) (string, error) {
	return b.readString(ctx, store.KeyNotes, "")
}

func (b *Board) SetNotes(ctx context.Context, notes string) error {
	if err := b.store.Set(ctx, store.KeyNotes, notes); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	b.changed()
	return nil
}

// Weather returns the cached weather summary, or UnknownWeather.
func (b *Board) Weather(ctx context.Context) (string, error) {
	return b.readString(ctx, store.KeyWeather, UnknownWeather)
}

func (b *Board) SetWeather(ctx context.Context, summary string) error {
	if err := b.store.Set(ctx, store.KeyWeather, summary); err != nil {
		return fmt.Errorf("write weather: %w", err)
	}
	b.changed()
	return nil
}

// Location returns the saved weather location, or "" when none is set.
func (b *Board) Location(ctx context.Context) (string, error) {
	return b.readString(ctx, store.KeyLocation, "")
}

// SetLocation saves the weather location. An empty location clears it.
func (b *Board) SetLocation(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return b.store.Delete(ctx, store.KeyLocation)
	}
	return b.store.Set(ctx, store.KeyLocation, location)
}

// Snapshot reads every widget store without mutating anything. Store
// failures degrade to the documented defaults.
func (b *Board) Snapshot(ctx context.Context) Snapshot {
	snap := Snapshot{Now: timeNow()}

	var err error
	if snap.Tasks, err = b.Tasks(ctx); err != nil {
		b.logger.Warn("snapshot: tasks unavailable", zap.Error(err))
		snap.Tasks = []Task{}
	}
	if snap.Events, err = b.Events(ctx); err != nil {
		b.logger.Warn("snapshot: events unavailable", zap.Error(err))
		snap.Events = []Event{}
	}
	if snap.Notes, err = b.Notes(ctx); err != nil {
		b.logger.Warn("snapshot: notes unavailable", zap.Error(err))
	}
	if snap.Weather, err = b.Weather(ctx); err != nil {
		b.logger.Warn("snapshot: weather unavailable", zap.Error(err))
	}
	return snap
}
