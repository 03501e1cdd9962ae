// Package store provides the key-value persistence shared by every dashboard
// widget. Values are opaque strings and writes always replace the whole value.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Keys used by the dashboard widgets.
const (
	KeyTasks       = "dashboard-todos"
	KeyEvents      = "dashboard-events"
	KeyNotes       = "dashboard-notes"
	KeyWeather     = "dashboard-weather-state"
	KeyLocation    = "dashboard-wx-loc"
	KeyChatHistory = "dashboard-chat-msgs"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store is a flat string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string

	// RedisAddr, RedisPassword, RedisDB and RedisPrefix configure the redis backend.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open creates the store described by opts.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite, "":
		return NewSQLiteStore(opts.SQLitePath)
	case BackendRedis:
		return NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
