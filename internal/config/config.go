// Package config provides configuration management for gdash. Configuration
// is read from a YAML file in the data directory and may be overridden by
// environment variables.
package config

import (
	"time"

	"github.com/atinylittleshell/gdash/internal/assistant"
	"github.com/atinylittleshell/gdash/internal/store"
	"github.com/atinylittleshell/gdash/internal/weather"
)

// Config holds all gdash configuration.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	Store   StoreConfig   `yaml:"store"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Server  ServerConfig  `yaml:"server"`
	Weather WeatherConfig `yaml:"weather"`
}

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	// Backend is one of sqlite, redis or memory.
	Backend string `yaml:"backend"`

	// Path of the sqlite database. Defaults to the data directory.
	Path string `yaml:"path"`

	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// OpenAIConfig configures the chat-completion provider.
type OpenAIConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`

	// AllowOrigins lists the origins accepted by the CORS middleware.
	AllowOrigins []string `yaml:"allow_origins"`
}

type WeatherConfig struct {
	// Location is used until a location is saved from the dashboard.
	Location string `yaml:"location"`

	// RefreshInterval is how often the summary is refreshed while the
	// dashboard or server is running.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Store: StoreConfig{
			Backend: store.BackendSQLite,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: store.DefaultRedisPrefix,
			},
		},
		OpenAI: OpenAIConfig{
			Model:       assistant.DefaultModel,
			Temperature: assistant.DefaultTemperature,
			MaxTokens:   assistant.DefaultMaxTokens,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			AllowOrigins: []string{"*"},
		},
		Weather: WeatherConfig{
			Location:        weather.DefaultLocation,
			RefreshInterval: 15 * time.Minute,
		},
	}
}

// StoreOptions converts the store section into store.Options.
func (c *Config) StoreOptions(defaultPath string) store.Options {
	path := c.Store.Path
	if path == "" {
		path = defaultPath
	}
	return store.Options{
		Backend:       c.Store.Backend,
		SQLitePath:    path,
		RedisAddr:     c.Store.Redis.Addr,
		RedisPassword: c.Store.Redis.Password,
		RedisDB:       c.Store.Redis.DB,
		RedisPrefix:   c.Store.Redis.Prefix,
	}
}

// ProviderConfig converts the openai section into assistant.OpenAIConfig.
func (c *Config) ProviderConfig() assistant.OpenAIConfig {
	return assistant.OpenAIConfig{
		APIKey:      c.OpenAI.APIKey,
		BaseURL:     c.OpenAI.BaseURL,
		Model:       c.OpenAI.Model,
		Temperature: c.OpenAI.Temperature,
		MaxTokens:   c.OpenAI.MaxTokens,
	}
}
