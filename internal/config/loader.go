package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/atinylittleshell/gdash/internal/core"
	"github.com/atinylittleshell/gdash/internal/store"
)

// Environment variables that override the file.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvLogLevel     = "GDASH_LOG_LEVEL"
)

// Loader handles loading and validation of the configuration file.
type Loader struct {
	logger *zap.Logger
	getenv func(string) string
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger,
		getenv: os.Getenv,
	}
}

// LoadResult contains the result of loading a configuration file.
type LoadResult struct {
	Config *Config
	Errors []error
}

// LoadFromFile loads configuration from a YAML file.
// Returns the configuration and any non-fatal errors encountered.
// If the file doesn't exist, returns default configuration with no error.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, use defaults
			return l.LoadFromString("")
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return l.LoadFromString(string(content))
}

// LoadDefaultConfigPath loads configuration from the data directory.
func (l *Loader) LoadDefaultConfigPath() (*LoadResult, error) {
	return l.LoadFromFile(core.ConfigFile())
}

// LoadFromString loads configuration from YAML source.
func (l *Loader) LoadFromString(source string) (*LoadResult, error) {
	result := &LoadResult{
		Config: DefaultConfig(),
		Errors: []error{},
	}

	if strings.TrimSpace(source) != "" {
		cfg := DefaultConfig()
		if err := yaml.Unmarshal([]byte(source), cfg); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("parse error: %w", err))
			// Continue with defaults on parse errors
		} else {
			result.Config = cfg
		}
	}

	l.applyEnv(result)
	l.validate(result)
	return result, nil
}

func (l *Loader) applyEnv(result *LoadResult) {
	if key := l.getenv(EnvOpenAIAPIKey); key != "" {
		result.Config.OpenAI.APIKey = key
	}
	if level := l.getenv(EnvLogLevel); level != "" {
		result.Config.LogLevel = level
	}
}

// validate resets invalid values to their defaults and records why.
func (l *Loader) validate(result *LoadResult) {
	cfg := result.Config
	defaults := DefaultConfig()

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("log_level: %w", err))
		cfg.LogLevel = defaults.LogLevel
	}

	switch cfg.Store.Backend {
	case store.BackendSQLite, store.BackendRedis, store.BackendMemory:
	case "":
		cfg.Store.Backend = defaults.Store.Backend
	default:
		result.Errors = append(result.Errors, fmt.Errorf("store.backend: %w: %q", store.ErrUnknownBackend, cfg.Store.Backend))
		cfg.Store.Backend = defaults.Store.Backend
	}

	if cfg.OpenAI.Temperature < 0 || cfg.OpenAI.Temperature > 2 {
		result.Errors = append(result.Errors, fmt.Errorf("openai.temperature must be between 0 and 2, got %v", cfg.OpenAI.Temperature))
		cfg.OpenAI.Temperature = defaults.OpenAI.Temperature
	}
	if cfg.OpenAI.MaxTokens < 0 {
		result.Errors = append(result.Errors, fmt.Errorf("openai.max_tokens must not be negative, got %d", cfg.OpenAI.MaxTokens))
		cfg.OpenAI.MaxTokens = defaults.OpenAI.MaxTokens
	}

	if cfg.Weather.RefreshInterval <= 0 {
		cfg.Weather.RefreshInterval = defaults.Weather.RefreshInterval
	}

	for _, err := range result.Errors {
		l.logger.Warn("configuration problem", zap.Error(err))
	}
}
