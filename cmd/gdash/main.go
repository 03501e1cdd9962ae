package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atinylittleshell/gdash/internal/config"
	"github.com/atinylittleshell/gdash/internal/core"
)

var BUILD_VERSION = "dev"

var (
	// Global flags
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gdash",
	Short: "gdash - a personal dashboard with an AI assistant",
	Long: `gdash keeps your tasks, calendar events, notes and weather in one place
and lets an AI assistant manage them for you.

Run without arguments to open the terminal dashboard.`,
	Version:       BUILD_VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = core.ConfigFile()
		}
		result, err := config.NewLoader(nil).LoadFromFile(path)
		if err != nil {
			return err
		}
		cfg = result.Config
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		logger, err = initializeLogger(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		for _, cerr := range result.Errors {
			logger.Warn("configuration problem", zap.String("path", path), zap.Error(cerr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDashboard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.gdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(weatherCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initializeLogger writes JSON logs to the data directory so they never
// interfere with the terminal UI. Use `tail -f ~/.gdash/gdash.log` to follow.
func initializeLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	if BUILD_VERSION == "dev" {
		lvl = zapcore.DebugLevel
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(lvl)
	loggerConfig.OutputPaths = []string{core.LogFile()}
	loggerConfig.ErrorOutputPaths = []string{core.LogFile()}

	return loggerConfig.Build()
}
