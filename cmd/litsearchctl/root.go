package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/app"
	"github.com/kailas-cloud/litsearch/internal/config"
	logpkg "github.com/kailas-cloud/litsearch/internal/logger"
	"github.com/kailas-cloud/litsearch/internal/version"
)

var (
	globalConfig config.Config
	globalLogger *zap.Logger
	globalApp    *app.App
)

var rootCmd = &cobra.Command{
	Use:     "litsearchctl",
	Short:   "Admin tool for the litsearch index",
	Long:    "Convert MEDLINE exports, build the literature index and serve MCP tools.",
	Version: version.String(),
	// Errors are printed once by main.
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "convert-medline" {
			return nil
		}
		_ = godotenv.Load()

		env := config.GetEnv()
		cfg, err := config.Load(env)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		globalLogger = logger
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		shutdown()
		return nil
	},
}

// shutdown releases the app and flushes the logger. Cobra skips
// PersistentPostRunE when RunE fails, so execute calls it as well.
func shutdown() {
	if globalApp != nil {
		globalApp.Close()
		globalApp = nil
	}
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// openApp connects to Redis and wires the services on first use.
func openApp(ctx context.Context) (*app.App, error) {
	if globalApp != nil {
		return globalApp, nil
	}
	a, err := app.New(ctx, &globalConfig, globalLogger)
	if err != nil {
		return nil, err
	}
	globalApp = a
	return a, nil
}
