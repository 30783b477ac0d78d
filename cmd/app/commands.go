package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "fxdesk/internal/api/docs"
	"fxdesk/internal/config"
)

var forceUpdate bool

var rootCmd = &cobra.Command{
	Use:          "fxdesk",
	Short:        "Currency rate service with a two-day rate cache",
	Long:         "Serves daily exchange rate tables with day-over-day changes, live conversion, news and rate history.",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, refresh worker and scheduler",
	RunE:  runServe,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run one rate refresh cycle and exit",
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVarP(&forceUpdate, "force", "f", false, "Refresh even if today's rates are already cached")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(updateCmd)
}

func setup() (*config.Config, *zap.SugaredLogger, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, zapLogger.Sugar(), func() { _ = zapLogger.Sync() }, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, sugar, sync, err := setup()
	if err != nil {
		log.Print(err)
		return err
	}
	defer sync()

	if err := cfg.ValidateServe(); err != nil {
		sugar.Errorw("Invalid server config", "error", err)
		return err
	}

	sugar.Infow("Starting fxdesk", "port", cfg.Server.Port, "store", cfg.Store.Backend)

	app, err := NewApp(cfg, sugar, modeServe)
	if err != nil {
		sugar.Errorw("Failed to initialize app", "error", err)
		return err
	}

	if err := app.Run(cmd.Context()); err != nil {
		sugar.Errorw("Application error", "error", err)
		return err
	}
	return nil
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	cfg, sugar, sync, err := setup()
	if err != nil {
		log.Print(err)
		return err
	}
	defer sync()

	app, err := NewApp(cfg, sugar, modeUpdate)
	if err != nil {
		sugar.Errorw("Failed to initialize app", "error", err)
		return err
	}
	defer func() {
		if err := app.close(); err != nil {
			sugar.Warnw("Connection cleanup errors", "error", err)
		}
	}()

	return app.RunUpdate(cmd.Context(), forceUpdate)
}

// RunUpdate runs one refresh cycle in-process.
func (app *App) RunUpdate(ctx context.Context, force bool) error {
	res, err := app.updater.Run(ctx, force)
	if err != nil {
		app.logger.Errorw("Rate refresh aborted", "error", err)
		return err
	}
	app.logger.Infow("Rate refresh done", "skipped", res.Skipped, "published", res.Published,
		"saved", len(res.Saved), "failed", len(res.Failed), "bases_changed", res.Changed)
	return nil
}
