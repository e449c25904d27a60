package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finora/internal/amqp"
	"finora/internal/config"
	"finora/internal/export/googlesheets"
	"finora/internal/gateway"
	applog "finora/internal/log"
	"finora/internal/storage"
	"finora/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	slog.SetDefault(logger.Logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("Worker requires AMQP_URL")
		os.Exit(1)
	}
	if cfg.GatewayURL == "" {
		logger.Error("Worker requires GATEWAY_URL to mirror balances")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	gatewayClient := gateway.NewClient(cfg.GatewayURL, cfg.GatewayTimeout)
	mirror := worker.NewMirror(amqpClient, gatewayClient, logger)

	// Sheets export is optional; balance mirroring runs either way.
	var exporter *worker.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := googlesheets.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}

		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()

		exporter = worker.NewExporter(repo, sheetsClient, cfg.MirrorInterval,
			logger.WithComponent(applog.ComponentExport))
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mirror.Run(ctx)
	})
	if exporter != nil {
		g.Go(func() error {
			return exporter.Run(ctx)
		})
	}

	logger.Info("Starting finora worker", applog.FieldOperation, applog.OpStartup,
		"queue", cfg.AMQPQueue, "gateway_url", cfg.GatewayURL)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
