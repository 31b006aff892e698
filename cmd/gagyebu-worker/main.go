package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gagyebu/internal/amqp"
	"gagyebu/internal/config"
	applog "gagyebu/internal/log"
	"gagyebu/internal/storage"
	"gagyebu/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting gagyebu-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the archive worker")
		os.Exit(1)
	}

	archive, err := storage.NewArchive(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open archive database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer archive.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	archiveWorker := worker.NewArchiveWorker(amqpClient, archive)

	if count, err := archive.CountEntries(ctx); err == nil {
		logger.Info("Archive opened", "path", cfg.SQLiteDBPath, "entries", count)
	}

	go func() {
		if err := archiveWorker.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the in-flight delivery a moment to settle before closing.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
