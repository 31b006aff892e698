package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gagyebu/internal/amqp"
	"gagyebu/internal/calendar"
	calgoogle "gagyebu/internal/calendar/google"
	"gagyebu/internal/config"
	"gagyebu/internal/dataset"
	apphttp "gagyebu/internal/http"
	applog "gagyebu/internal/log"
	"gagyebu/internal/services"
	ports "gagyebu/internal/sheets"
	gsheet "gagyebu/internal/sheets/google"
	mem "gagyebu/internal/sheets/memory"
)

func main() {
	// .env is for local development; missing file is fine.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		fetcher  ports.TableFetcher
		appender ports.RowAppender
		counter  ports.RowCounter
	)
	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		fetcher, appender, counter = cli, cli, cli
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		store := mem.New()
		fetcher, appender, counter = store, store, store
		logger.Info("Initialized memory backend")
	}

	var lister calendar.EventLister
	if cli := calendarLister(ctx, cfg, logger); cli != nil {
		lister = cli
	}

	builder := dataset.NewBuilder(fetcher, lister, dataset.Config{
		WindowDays: cfg.CalendarWindowDays,
		Tabs:       cfg.Tabs,
	})

	srv := apphttp.NewServer(":"+cfg.Port, builder, logger, apphttp.Config{
		CacheTTL:        cfg.CacheTTL,
		CleanupInterval: cfg.CacheCleanupInterval,
	})

	var publisher services.EntryPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// The archive is optional; the ledger works without it.
			logger.Error("Failed to initialize AMQP client, archiving disabled", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	ledger := services.NewLedgerService(appender, counter, builder, srv, publisher, services.LedgerConfig{
		Retries:    cfg.AppendRetries,
		RetryDelay: cfg.AppendRetryDelay,
	})
	srv.SetLedger(ledger)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting gagyebu server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// calendarLister builds the external event source, or nil when the calendar
// integration is not configured.
func calendarLister(ctx context.Context, cfg *config.Config, logger *applog.Logger) *calgoogle.Client {
	if cfg.GoogleCalendarID == "" {
		logger.Info("Calendar import disabled - no GOOGLE_CALENDAR_ID provided")
		return nil
	}
	creds, err := gsheet.CredentialsFromEnv(ctx)
	if err != nil {
		logger.Error("Calendar import disabled - no credentials", "error", err)
		return nil
	}
	cli, err := calgoogle.New(ctx, cfg.GoogleCalendarID, creds)
	if err != nil {
		logger.Error("Calendar import disabled - client init failed", "error", err)
		return nil
	}
	logger.Info("Calendar import enabled", "calendar_id", cfg.GoogleCalendarID, "window_days", cfg.CalendarWindowDays)
	return cli
}
