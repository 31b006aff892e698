// Package services holds the ledger write path: validate the entry, append
// it to the backing spreadsheet, wait for it to become readable, then fan
// out cache invalidation and the archive message.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gagyebu/internal/amqp"
	"gagyebu/internal/core"
	"gagyebu/internal/schema"
	"gagyebu/internal/sheets"
)

// SnapshotInvalidator drops cached read state after a successful write.
type SnapshotInvalidator interface {
	Invalidate()
}

// EntryPublisher hands appended entries to the archive pipeline.
type EntryPublisher interface {
	PublishEntryAppended(ctx context.Context, msg *amqp.EntryAppendedMessage) error
}

// TabResolver maps a logical table to its sheet tab.
type TabResolver interface {
	TabFor(table schema.Table) string
}

type LedgerConfig struct {
	// Retries bounds the read-after-write visibility checks.
	Retries    int
	RetryDelay time.Duration
}

// LedgerService appends validated entries to the ledger. The invalidator
// and publisher are optional; a nil publisher just skips archiving.
type LedgerService struct {
	appender    sheets.RowAppender
	counter     sheets.RowCounter
	tabs        TabResolver
	invalidator SnapshotInvalidator
	publisher   EntryPublisher
	retries     int
	retryDelay  time.Duration
}

func NewLedgerService(appender sheets.RowAppender, counter sheets.RowCounter, tabs TabResolver,
	invalidator SnapshotInvalidator, publisher EntryPublisher, cfg LedgerConfig) *LedgerService {
	if cfg.Retries <= 0 {
		cfg.Retries = 5
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 300 * time.Millisecond
	}
	return &LedgerService{
		appender:    appender,
		counter:     counter,
		tabs:        tabs,
		invalidator: invalidator,
		publisher:   publisher,
		retries:     cfg.Retries,
		retryDelay:  cfg.RetryDelay,
	}
}

// AddExpense validates and appends one expense entry.
func (s *LedgerService) AddExpense(ctx context.Context, e core.ExpenseEntry) error {
	if e.Month.IsZero() {
		e.Month = core.MonthOf(e.Date)
	}
	if err := e.Validate(); err != nil {
		return err
	}

	table, _ := schema.Lookup(schema.Expenses)
	row := []any{e.Date.String(), e.Payer, e.Category, e.Description, e.Method, e.Amount}
	return s.append(ctx, table, row, amqp.NewExpenseAppended(e))
}

// AddIncome validates and appends one income entry.
func (s *LedgerService) AddIncome(ctx context.Context, e core.IncomeEntry) error {
	if e.Month.IsZero() {
		e.Month = core.MonthOf(e.Date)
	}
	if err := e.Validate(); err != nil {
		return err
	}

	table, _ := schema.Lookup(schema.Income)
	row := []any{e.Date.String(), e.Source, e.Description, e.Amount}
	return s.append(ctx, table, row, amqp.NewIncomeAppended(e))
}

func (s *LedgerService) append(ctx context.Context, table schema.Table, row []any, msg *amqp.EntryAppendedMessage) error {
	if s.appender == nil {
		return fmt.Errorf("no row appender configured")
	}

	tab := table.Tab
	if s.tabs != nil {
		tab = s.tabs.TabFor(table)
	}

	before := -1
	if s.counter != nil {
		if n, err := s.counter.CountRows(ctx, tab); err == nil {
			before = n
		} else {
			slog.WarnContext(ctx, "Row count before append failed, skipping visibility check",
				"tab", tab, "error", err)
		}
	}

	if err := s.appender.AppendRow(ctx, tab, row); err != nil {
		return fmt.Errorf("append row to %s: %w", tab, err)
	}

	if before >= 0 {
		s.awaitVisible(ctx, tab, before)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}

	// Archiving is best-effort; the entry is already on the sheet.
	if s.publisher != nil {
		if err := s.publisher.PublishEntryAppended(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entry appended message",
				"tab", tab, "kind", msg.Kind, "error", err)
		}
	}

	slog.InfoContext(ctx, "Entry appended",
		"tab", tab,
		"kind", msg.Kind,
		"month", msg.Month,
		"amount", msg.Amount)

	return nil
}

// awaitVisible polls the row count until the append is readable. The sheet
// API acknowledges writes before reads observe them, so the next snapshot
// load could otherwise miss the new row.
func (s *LedgerService) awaitVisible(ctx context.Context, tab string, before int) {
	for attempt := 0; attempt < s.retries; attempt++ {
		n, err := s.counter.CountRows(ctx, tab)
		if err == nil && n > before {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.retryDelay):
		}
	}
	slog.WarnContext(ctx, "Appended row not visible after retries",
		"tab", tab, "retries", s.retries)
}
