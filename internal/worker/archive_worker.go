// Package worker mirrors appended ledger entries into the local SQLite
// archive.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"gagyebu/internal/amqp"
	"gagyebu/internal/storage"
)

// EntryConsumer delivers appended-entry messages until the context ends.
type EntryConsumer interface {
	ConsumeEntryAppended(ctx context.Context, handler func(*amqp.EntryAppendedMessage) error) error
}

// EntrySaver persists one entry to the archive.
type EntrySaver interface {
	SaveEntry(ctx context.Context, e storage.ArchivedEntry) (int64, error)
}

type ArchiveWorker struct {
	consumer EntryConsumer
	archive  EntrySaver
}

func NewArchiveWorker(consumer EntryConsumer, archive EntrySaver) *ArchiveWorker {
	return &ArchiveWorker{consumer: consumer, archive: archive}
}

// Run consumes messages until the context is canceled.
func (w *ArchiveWorker) Run(ctx context.Context) error {
	return w.consumer.ConsumeEntryAppended(ctx, func(msg *amqp.EntryAppendedMessage) error {
		return w.HandleEntryAppended(ctx, msg)
	})
}

// HandleEntryAppended archives a single message.
func (w *ArchiveWorker) HandleEntryAppended(ctx context.Context, msg *amqp.EntryAppendedMessage) error {
	if msg.Kind != amqp.EntryKindExpense && msg.Kind != amqp.EntryKindIncome {
		// Dropped, not requeued: an unknown kind will never become valid.
		slog.WarnContext(ctx, "Dropping message with unknown entry kind", "kind", msg.Kind)
		return nil
	}

	id, err := w.archive.SaveEntry(ctx, storage.ArchivedEntry{
		Kind:        string(msg.Kind),
		Date:        msg.Date,
		Month:       msg.Month,
		Payer:       msg.Payer,
		Category:    msg.Category,
		Source:      msg.Source,
		Description: msg.Description,
		Method:      msg.Method,
		Amount:      msg.Amount,
		ReceivedAt:  msg.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("archive entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry mirrored to archive",
		"id", id,
		"kind", msg.Kind,
		"month", msg.Month,
		"amount", msg.Amount)

	return nil
}
