// Package storage keeps a local SQLite archive of appended ledger entries.
// The spreadsheet remains the source of truth; the archive is an append-only
// mirror fed by the archive worker, queryable when the sheet is unreachable.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ArchivedEntry is one ledger entry as stored in the archive.
type ArchivedEntry struct {
	ID          int64
	Kind        string
	Date        string
	Month       string
	Payer       string
	Category    string
	Source      string
	Description string
	Method      string
	Amount      int64
	ReceivedAt  time.Time
}

type Archive struct {
	db *sql.DB
}

func NewArchive(dbPath string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SaveEntry appends one entry to the archive and returns its row ID.
func (a *Archive) SaveEntry(ctx context.Context, e ArchivedEntry) (int64, error) {
	receivedAt := e.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	res, err := a.db.ExecContext(ctx, `
		INSERT INTO entries (kind, entry_date, month, payer, category, source, description, method, amount, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Kind, e.Date, e.Month, e.Payer, e.Category, e.Source, e.Description, e.Method, e.Amount, receivedAt)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Entry archived",
		"id", id,
		"kind", e.Kind,
		"month", e.Month,
		"amount", e.Amount)

	return id, nil
}

// ListMonth returns the archived entries for one month bucket, oldest first.
func (a *Archive) ListMonth(ctx context.Context, month string) ([]ArchivedEntry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, kind, entry_date, month, payer, category, source, description, method, amount, received_at
		FROM entries
		WHERE month = ?
		ORDER BY entry_date, id`, month)
	if err != nil {
		return nil, fmt.Errorf("query entries by month: %w", err)
	}
	defer rows.Close()

	var entries []ArchivedEntry
	for rows.Next() {
		var e ArchivedEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Date, &e.Month, &e.Payer, &e.Category,
			&e.Source, &e.Description, &e.Method, &e.Amount, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// MonthTotal sums archived amounts of one kind for a month bucket.
func (a *Archive) MonthTotal(ctx context.Context, kind, month string) (int64, error) {
	var total sql.NullInt64
	err := a.db.QueryRowContext(ctx, `
		SELECT SUM(amount) FROM entries WHERE kind = ? AND month = ?`,
		kind, month).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum entries: %w", err)
	}
	return total.Int64, nil
}

// CountEntries reports the total number of archived entries.
func (a *Archive) CountEntries(ctx context.Context) (int64, error) {
	var count int64
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}
