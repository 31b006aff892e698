package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := NewArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSaveAndListEntries(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	id, err := a.SaveEntry(ctx, ArchivedEntry{
		Kind:        "expense",
		Date:        "2024-03-01",
		Month:       "2024-03",
		Payer:       "공동",
		Category:    "식비",
		Description: "장보기",
		Method:      "카드",
		Amount:      12000,
	})
	if err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero row id")
	}

	if _, err := a.SaveEntry(ctx, ArchivedEntry{
		Kind: "income", Date: "2024-03-25", Month: "2024-03",
		Source: "급여", Description: "3월 급여", Amount: 3000000,
	}); err != nil {
		t.Fatalf("SaveEntry income: %v", err)
	}
	if _, err := a.SaveEntry(ctx, ArchivedEntry{
		Kind: "expense", Date: "2024-04-02", Month: "2024-04",
		Category: "교통", Amount: 3000,
	}); err != nil {
		t.Fatalf("SaveEntry other month: %v", err)
	}

	entries, err := a.ListMonth(ctx, "2024-03")
	if err != nil {
		t.Fatalf("ListMonth: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Category != "식비" || entries[0].Amount != 12000 {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[0].ReceivedAt.IsZero() {
		t.Error("received_at should be populated")
	}
}

func TestMonthTotal(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	for _, amount := range []int64{5000, 3000} {
		if _, err := a.SaveEntry(ctx, ArchivedEntry{
			Kind: "expense", Date: "2024-03-01", Month: "2024-03", Amount: amount,
		}); err != nil {
			t.Fatalf("SaveEntry: %v", err)
		}
	}

	total, err := a.MonthTotal(ctx, "expense", "2024-03")
	if err != nil {
		t.Fatalf("MonthTotal: %v", err)
	}
	if total != 8000 {
		t.Errorf("total = %d, want 8000", total)
	}

	// Empty month sums to zero, not an error.
	total, err = a.MonthTotal(ctx, "expense", "2030-01")
	if err != nil {
		t.Fatalf("MonthTotal empty: %v", err)
	}
	if total != 0 {
		t.Errorf("empty month total = %d, want 0", total)
	}
}

func TestCountEntries(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	count, err := a.CountEntries(ctx)
	if err != nil {
		t.Fatalf("CountEntries: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	if _, err := a.SaveEntry(ctx, ArchivedEntry{
		Kind: "expense", Date: "2024-03-01", Month: "2024-03", Amount: 100,
	}); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	count, err = a.CountEntries(ctx)
	if err != nil {
		t.Fatalf("CountEntries: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
