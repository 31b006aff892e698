// Package memory is an in-process implementation of the sheets ports, used
// as the development backend and as the test double for the dataset layer.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gagyebu/internal/core"
)

type memTable struct {
	header []string
	rows   [][]any
}

// Store holds tabs as header + rows, mirroring the shape of the remote
// document closely enough to exercise the ingestion pipeline.
type Store struct {
	mu      sync.Mutex
	tables  map[string]*memTable
	failing map[string]bool
}

func New() *Store {
	return &Store{
		tables:  make(map[string]*memTable),
		failing: make(map[string]bool),
	}
}

// SetTable replaces a tab's header and rows.
func (s *Store) SetTable(tab string, header []string, rows [][]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([][]any, len(rows))
	for i, r := range rows {
		copied[i] = append([]any(nil), r...)
	}
	s.tables[tab] = &memTable{header: append([]string(nil), header...), rows: copied}
}

// Fail marks a tab so that reads and writes against it return an error,
// simulating an unreadable remote tab.
func (s *Store) Fail(tab string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[tab] = true
}

// FetchTable implements sheets.TableFetcher.
func (s *Store) FetchTable(_ context.Context, tab string) ([]core.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing[tab] {
		return nil, fmt.Errorf("tab %s unreadable", tab)
	}
	t, ok := s.tables[tab]
	if !ok {
		return nil, fmt.Errorf("tab %s not found", tab)
	}
	out := make([]core.RawRecord, 0, len(t.rows))
	for _, row := range t.rows {
		if isEmptyRow(row) {
			continue
		}
		rec := make(core.RawRecord, len(t.header))
		for i, h := range t.header {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// AppendRow implements sheets.RowAppender.
func (s *Store) AppendRow(_ context.Context, tab string, row []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing[tab] {
		return fmt.Errorf("tab %s unreadable", tab)
	}
	t, ok := s.tables[tab]
	if !ok {
		return fmt.Errorf("tab %s not found", tab)
	}
	t.rows = append(t.rows, append([]any(nil), row...))
	return nil
}

// CountRows implements sheets.RowCounter.
func (s *Store) CountRows(_ context.Context, tab string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing[tab] {
		return 0, fmt.Errorf("tab %s unreadable", tab)
	}
	t, ok := s.tables[tab]
	if !ok {
		return 0, fmt.Errorf("tab %s not found", tab)
	}
	return len(t.rows), nil
}

func isEmptyRow(row []any) bool {
	for _, v := range row {
		if strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}
