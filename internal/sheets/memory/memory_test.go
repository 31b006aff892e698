package memory

import (
	"context"
	"testing"
)

func TestFetchTable(t *testing.T) {
	s := New()
	s.SetTable("지출내역",
		[]string{"날짜", "분류", "금액"},
		[][]any{
			{"2024-03-01", "식비", "5,000"},
			{"", "", ""},
			{"2024-03-02", "교통"},
		})

	records, err := s.FetchTable(context.Background(), "지출내역")
	if err != nil {
		t.Fatalf("FetchTable: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0]["분류"] != "식비" {
		t.Errorf("unexpected record %v", records[0])
	}
	if v, ok := records[1]["금액"]; !ok || v != "" {
		t.Errorf("short row not padded: %v", records[1])
	}
}

func TestFetchTableMissing(t *testing.T) {
	s := New()
	if _, err := s.FetchTable(context.Background(), "없는탭"); err == nil {
		t.Error("expected error for missing tab")
	}
}

func TestFailingTab(t *testing.T) {
	s := New()
	s.SetTable("대출", []string{"항목", "잔액"}, nil)
	s.Fail("대출")

	if _, err := s.FetchTable(context.Background(), "대출"); err == nil {
		t.Error("expected error for failing tab")
	}
	if err := s.AppendRow(context.Background(), "대출", []any{"전세"}); err == nil {
		t.Error("expected append error for failing tab")
	}
}

func TestAppendAndCount(t *testing.T) {
	s := New()
	s.SetTable("수입내역", []string{"날짜", "수입원", "내용", "금액"}, nil)

	n, err := s.CountRows(context.Background(), "수입내역")
	if err != nil || n != 0 {
		t.Fatalf("CountRows = (%d, %v)", n, err)
	}

	if err := s.AppendRow(context.Background(), "수입내역",
		[]any{"2024-03-25", "급여", "3월 급여", 3000000}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	n, _ = s.CountRows(context.Background(), "수입내역")
	if n != 1 {
		t.Errorf("CountRows = %d, want 1", n)
	}

	records, _ := s.FetchTable(context.Background(), "수입내역")
	if len(records) != 1 || records[0]["수입원"] != "급여" {
		t.Errorf("unexpected records %v", records)
	}
}
