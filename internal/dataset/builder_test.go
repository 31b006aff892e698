package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"gagyebu/internal/calendar"
	"gagyebu/internal/core"
	"gagyebu/internal/sheets/memory"
)

type stubLister struct {
	events []core.Event
	err    error
	window calendar.Window
}

func (s *stubLister) ListEvents(_ context.Context, w calendar.Window) ([]core.Event, error) {
	s.window = w
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func seedStore() *memory.Store {
	s := memory.New()
	s.SetTable("지출내역",
		[]string{"날짜", "사용자", "분류", "내용", "결제수단", "금액"},
		[][]any{
			{"2024-03-01", "공동", "식비", "장보기", "카드", "₩5,000"},
			{"2024-03-15", "A", "교통", "지하철", "카드", "3,000"},
			{"날짜 미정", "A", "기타", "메모", "현금", "1,000"}, // unparseable date
			{"2024-03-20", "B", "식비", "외식", "카드", "abc"}, // unparseable amount
		})
	s.SetTable("수입내역",
		[]string{"날짜", "수입원", "내용", "금액"},
		[][]any{{"2024-03-25", "급여", "3월 급여", "3,000,000"}})
	s.SetTable("고정지출",
		[]string{"날짜", "담당", "항목", "금액"},
		[][]any{{"2024-03-05", "B", "월세", "800,000"}})
	s.SetTable("일정",
		[]string{"날짜", "일정"},
		[][]any{{"2024-03-10", "관리비 납부"}})
	s.SetTable("대출",
		[]string{"항목", "잔액"},
		[][]any{{"전세자금", "120,000,000"}, {"", "999"}})
	s.SetTable("식비미션",
		[]string{"주간목표", "실제지출"},
		[][]any{{"100,000", "80,000"}})
	s.SetTable("예산계획",
		[]string{"항목", "예산"},
		[][]any{{"식비", "400,000"}, {"교통", "150,000"}})
	return s
}

func TestLoadAllNormalizesTables(t *testing.T) {
	b := NewBuilder(seedStore(), nil, Config{})
	snap := b.LoadAll(context.Background())

	// The unparseable-date row is dropped; the unparseable-amount row is
	// kept with amount zero.
	if len(snap.Expenses) != 3 {
		t.Fatalf("got %d expenses, want 3: %+v", len(snap.Expenses), snap.Expenses)
	}
	first := snap.Expenses[0]
	if first.Amount != 5000 || first.Category != "식비" || first.Payer != core.PayerShared {
		t.Errorf("unexpected first expense %+v", first)
	}
	if first.Month.String() != "2024-03" {
		t.Errorf("bucket = %q, want 2024-03", first.Month.String())
	}
	if snap.Expenses[2].Amount != 0 {
		t.Errorf("unparseable amount should normalize to 0, got %d", snap.Expenses[2].Amount)
	}

	if len(snap.Income) != 1 || snap.Income[0].Amount != 3000000 {
		t.Errorf("unexpected income %+v", snap.Income)
	}
	if len(snap.FixedCosts) != 1 || snap.FixedCosts[0].Item != "월세" {
		t.Errorf("unexpected fixed costs %+v", snap.FixedCosts)
	}
	// Loan rows without an item label are skipped.
	if len(snap.Loans) != 1 || snap.Loans[0].Balance != 120000000 {
		t.Errorf("unexpected loans %+v", snap.Loans)
	}
	if len(snap.BudgetPlan) != 2 || snap.BudgetPlan[0].Planned != 400000 {
		t.Errorf("unexpected budget plan %+v", snap.BudgetPlan)
	}
}

func TestLoadAllMissionRemainingDerived(t *testing.T) {
	b := NewBuilder(seedStore(), nil, Config{})
	snap := b.LoadAll(context.Background())
	if len(snap.Mission) != 1 {
		t.Fatalf("got %d mission rows, want 1", len(snap.Mission))
	}
	m := snap.Mission[0]
	if m.WeeklyGoal != 100000 || m.Spent != 80000 || m.Remaining != 20000 {
		t.Errorf("unexpected mission %+v", m)
	}
}

func TestLoadAllFixedArityUnderTotalFailure(t *testing.T) {
	// No fetcher, no lister: the all-empty defaults, never nil members.
	b := NewBuilder(nil, nil, Config{})
	snap := b.LoadAll(context.Background())

	if snap.Expenses == nil || snap.Income == nil || snap.FixedCosts == nil ||
		snap.Schedule == nil || snap.Loans == nil || snap.Mission == nil ||
		snap.BudgetPlan == nil || snap.Events == nil {
		t.Fatalf("snapshot members must be non-nil: %+v", snap)
	}
	if len(snap.Expenses)+len(snap.Income)+len(snap.FixedCosts)+len(snap.Schedule)+
		len(snap.Loans)+len(snap.Mission)+len(snap.BudgetPlan)+len(snap.Events) != 0 {
		t.Errorf("expected all-empty snapshot, got %+v", snap)
	}
}

func TestLoadAllTableIsolation(t *testing.T) {
	store := seedStore()
	store.Fail("대출")
	b := NewBuilder(store, nil, Config{})
	snap := b.LoadAll(context.Background())

	if len(snap.Loans) != 0 {
		t.Errorf("failed tab should yield empty table, got %+v", snap.Loans)
	}
	// One tab's failure does not blank the others.
	if len(snap.Expenses) == 0 || len(snap.Income) == 0 || len(snap.BudgetPlan) == 0 {
		t.Errorf("other tables were blanked: %+v", snap)
	}
}

func TestLoadAllCalendarFailureIsolated(t *testing.T) {
	lister := &stubLister{err: errors.New("quota exceeded")}
	b := NewBuilder(seedStore(), lister, Config{})
	snap := b.LoadAll(context.Background())

	// Schedule rows still appear as events; only the external import is empty.
	if len(snap.Events) != 1 || snap.Events[0].Title != "관리비 납부" {
		t.Errorf("unexpected events %+v", snap.Events)
	}
	if len(snap.Expenses) == 0 {
		t.Error("spreadsheet tables should survive a calendar failure")
	}
}

func TestLoadAllMergesAndOrdersEvents(t *testing.T) {
	lister := &stubLister{events: []core.Event{
		{Title: "병원", Start: time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC), Color: "#f48fb1"},
		{Title: "여행", Start: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), AllDay: true, Color: "#f48fb1"},
	}}
	b := NewBuilder(seedStore(), lister, Config{WindowDays: 30})
	snap := b.LoadAll(context.Background())

	if len(snap.Events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(snap.Events), snap.Events)
	}
	wantOrder := []string{"여행", "관리비 납부", "병원"}
	for i, want := range wantOrder {
		if snap.Events[i].Title != want {
			t.Errorf("events[%d] = %q, want %q", i, snap.Events[i].Title, want)
		}
	}
	// Schedule rows carry the local color, imports keep theirs.
	if snap.Events[1].Color != ScheduleEventColor {
		t.Errorf("schedule event color = %q", snap.Events[1].Color)
	}

	if got := lister.window.To.Sub(lister.window.From); got != 60*24*time.Hour {
		t.Errorf("window span = %v, want 60 days", got)
	}
}

func TestLoadAllTabOverride(t *testing.T) {
	store := memory.New()
	store.SetTable("Expenses2024",
		[]string{"Date", "Payer", "Category", "Description", "Method", "Amount"},
		[][]any{{"2024-03-01", "A", "Food", "groceries", "card", "9,900"}})

	b := NewBuilder(store, nil, Config{Tabs: map[string]string{"expenses": "Expenses2024"}})
	snap := b.LoadAll(context.Background())
	if len(snap.Expenses) != 1 || snap.Expenses[0].Amount != 9900 {
		t.Errorf("override tab not used: %+v", snap.Expenses)
	}
}

func TestMonthlyTotalScenario(t *testing.T) {
	store := memory.New()
	store.SetTable("지출내역",
		[]string{"날짜", "분류", "금액"},
		[][]any{
			{"2024-03-01", "식비", "5,000"},
			{"2024-03-15", "교통", "3,000"},
		})
	b := NewBuilder(store, nil, Config{})
	snap := b.LoadAll(context.Background())

	m, _ := core.ParseMonth("2024-03")
	if got := core.MonthlyTotal(snap.Expenses, m); got != 8000 {
		t.Errorf("monthly total = %d, want 8000", got)
	}
}
