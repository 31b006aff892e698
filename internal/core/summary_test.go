package core

import (
	"testing"
	"time"
)

func expense(date string, category string, amount int64) ExpenseEntry {
	d, ok := NormalizeDate(date)
	e := ExpenseEntry{Category: category, Amount: amount}
	if ok {
		e.Date = d
		e.Month = MonthOf(d)
	}
	return e
}

func TestMonthlyTotal(t *testing.T) {
	entries := []ExpenseEntry{
		expense("2024-03-01", "식비", 5000),
		expense("2024-03-15", "교통", 3000),
		expense("2024-04-01", "식비", 9999),
	}
	m := NewMonth(2024, time.March)
	if got := MonthlyTotal(entries, m); got != 8000 {
		t.Errorf("MonthlyTotal = %d, want 8000", got)
	}
}

func TestMonthlyTotalExcludesAbsentDates(t *testing.T) {
	entries := []ExpenseEntry{
		expense("2024-03-01", "식비", 5000),
		{Category: "식비", Amount: 100000}, // no date, no bucket
	}
	if got := MonthlyTotal(entries, NewMonth(2024, time.March)); got != 5000 {
		t.Errorf("MonthlyTotal = %d, want 5000", got)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	entries := []ExpenseEntry{
		expense("2024-03-01", "식비", 5000),
		expense("2024-03-02", "교통", 3000),
		expense("2024-03-03", "식비", 2000),
		expense("2024-03-04", "", 1000),
	}
	got := CategoryBreakdown(entries, NewMonth(2024, time.March))
	want := []CategoryAmount{
		{Name: "식비", Amount: 7000},
		{Name: "교통", Amount: 3000},
		{Name: "기타", Amount: 1000},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("breakdown[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBudgetAttainments(t *testing.T) {
	entries := []ExpenseEntry{
		expense("2024-03-01", "식비", 50000),
		expense("2024-03-02", "여행", 30000),
	}
	plan := []BudgetPlanEntry{
		{Item: "식비", Planned: 100000},
		{Item: "교통", Planned: 40000}, // no spending
		{Item: "구독", Planned: 0},     // zero budget
	}
	got := BudgetAttainments(entries, plan, NewMonth(2024, time.March))
	if len(got) != 4 {
		t.Fatalf("got %d lines, want 4: %+v", len(got), got)
	}

	if got[0].Item != "식비" || got[0].Used != 50000 || got[0].Ratio != 0.5 {
		t.Errorf("식비 line = %+v", got[0])
	}
	if got[1].Item != "교통" || got[1].Used != 0 || got[1].Ratio != 0 {
		t.Errorf("unmatched plan line = %+v", got[1])
	}
	// Planned 0 yields ratio 0, never NaN or a panic.
	if got[2].Item != "구독" || got[2].Ratio != 0 {
		t.Errorf("zero-budget line = %+v", got[2])
	}
	// Spending outside the plan shows up with zero budget.
	if got[3].Item != "여행" || got[3].Planned != 0 || got[3].Used != 30000 {
		t.Errorf("unplanned category line = %+v", got[3])
	}
}

func TestDailyTotals(t *testing.T) {
	entries := []ExpenseEntry{
		expense("2024-03-15", "식비", 3000),
		expense("2024-03-01", "식비", 2000),
		expense("2024-03-01", "교통", 3000),
		expense("2024-03-20", "환불", -4000),
		expense("2024-03-20", "식비", 1000), // day nets to -3000, filtered
		expense("2024-04-01", "식비", 7777), // other month
	}
	got := DailyTotals(entries, NewMonth(2024, time.March))
	if len(got) != 2 {
		t.Fatalf("got %d days, want 2: %+v", len(got), got)
	}
	if got[0].Date.String() != "2024-03-01" || got[0].Amount != 5000 {
		t.Errorf("day[0] = %+v", got[0])
	}
	if got[1].Date.String() != "2024-03-15" || got[1].Amount != 3000 {
		t.Errorf("day[1] = %+v", got[1])
	}
}
