package core

import "sort"

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// BudgetAttainment compares one budget-plan line against actual spending.
type BudgetAttainment struct {
	Item    string  `json:"item"`
	Planned int64   `json:"planned"`
	Used    int64   `json:"used"`
	Ratio   float64 `json:"ratio"` // Used/Planned, 0 when Planned is 0
}

// DailyAmount is the expense sum for one exact date.
type DailyAmount struct {
	Date   Date  `json:"date"`
	Amount int64 `json:"amount"`
}

// MonthlyTotal sums expense amounts whose year-month bucket equals m.
// Rows with an absent date (and therefore no bucket) are excluded.
func MonthlyTotal(entries []ExpenseEntry, m Month) int64 {
	var total int64
	for _, e := range entries {
		if e.Date.IsZero() || !e.Month.Equal(m) {
			continue
		}
		total += e.Amount
	}
	return total
}

// CategoryBreakdown groups a month's expenses by category, preserving
// first-seen order. Uncategorized rows fall under "기타".
func CategoryBreakdown(entries []ExpenseEntry, m Month) []CategoryAmount {
	byCat := map[string]int64{}
	order := make([]string, 0)
	for _, e := range entries {
		if e.Date.IsZero() || !e.Month.Equal(m) {
			continue
		}
		name := e.Category
		if name == "" {
			name = "기타"
		}
		if _, seen := byCat[name]; !seen {
			order = append(order, name)
		}
		byCat[name] += e.Amount
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: byCat[name]})
	}
	return out
}

// BudgetAttainments joins a month's category spending against the budget
// plan with outer-join semantics: plan items with no spending show zero
// usage, spent categories with no plan line show zero budget. The ratio is
// 0, not an error, when the planned amount is 0.
func BudgetAttainments(entries []ExpenseEntry, plan []BudgetPlanEntry, m Month) []BudgetAttainment {
	used := map[string]int64{}
	for _, c := range CategoryBreakdown(entries, m) {
		used[c.Name] = c.Amount
	}

	out := make([]BudgetAttainment, 0, len(plan))
	planned := map[string]bool{}
	for _, p := range plan {
		a := BudgetAttainment{Item: p.Item, Planned: p.Planned, Used: used[p.Item]}
		if p.Planned > 0 {
			a.Ratio = float64(a.Used) / float64(p.Planned)
		}
		out = append(out, a)
		planned[p.Item] = true
	}

	// Categories spent against no plan line, in breakdown order.
	for _, c := range CategoryBreakdown(entries, m) {
		if planned[c.Name] {
			continue
		}
		out = append(out, BudgetAttainment{Item: c.Name, Used: c.Amount})
	}
	return out
}

// DailyTotals groups a month's expenses by exact date for the calendar
// overlay, keeping only strictly positive sums, ordered by date.
func DailyTotals(entries []ExpenseEntry, m Month) []DailyAmount {
	byDate := map[string]int64{}
	dates := map[string]Date{}
	for _, e := range entries {
		if e.Date.IsZero() || !e.Month.Equal(m) {
			continue
		}
		key := e.Date.String()
		byDate[key] += e.Amount
		dates[key] = e.Date
	}

	keys := make([]string, 0, len(byDate))
	for k, sum := range byDate {
		if sum > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]DailyAmount, 0, len(keys))
	for _, k := range keys {
		out = append(out, DailyAmount{Date: dates[k], Amount: byDate[k]})
	}
	return out
}
