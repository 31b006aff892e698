package dataset

import (
	"time"

	"gagyebu/internal/core"
)

// Snapshot is the fixed-arity result of one full data load: the seven
// logical tables plus the merged event list. Every load produces all eight
// members; a failed source yields its empty member, never a missing one.
type Snapshot struct {
	Expenses   []core.ExpenseEntry
	Income     []core.IncomeEntry
	FixedCosts []core.FixedCostEntry
	Schedule   []core.ScheduleEntry
	Loans      []core.LoanEntry
	Mission    []core.MissionEntry
	BudgetPlan []core.BudgetPlanEntry
	Events     []core.Event

	LoadedAt time.Time
}

// EmptySnapshot returns the all-empty default with every member non-nil,
// so consumers can range and marshal without nil checks.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Expenses:   []core.ExpenseEntry{},
		Income:     []core.IncomeEntry{},
		FixedCosts: []core.FixedCostEntry{},
		Schedule:   []core.ScheduleEntry{},
		Loans:      []core.LoanEntry{},
		Mission:    []core.MissionEntry{},
		BudgetPlan: []core.BudgetPlanEntry{},
		Events:     []core.Event{},
		LoadedAt:   time.Now(),
	}
}
