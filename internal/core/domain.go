package core

import (
	"errors"
	"strings"
	"time"
)

// RawRecord is one spreadsheet row keyed by its header labels. Values come
// back from the Sheets API as strings or numbers.
type RawRecord map[string]any

// PayerShared marks an expense carried by the household rather than one person.
const PayerShared = "공동"

type (
	// ExpenseEntry is one row of the expense log.
	ExpenseEntry struct {
		Date        Date   `json:"date"`
		Payer       string `json:"payer"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Method      string `json:"method"` // payment method, open enum
		Amount      int64  `json:"amount"`
		Month       Month  `json:"month"` // derived year-month bucket
	}

	// IncomeEntry is one row of the income log.
	IncomeEntry struct {
		Date        Date   `json:"date"`
		Source      string `json:"source"` // payer or source category
		Description string `json:"description"`
		Amount      int64  `json:"amount"`
		Month       Month  `json:"month"`
	}

	// FixedCostEntry is one row of the fixed-costs tab.
	FixedCostEntry struct {
		Date   Date   `json:"date"`
		Owner  string `json:"owner"`
		Item   string `json:"item"`
		Amount int64  `json:"amount"`
		Month  Month  `json:"month"`
	}

	// ScheduleEntry is one locally-kept schedule row; merged into the
	// event list alongside externally imported calendar events.
	ScheduleEntry struct {
		Date  Date   `json:"date"`
		Title string `json:"title"`
	}

	// LoanEntry is one outstanding loan balance.
	LoanEntry struct {
		Item    string `json:"item"`
		Balance int64  `json:"balance"`
	}

	// MissionEntry is one row of the weekly meal-budget mission.
	MissionEntry struct {
		WeeklyGoal int64 `json:"weekly_goal"`
		Spent      int64 `json:"spent"`
		Remaining  int64 `json:"remaining"` // goal - spent when the sheet leaves it blank
	}

	// BudgetPlanEntry is one planned budget line.
	BudgetPlanEntry struct {
		Item    string `json:"item"`
		Planned int64  `json:"planned"`
	}

	// Event is a display event for the calendar overlay. External calendar
	// events and schedule rows both map into this shape.
	Event struct {
		Title  string    `json:"title"`
		Start  time.Time `json:"start"`
		AllDay bool      `json:"all_day"`
		Color  string    `json:"color"`
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptySource        = errors.New("empty source")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// Validate checks an expense entry before it is written to the backing
// store. Reads are fail-soft; writes are not.
func (e ExpenseEntry) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

// Validate checks an income entry before it is written.
func (e IncomeEntry) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Source) == "" {
		return ErrEmptySource
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

// AsEvent maps a schedule row into a display event.
func (s ScheduleEntry) AsEvent(color string) Event {
	return Event{Title: s.Title, Start: s.Date.Time, AllDay: true, Color: color}
}
