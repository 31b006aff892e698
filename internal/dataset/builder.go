// Package dataset builds normalized snapshots of the household ledger from
// the backing spreadsheet and the external calendar.
//
// Failure policy: each of the seven tables and the event import is isolated.
// A source that cannot be read logs a warning and contributes its empty
// member to the snapshot; the other sources are unaffected. Nothing here
// returns an error to the caller.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gagyebu/internal/calendar"
	"gagyebu/internal/core"
	"gagyebu/internal/schema"
	"gagyebu/internal/sheets"
)

// ScheduleEventColor is the fixed display color for locally-scheduled rows.
const ScheduleEventColor = "#90caf9"

// Config tunes a Builder.
type Config struct {
	// WindowDays is the ± range around now for the calendar import.
	WindowDays int
	// Tabs overrides the default tab name per logical table.
	Tabs map[string]string
}

// Builder orchestrates the fetch-and-normalize pass over all sources.
// Either dependency may be nil; a nil source contributes empty members.
type Builder struct {
	fetcher sheets.TableFetcher
	events  calendar.EventLister
	cfg     Config
	now     func() time.Time
}

func NewBuilder(fetcher sheets.TableFetcher, events calendar.EventLister, cfg Config) *Builder {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 60
	}
	return &Builder{fetcher: fetcher, events: events, cfg: cfg, now: time.Now}
}

// TabFor returns the sheet tab backing a logical table.
func (b *Builder) TabFor(table schema.Table) string {
	if tab, ok := b.cfg.Tabs[table.Name]; ok && tab != "" {
		return tab
	}
	return table.Tab
}

// LoadAll fetches and normalizes all seven tables and the event list
// concurrently. It always returns a complete snapshot; per-source failures
// degrade that source to empty.
func (b *Builder) LoadAll(ctx context.Context) *Snapshot {
	snap := EmptySnapshot()

	var g errgroup.Group
	g.Go(func() error {
		snap.Expenses = buildExpenses(b.fetchRaw(ctx, schema.Expenses))
		return nil
	})
	g.Go(func() error {
		snap.Income = buildIncome(b.fetchRaw(ctx, schema.Income))
		return nil
	})
	g.Go(func() error {
		snap.FixedCosts = buildFixedCosts(b.fetchRaw(ctx, schema.FixedCosts))
		return nil
	})
	g.Go(func() error {
		snap.Schedule = buildSchedule(b.fetchRaw(ctx, schema.Schedule))
		return nil
	})
	g.Go(func() error {
		snap.Loans = buildLoans(b.fetchRaw(ctx, schema.Loans))
		return nil
	})
	g.Go(func() error {
		snap.Mission = buildMission(b.fetchRaw(ctx, schema.Mission))
		return nil
	})
	g.Go(func() error {
		snap.BudgetPlan = buildBudgetPlan(b.fetchRaw(ctx, schema.BudgetPlan))
		return nil
	})

	var external []core.Event
	g.Go(func() error {
		external = b.fetchEvents(ctx)
		return nil
	})

	g.Wait() // no goroutine returns an error; isolation is the point

	snap.Events = mergeEvents(external, snap.Schedule)
	snap.LoadedAt = b.now()
	return snap
}

// fetchRaw reads one logical table, degrading any failure to no rows.
func (b *Builder) fetchRaw(ctx context.Context, name string) []core.RawRecord {
	table, ok := schema.Lookup(name)
	if !ok || b.fetcher == nil {
		return nil
	}
	tab := b.TabFor(table)
	raws, err := b.fetcher.FetchTable(ctx, tab)
	if err != nil {
		slog.WarnContext(ctx, "Table fetch failed, serving empty table",
			"table", name, "tab", tab, "error", err)
		return nil
	}
	return raws
}

func (b *Builder) fetchEvents(ctx context.Context) []core.Event {
	if b.events == nil {
		return nil
	}
	w := calendar.WindowAround(b.now(), b.cfg.WindowDays)
	events, err := b.events.ListEvents(ctx, w)
	if err != nil {
		slog.WarnContext(ctx, "Calendar import failed, serving empty event list",
			"from", w.From, "to", w.To, "error", err)
		return nil
	}
	return events
}

// mergeEvents combines external events with schedule rows into one list
// ordered by start time.
func mergeEvents(external []core.Event, schedule []core.ScheduleEntry) []core.Event {
	merged := make([]core.Event, 0, len(external)+len(schedule))
	merged = append(merged, external...)
	for _, s := range schedule {
		merged = append(merged, s.AsEvent(ScheduleEventColor))
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})
	return merged
}

// rowReader resolves a table's column aliases once and reads logical
// fields out of raw records.
type rowReader struct {
	resolved map[string]string
}

func newRowReader(name string, raws []core.RawRecord) rowReader {
	table, _ := schema.Lookup(name)
	return rowReader{resolved: table.Resolve(columnsOf(raws))}
}

func columnsOf(raws []core.RawRecord) []string {
	seen := map[string]bool{}
	var cols []string
	for _, r := range raws {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

func (rr rowReader) text(rec core.RawRecord, field string) string {
	col, ok := rr.resolved[field]
	if !ok {
		return ""
	}
	v := rec[col]
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func (rr rowReader) amount(rec core.RawRecord, field string) (int64, bool) {
	col, ok := rr.resolved[field]
	if !ok {
		return 0, false
	}
	return core.NormalizeAmount(rec[col])
}

func (rr rowReader) amountOrZero(rec core.RawRecord, field string) int64 {
	n, _ := rr.amount(rec, field)
	return n
}

func (rr rowReader) date(rec core.RawRecord, field string) (core.Date, bool) {
	col, ok := rr.resolved[field]
	if !ok {
		return core.Date{}, false
	}
	return core.NormalizeDate(rec[col])
}

func buildExpenses(raws []core.RawRecord) []core.ExpenseEntry {
	rr := newRowReader(schema.Expenses, raws)
	out := make([]core.ExpenseEntry, 0, len(raws))
	for _, rec := range raws {
		date, ok := rr.date(rec, schema.FieldDate)
		if !ok {
			// Date is the bucketing key; a row without one cannot
			// appear in any dated view.
			continue
		}
		out = append(out, core.ExpenseEntry{
			Date:        date,
			Payer:       rr.text(rec, schema.FieldPayer),
			Category:    rr.text(rec, schema.FieldCategory),
			Description: rr.text(rec, schema.FieldDescription),
			Method:      rr.text(rec, schema.FieldMethod),
			Amount:      rr.amountOrZero(rec, schema.FieldAmount),
			Month:       core.MonthOf(date),
		})
	}
	return out
}

func buildIncome(raws []core.RawRecord) []core.IncomeEntry {
	rr := newRowReader(schema.Income, raws)
	out := make([]core.IncomeEntry, 0, len(raws))
	for _, rec := range raws {
		date, ok := rr.date(rec, schema.FieldDate)
		if !ok {
			continue
		}
		out = append(out, core.IncomeEntry{
			Date:        date,
			Source:      rr.text(rec, schema.FieldSource),
			Description: rr.text(rec, schema.FieldDescription),
			Amount:      rr.amountOrZero(rec, schema.FieldAmount),
			Month:       core.MonthOf(date),
		})
	}
	return out
}

func buildFixedCosts(raws []core.RawRecord) []core.FixedCostEntry {
	rr := newRowReader(schema.FixedCosts, raws)
	out := make([]core.FixedCostEntry, 0, len(raws))
	for _, rec := range raws {
		date, ok := rr.date(rec, schema.FieldDate)
		if !ok {
			continue
		}
		out = append(out, core.FixedCostEntry{
			Date:   date,
			Owner:  rr.text(rec, schema.FieldOwner),
			Item:   rr.text(rec, schema.FieldItem),
			Amount: rr.amountOrZero(rec, schema.FieldAmount),
			Month:  core.MonthOf(date),
		})
	}
	return out
}

func buildSchedule(raws []core.RawRecord) []core.ScheduleEntry {
	rr := newRowReader(schema.Schedule, raws)
	out := make([]core.ScheduleEntry, 0, len(raws))
	for _, rec := range raws {
		date, ok := rr.date(rec, schema.FieldDate)
		if !ok {
			continue
		}
		title := rr.text(rec, schema.FieldTitle)
		if title == "" {
			continue
		}
		out = append(out, core.ScheduleEntry{Date: date, Title: title})
	}
	return out
}

func buildLoans(raws []core.RawRecord) []core.LoanEntry {
	rr := newRowReader(schema.Loans, raws)
	out := make([]core.LoanEntry, 0, len(raws))
	for _, rec := range raws {
		item := rr.text(rec, schema.FieldItem)
		if item == "" {
			continue
		}
		out = append(out, core.LoanEntry{
			Item:    item,
			Balance: rr.amountOrZero(rec, schema.FieldBalance),
		})
	}
	return out
}

func buildMission(raws []core.RawRecord) []core.MissionEntry {
	rr := newRowReader(schema.Mission, raws)
	out := make([]core.MissionEntry, 0, len(raws))
	for _, rec := range raws {
		goal := rr.amountOrZero(rec, schema.FieldGoal)
		spent := rr.amountOrZero(rec, schema.FieldSpent)
		remaining, ok := rr.amount(rec, schema.FieldRemaining)
		if !ok {
			remaining = goal - spent
		}
		if goal == 0 && spent == 0 {
			continue
		}
		out = append(out, core.MissionEntry{
			WeeklyGoal: goal,
			Spent:      spent,
			Remaining:  remaining,
		})
	}
	return out
}

func buildBudgetPlan(raws []core.RawRecord) []core.BudgetPlanEntry {
	rr := newRowReader(schema.BudgetPlan, raws)
	out := make([]core.BudgetPlanEntry, 0, len(raws))
	for _, rec := range raws {
		item := rr.text(rec, schema.FieldItem)
		if item == "" {
			continue
		}
		out = append(out, core.BudgetPlanEntry{
			Item:    item,
			Planned: rr.amountOrZero(rec, schema.FieldPlanned),
		})
	}
	return out
}
