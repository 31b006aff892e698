package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gagyebu/internal/core"
)

// dashboardView is the aggregated month view served at /api/dashboard.
type dashboardView struct {
	Month        string                  `json:"month"`
	ExpenseTotal int64                   `json:"expense_total"`
	IncomeTotal  int64                   `json:"income_total"`
	Net          int64                   `json:"net"`
	FixedTotal   int64                   `json:"fixed_total"`
	LoanBalance  int64                   `json:"loan_balance"`
	ByCategory   []core.CategoryAmount   `json:"by_category"`
	Budget       []core.BudgetAttainment `json:"budget"`
	Daily        []core.DailyAmount      `json:"daily"`
	Mission      []core.MissionEntry     `json:"mission"`
	LoadedAt     time.Time               `json:"loaded_at"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	snap := s.snapshot(r.Context())

	// The view cache key carries the snapshot's load time, so a reload
	// naturally orphans views built from the previous snapshot.
	key := month.String() + "@" + snap.LoadedAt.Format(time.RFC3339Nano)
	if view, hit := s.viewCache.Get(key); hit {
		writeJSON(w, http.StatusOK, view)
		return
	}

	var fixedTotal int64
	for _, f := range snap.FixedCosts {
		if f.Month.Equal(month) {
			fixedTotal += f.Amount
		}
	}
	var incomeTotal int64
	for _, in := range snap.Income {
		if in.Month.Equal(month) {
			incomeTotal += in.Amount
		}
	}
	var loanBalance int64
	for _, l := range snap.Loans {
		loanBalance += l.Balance
	}

	expenseTotal := core.MonthlyTotal(snap.Expenses, month)
	view := dashboardView{
		Month:        month.String(),
		ExpenseTotal: expenseTotal,
		IncomeTotal:  incomeTotal,
		Net:          incomeTotal - expenseTotal,
		FixedTotal:   fixedTotal,
		LoanBalance:  loanBalance,
		ByCategory:   core.CategoryBreakdown(snap.Expenses, month),
		Budget:       core.BudgetAttainments(snap.Expenses, snap.BudgetPlan, month),
		Daily:        core.DailyTotals(snap.Expenses, month),
		Mission:      snap.Mission,
		LoadedAt:     snap.LoadedAt,
	}
	s.viewCache.Set(key, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		month, ok := monthParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		snap := s.snapshot(r.Context())
		entries := make([]core.ExpenseEntry, 0, len(snap.Expenses))
		for _, e := range snap.Expenses {
			if e.Month.Equal(month) {
				entries = append(entries, e)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"month":   month.String(),
			"entries": entries,
			"total":   core.MonthlyTotal(snap.Expenses, month),
		})
	case http.MethodPost:
		s.handleAddExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type expenseRequest struct {
	Date        string `json:"date"`
	Payer       string `json:"payer"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Method      string `json:"method"`
	Amount      any    `json:"amount"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusServiceUnavailable, "write path not configured")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, ok := core.NormalizeDate(req.Date)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidDate.Error())
		return
	}
	amount, ok := core.NormalizeAmount(req.Amount)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidAmount.Error())
		return
	}

	entry := core.ExpenseEntry{
		Date:        date,
		Payer:       req.Payer,
		Category:    req.Category,
		Description: req.Description,
		Method:      req.Method,
		Amount:      amount,
		Month:       core.MonthOf(date),
	}
	if err := s.ledger.AddExpense(r.Context(), entry); err != nil {
		writeWriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		month, ok := monthParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		snap := s.snapshot(r.Context())
		entries := make([]core.IncomeEntry, 0, len(snap.Income))
		var total int64
		for _, e := range snap.Income {
			if e.Month.Equal(month) {
				entries = append(entries, e)
				total += e.Amount
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"month":   month.String(),
			"entries": entries,
			"total":   total,
		})
	case http.MethodPost:
		s.handleAddIncome(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type incomeRequest struct {
	Date        string `json:"date"`
	Source      string `json:"source"`
	Description string `json:"description"`
	Amount      any    `json:"amount"`
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusServiceUnavailable, "write path not configured")
		return
	}

	var req incomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, ok := core.NormalizeDate(req.Date)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidDate.Error())
		return
	}
	amount, ok := core.NormalizeAmount(req.Amount)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidAmount.Error())
		return
	}

	entry := core.IncomeEntry{
		Date:        date,
		Source:      req.Source,
		Description: req.Description,
		Amount:      amount,
		Month:       core.MonthOf(date),
	}
	if err := s.ledger.AddIncome(r.Context(), entry); err != nil {
		writeWriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// writeWriteError maps validation failures to 422 and everything else to 502,
// since a failed append means the backing sheet rejected or dropped the write.
func writeWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptySource),
		errors.Is(err, core.ErrDescriptionTooLong):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Ledger append failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to write entry")
	}
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}
	snap := s.snapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"month":  month.String(),
		"daily":  core.DailyTotals(snap.Expenses, month),
		"events": snap.Events,
	})
}

func (s *Server) handleLoans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := s.snapshot(r.Context())
	var total int64
	for _, l := range snap.Loans {
		total += l.Balance
	}
	writeJSON(w, http.StatusOK, map[string]any{"loans": snap.Loans, "total": total})
}

func (s *Server) handleFixed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}
	snap := s.snapshot(r.Context())
	entries := make([]core.FixedCostEntry, 0, len(snap.FixedCosts))
	var total int64
	for _, f := range snap.FixedCosts {
		if f.Month.Equal(month) {
			entries = append(entries, f)
			total += f.Amount
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":   month.String(),
		"entries": entries,
		"total":   total,
	})
}

func (s *Server) handleMission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := s.snapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"mission": snap.Mission})
}

// handleRefresh drops the caches and loads a fresh snapshot immediately.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.Invalidate()
	snap := s.snapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"loaded_at": snap.LoadedAt,
		"expenses":  len(snap.Expenses),
		"income":    len(snap.Income),
		"events":    len(snap.Events),
	})
}
