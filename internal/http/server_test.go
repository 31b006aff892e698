package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gagyebu/internal/dataset"
	"gagyebu/internal/services"
	"gagyebu/internal/sheets/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()

	store := memory.New()
	store.SetTable("지출내역",
		[]string{"날짜", "사용자", "분류", "내용", "결제수단", "금액"},
		[][]any{
			{"2024-03-01", "공동", "식비", "장보기", "카드", "5,000"},
			{"2024-03-15", "A", "교통", "지하철", "카드", "3,000"},
		})
	store.SetTable("수입내역",
		[]string{"날짜", "수입원", "내용", "금액"},
		[][]any{{"2024-03-25", "급여", "3월 급여", "3,000,000"}})
	store.SetTable("고정지출",
		[]string{"날짜", "담당", "항목", "금액"},
		[][]any{{"2024-03-05", "B", "월세", "800,000"}})
	store.SetTable("일정", []string{"날짜", "일정"}, [][]any{{"2024-03-10", "관리비 납부"}})
	store.SetTable("대출", []string{"항목", "잔액"}, [][]any{{"전세자금", "120,000,000"}})
	store.SetTable("식비미션", []string{"주간목표", "실제지출"}, [][]any{{"100,000", "80,000"}})
	store.SetTable("예산계획", []string{"항목", "예산"}, [][]any{{"식비", "400,000"}})

	builder := dataset.NewBuilder(store, nil, dataset.Config{})
	srv := NewServer("127.0.0.1:0", builder, nil, Config{})
	t.Cleanup(func() { srv.manager.Stop(); srv.limiter.stop() })

	ledger := services.NewLedgerService(store, store, builder, srv, nil, services.LedgerConfig{
		Retries:    2,
		RetryDelay: time.Millisecond,
	})
	srv.SetLedger(ledger)

	return srv, store
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := do(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/dashboard?month=2024-03", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var view dashboardView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Month != "2024-03" {
		t.Errorf("month = %q", view.Month)
	}
	if view.ExpenseTotal != 8000 {
		t.Errorf("expense total = %d, want 8000", view.ExpenseTotal)
	}
	if view.IncomeTotal != 3000000 || view.Net != 2992000 {
		t.Errorf("income = %d, net = %d", view.IncomeTotal, view.Net)
	}
	if view.FixedTotal != 800000 || view.LoanBalance != 120000000 {
		t.Errorf("fixed = %d, loans = %d", view.FixedTotal, view.LoanBalance)
	}
	if len(view.ByCategory) != 2 || view.ByCategory[0].Name != "식비" {
		t.Errorf("by_category = %+v", view.ByCategory)
	}
	// Budget outer join: the planned 식비 line plus the unplanned 교통 spend.
	if len(view.Budget) != 2 || view.Budget[0].Item != "식비" || view.Budget[1].Planned != 0 {
		t.Errorf("budget = %+v", view.Budget)
	}
}

func TestDashboardInvalidMonth(t *testing.T) {
	srv, _ := newTestServer(t)
	if rec := do(t, srv, http.MethodGet, "/api/dashboard?month=март", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExpensesReadAfterWrite(t *testing.T) {
	srv, _ := newTestServer(t)

	// Prime the snapshot cache.
	if rec := do(t, srv, http.MethodGet, "/api/expenses?month=2024-03", ""); rec.Code != http.StatusOK {
		t.Fatalf("initial read = %d", rec.Code)
	}

	body := `{"date":"2024-03-20","payer":"A","category":"식비","description":"외식","method":"카드","amount":"25,000"}`
	rec := do(t, srv, http.MethodPost, "/api/expenses", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("post = %d: %s", rec.Code, rec.Body)
	}

	// The write invalidated the snapshot, so the next read sees the entry.
	rec = do(t, srv, http.MethodGet, "/api/expenses?month=2024-03", "")
	var resp struct {
		Entries []json.RawMessage `json:"entries"`
		Total   int64             `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(resp.Entries))
	}
	if resp.Total != 33000 {
		t.Errorf("total = %d, want 33000", resp.Total)
	}
}

func TestAddExpenseRejectsInvalid(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad date", `{"date":"내일","category":"식비","amount":1000}`},
		{"bad amount", `{"date":"2024-03-01","category":"식비","amount":"abc"}`},
		{"empty category", `{"date":"2024-03-01","category":"","amount":1000}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/expenses", tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422: %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestAddIncome(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"date":"2024-03-28","source":"이자","description":"예금이자","amount":15000}`
	rec := do(t, srv, http.MethodPost, "/api/income", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("post = %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, srv, http.MethodGet, "/api/income?month=2024-03", "")
	var resp struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3015000 {
		t.Errorf("total = %d, want 3015000", resp.Total)
	}
}

func TestCalendarServesMergedEvents(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/calendar?month=2024-03", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Daily []struct {
			Date   string `json:"date"`
			Amount int64  `json:"amount"`
		} `json:"daily"`
		Events []struct {
			Title  string `json:"title"`
			AllDay bool   `json:"all_day"`
		} `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Events) != 1 || resp.Events[0].Title != "관리비 납부" || !resp.Events[0].AllDay {
		t.Errorf("events = %+v", resp.Events)
	}
	if len(resp.Daily) != 2 || resp.Daily[0].Date != "2024-03-01" || resp.Daily[0].Amount != 5000 {
		t.Errorf("daily = %+v", resp.Daily)
	}
}

func TestRefreshReloadsSnapshot(t *testing.T) {
	srv, store := newTestServer(t)

	// Prime, then change the sheet behind the cache's back.
	do(t, srv, http.MethodGet, "/api/dashboard?month=2024-03", "")
	store.SetTable("대출", []string{"항목", "잔액"}, nil)

	// Cached snapshot still shows the loan.
	rec := do(t, srv, http.MethodGet, "/api/loans", "")
	var loans struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loans.Total != 120000000 {
		t.Errorf("cached total = %d", loans.Total)
	}

	if rec := do(t, srv, http.MethodPost, "/api/refresh", ""); rec.Code != http.StatusOK {
		t.Fatalf("refresh = %d", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/loans", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &loans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loans.Total != 0 {
		t.Errorf("total after refresh = %d, want 0", loans.Total)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	if rec := do(t, srv, http.MethodDelete, "/api/dashboard", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/refresh", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("refresh GET = %d, want 405", rec.Code)
	}
}
