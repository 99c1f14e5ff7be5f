package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wealthgrows/internal/amqp"
	"wealthgrows/internal/core"
	"wealthgrows/internal/report"
	"wealthgrows/internal/services"
	"wealthgrows/internal/store"
	"wealthgrows/internal/store/jsonfile"
)

type fakeGenerator struct{ text string }

func (g fakeGenerator) Generate(context.Context, report.Params) (string, error) {
	return g.text, nil
}

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st, err := jsonfile.New(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ledger := services.NewLedgerService(st)
	reports := services.NewReportService(st, fakeGenerator{text: "generated report"}, nil)
	srv := NewServer(":0", ledger, reports, 5*time.Minute)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, st
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
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := do(t, srv, http.MethodGet, path, ""); rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateAndListTransactions(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/transactions",
		`{"amount":"12.50","categoryId":"food","note":"lunch","date":"2025-06-03"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}

	var created core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.Amount.Cents != 1250 {
		t.Errorf("amount = %d cents, want 1250", created.Amount.Cents)
	}
	if created.Type != core.Expense || created.Macro != core.MacroDailyFood {
		t.Errorf("derived type/macro = %q/%q", created.Type, created.Macro)
	}

	rr = do(t, srv, http.MethodGet, "/api/transactions", "")
	if rr.Code != 200 {
		t.Fatalf("list status=%d", rr.Code)
	}
	var list []core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}
}

func TestCreateTransactionNumericAmount(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/transactions",
		`{"amount":9.99,"categoryId":"food"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Amount.Cents != 999 {
		t.Errorf("amount = %d cents, want 999", created.Amount.Cents)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"unknown category", `{"amount":"5.00","categoryId":"nope"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"amount":"0","categoryId":"food"}`, http.StatusBadRequest},
		{"missing amount", `{"categoryId":"food"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"amount":"5.00","categoryId":"food","date":"yesterday"}`, http.StatusUnprocessableEntity},
		{"garbage body", `{{{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/api/transactions", tc.body)
			if rr.Code != tc.want {
				t.Errorf("status=%d, want %d (body %s)", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/transactions", `{"amount":"5.00","categoryId":"food"}`)
	var created core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if rr := do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, ""); rr.Code != 200 {
		t.Fatalf("delete status=%d", rr.Code)
	}
	// Second delete of the same id still succeeds.
	if rr := do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, ""); rr.Code != 200 {
		t.Fatalf("repeat delete status=%d", rr.Code)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/categories", "")
	if rr.Code != 200 {
		t.Fatalf("list status=%d", rr.Code)
	}
	var seeded []core.Category
	if err := json.Unmarshal(rr.Body.Bytes(), &seeded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(seeded) == 0 {
		t.Fatal("expected seeded categories")
	}

	rr = do(t, srv, http.MethodPost, "/api/categories",
		`{"name":"Coffee","icon":"coffee","type":"EXPENSE","macroCategory":"ENJOYMENT"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Category
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = do(t, srv, http.MethodPost, "/api/categories",
		`{"name":"Weird","type":"EXPENSE","macroCategory":"WEIRD"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid macro status=%d", rr.Code)
	}

	if rr := do(t, srv, http.MethodDelete, "/api/categories/"+created.ID, ""); rr.Code != 200 {
		t.Fatalf("delete status=%d", rr.Code)
	}
}

func TestMonthStatsEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	seed := func(id string, cents int64, typ core.TransactionType, macro core.MacroCategory, month time.Month) {
		if _, err := st.SaveTransaction(ctx, core.Transaction{
			ID:           id,
			Amount:       core.Money{Cents: cents},
			Type:         typ,
			CategoryID:   "food",
			CategoryName: "Dining",
			Macro:        macro,
			Date:         time.Date(2025, month, 10, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	seed("inc", 10000, core.Income, core.MacroIncome, time.June)
	seed("exp", 4000, core.Expense, core.MacroDailyFood, time.June)
	seed("inv", 2000, core.Expense, core.MacroInvestment, time.June)
	seed("prev", 500, core.Expense, core.MacroSurvival, time.May)

	rr := do(t, srv, http.MethodGet, "/api/stats/month?year=2025&month=6", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	var resp monthStatsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Stats.TotalIncome.Cents != 10000 || resp.Stats.TotalExpense.Cents != 6000 {
		t.Errorf("stats income/expense = %d/%d", resp.Stats.TotalIncome.Cents, resp.Stats.TotalExpense.Cents)
	}
	if resp.Stats.Savings.Cents != 6000 {
		t.Errorf("savings = %d, want 6000", resp.Stats.Savings.Cents)
	}
	if resp.PreviousStats.TotalExpense.Cents != 500 {
		t.Errorf("previous expense = %d, want 500", resp.PreviousStats.TotalExpense.Cents)
	}
}

func TestYearsEndpoint(t *testing.T) {
	srv, st := newTestServer(t)

	if _, err := st.SaveTransaction(context.Background(), core.Transaction{
		ID:           "old",
		Amount:       core.Money{Cents: 100},
		Type:         core.Expense,
		CategoryID:   "food",
		CategoryName: "Dining",
		Macro:        core.MacroDailyFood,
		Date:         time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := do(t, srv, http.MethodGet, "/api/years", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	var years []int
	if err := json.Unmarshal(rr.Body.Bytes(), &years); err != nil {
		t.Fatalf("decode: %v", err)
	}
	current := time.Now().Year()
	if len(years) < 2 || years[0] != current || years[len(years)-1] != 2023 {
		t.Errorf("years = %v, want [%d .. 2023]", years, current)
	}
}

func TestStatsRejectMalformedPeriodParams(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name   string
		target string
	}{
		{"month with bad year", "/api/stats/month?year=banana"},
		{"month with bad month", "/api/stats/month?year=2025&month=banana"},
		{"month out of range", "/api/stats/month?year=2025&month=13"},
		{"year with bad year", "/api/stats/year?year=banana"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodGet, tc.target, "")
			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("status=%d, want 422 (body %s)", rr.Code, rr.Body.String())
			}
		})
	}

	// Absent parameters still default to the current period.
	if rr := do(t, srv, http.MethodGet, "/api/stats/month", ""); rr.Code != 200 {
		t.Errorf("default period status=%d", rr.Code)
	}
}

func TestReportEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/reports?period=2025-06", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing report status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/api/reports",
		`{"scope":"monthly","year":2025,"month":6,"note":"how did June go"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("request status=%d body=%s", rr.Code, rr.Body.String())
	}
	var rep store.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Period != "2025-06" || rep.Body != "generated report" {
		t.Errorf("report = %+v", rep)
	}

	rr = do(t, srv, http.MethodGet, "/api/reports?period=2025-06", "")
	if rr.Code != 200 {
		t.Fatalf("get status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/api/reports", `{"scope":"weekly","year":2025}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad scope status=%d", rr.Code)
	}
	rr = do(t, srv, http.MethodPost, "/api/reports", `{"scope":"monthly","year":2025,"month":13}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad month status=%d", rr.Code)
	}
}

type fakePublisher struct{ published int }

func (p *fakePublisher) PublishReportRequest(context.Context, *amqp.ReportRequestMessage) error {
	p.published++
	return nil
}

func TestQueuedReportRequestEvictsCachedReport(t *testing.T) {
	st, err := jsonfile.New(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	pub := &fakePublisher{}
	ledger := services.NewLedgerService(st)
	reports := services.NewReportService(st, nil, pub)
	srv := NewServer(":0", ledger, reports, 5*time.Minute)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	srv.reportCache.Set("2025-06", store.Report{Period: "2025-06", Body: "stale"})

	rr := do(t, srv, http.MethodPost, "/api/reports", `{"scope":"monthly","year":2025,"month":6}`)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if pub.published != 1 {
		t.Fatalf("published %d messages, want 1", pub.published)
	}
	if _, ok := srv.reportCache.Get("2025-06"); ok {
		t.Error("stale report still cached after queueing regeneration")
	}
}

func TestMutationRateLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	limited := false
	for i := 0; i < 70; i++ {
		rr := do(t, srv, http.MethodPost, "/api/transactions",
			fmt.Sprintf(`{"amount":"1.00","categoryId":"food","note":"n%d"}`, i))
		if rr.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected rate limiting to kick in for rapid mutations")
	}

	// Reads stay unthrottled.
	if rr := do(t, srv, http.MethodGet, "/api/transactions", ""); rr.Code != 200 {
		t.Errorf("read throttled: status=%d", rr.Code)
	}
}
