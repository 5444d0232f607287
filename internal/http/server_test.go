package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"expendinator/internal/cache"
	"expendinator/internal/core"
	"expendinator/internal/services"
	"expendinator/internal/storage"
)

// testEnv runs the full stack against a temp-file SQLite database, with the
// clock pinned to 2025-06-01 for active-window checks.
type testEnv struct {
	ts     *httptest.Server
	userID int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	userID, err := repo.CreateUser(context.Background(), "test@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	today := func() core.Date { return core.NewDate(2025, 6, 1) }

	categoryCache := cache.NewLRUCache[[]core.Category](64, time.Minute)
	categoryService := services.NewCategoryService(repo, categoryCache)
	matcher := services.NewCategoryMatcher(repo)
	expenseService := services.NewExpenseService(repo, nil)
	budgetService := services.NewBudgetService(repo)
	usageService := services.NewUsageService(repo, repo).WithNow(today)
	generator := core.NewReceiptGenerator(rand.New(rand.NewSource(1)))
	ocrService := services.NewOcrService(categoryService, repo, matcher, nil, generator).WithNow(today)

	srv := NewServer(":0", Deps{
		Auth:              HeaderAuthenticator{Header: "X-User-ID"},
		Categories:        categoryService,
		Expenses:          expenseService,
		Budgets:           budgetService,
		Usage:             usageService,
		Ocr:               ocrService,
		RequestsPerMinute: 10000,
	})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	t.Cleanup(func() { srv.rateLimiter.Stop() })

	return &testEnv{ts: ts, userID: userID}
}

// do sends a request as the test user and decodes the JSON response into out
// when out is non-nil.
func (e *testEnv) do(t *testing.T, method, path string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			encoded, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal request: %v", err)
			}
			reader = bytes.NewBuffer(encoded)
		}
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", fmt.Sprintf("%d", e.userID))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (e *testEnv) createCategory(t *testing.T, name string) int64 {
	t.Helper()
	var created struct {
		ID int64 `json:"id"`
	}
	status := e.do(t, http.MethodPost, "/categories",
		map[string]any{"name": name}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create category %q: status %d", name, status)
	}
	return created.ID
}

func (e *testEnv) createBudget(t *testing.T, categoryID int64, limit float64, from, to string) int64 {
	t.Helper()
	var created struct {
		ID int64 `json:"id"`
	}
	status := e.do(t, http.MethodPost, "/budgets", map[string]any{
		"category_id":  categoryID,
		"limit_amount": limit,
		"period":       "MONTHLY",
		"start_date":   from,
		"end_date":     to,
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create budget: status %d", status)
	}
	return created.ID
}

func (e *testEnv) createExpense(t *testing.T, title string, amount float64, date string, categoryID int64) {
	t.Helper()
	body := map[string]any{"title": title, "amount": amount, "date": date}
	if categoryID != 0 {
		body["category_id"] = categoryID
	}
	if status := e.do(t, http.MethodPost, "/expenses", body, nil); status != http.StatusCreated {
		t.Fatalf("create expense %q: status %d", title, status)
	}
}

func TestPingNeedsNoAuth(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.ts.URL + "/ping")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ping status %d", resp.StatusCode)
	}
}

func TestAPIRejectsMissingUser(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.ts.URL + "/categories")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

// Scenario: over-limit budget reports spent=12000, percent 1.2, over.
func TestBudgetUsageOverLimit(t *testing.T) {
	env := newTestEnv(t)
	catID := env.createCategory(t, "Transporte")
	env.createBudget(t, catID, 10000, "2025-03-01", "2025-03-31")
	env.createExpense(t, "Nafta", 7000, "2025-03-10", catID)
	env.createExpense(t, "Peajes", 5000, "2025-03-20", catID)
	env.createExpense(t, "Fuera de ventana", 99999, "2025-04-02", catID)

	var report []map[string]any
	if status := env.do(t, http.MethodGet, "/budgets/usage", nil, &report); status != http.StatusOK {
		t.Fatalf("usage status %d", status)
	}
	if len(report) != 1 {
		t.Fatalf("expected 1 row, got %d", len(report))
	}
	row := report[0]
	if row["spent"] != 12000.0 {
		t.Fatalf("spent = %v", row["spent"])
	}
	if row["percent_used"] != 1.2 {
		t.Fatalf("percent_used = %v", row["percent_used"])
	}
	if row["remaining"] != 0.0 {
		t.Fatalf("remaining = %v", row["remaining"])
	}
	if row["over"] != true {
		t.Fatalf("over = %v", row["over"])
	}
	if row["effective_start_date"] != "2025-03-01" || row["effective_end_date"] != "2025-03-31" {
		t.Fatalf("effective window %v..%v", row["effective_start_date"], row["effective_end_date"])
	}
}

// Scenario: spending exactly the limit is not over.
func TestBudgetUsageExactLimit(t *testing.T) {
	env := newTestEnv(t)
	catID := env.createCategory(t, "Transporte")
	env.createBudget(t, catID, 10000, "2025-03-01", "2025-03-31")
	env.createExpense(t, "Todo el límite", 10000, "2025-03-15", catID)

	var report []map[string]any
	env.do(t, http.MethodGet, "/budgets/usage", nil, &report)
	if len(report) != 1 {
		t.Fatalf("expected 1 row, got %d", len(report))
	}
	if report[0]["over"] != false {
		t.Fatalf("over = %v", report[0]["over"])
	}
	if report[0]["remaining"] != 0.0 {
		t.Fatalf("remaining = %v", report[0]["remaining"])
	}
	if report[0]["percent_used"] != 1.0 {
		t.Fatalf("percent_used = %v", report[0]["percent_used"])
	}
}

// Scenario: active=true drops budgets whose window misses today (2025-06-01).
func TestBudgetUsageActiveOnlyExcludes(t *testing.T) {
	env := newTestEnv(t)
	catID := env.createCategory(t, "Salidas")
	env.createBudget(t, catID, 5000, "2025-01-01", "2025-01-31")

	var report []map[string]any
	env.do(t, http.MethodGet, "/budgets/usage?active=true", nil, &report)
	if len(report) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}

	env.do(t, http.MethodGet, "/budgets/usage", nil, &report)
	if len(report) != 1 {
		t.Fatalf("without active expected 1 row, got %d", len(report))
	}

	// Overriding the window over today brings the budget back.
	env.do(t, http.MethodGet, "/budgets/usage?active=true&from=2025-06-01&to=2025-06-30", nil, &report)
	if len(report) != 1 {
		t.Fatalf("override expected 1 row, got %d", len(report))
	}
}

func TestBudgetUsageRejectsBadRanges(t *testing.T) {
	env := newTestEnv(t)

	if status := env.do(t, http.MethodGet, "/budgets/usage?from=junk", nil, nil); status != http.StatusBadRequest {
		t.Fatalf("malformed from expected 400, got %d", status)
	}
	if status := env.do(t, http.MethodGet, "/budgets/usage?from=2025-03-31&to=2025-03-01", nil, nil); status != http.StatusBadRequest {
		t.Fatalf("inverted range expected 400, got %d", status)
	}
}

// Scenario: per-item skip policy on OCR confirm.
func TestOcrConfirmSkipsInvalidItems(t *testing.T) {
	env := newTestEnv(t)

	body := `{"items":[
		{"title":"","amount":100,"date":"2025-01-01"},
		{"title":"Café","amount":"notanumber","date":"2025-01-01"},
		{"title":"Nafta","amount":500,"date":"2025-01-01","categoryId":7}
	]}`
	var out struct {
		Created []map[string]any `json:"created"`
	}
	status := env.do(t, http.MethodPost, "/ocr/confirm", body, &out)
	if status != http.StatusOK {
		t.Fatalf("confirm status %d", status)
	}
	if len(out.Created) != 1 {
		t.Fatalf("expected exactly 1 created, got %d", len(out.Created))
	}
	if out.Created[0]["title"] != "Nafta" || out.Created[0]["amount"] != 500.0 {
		t.Fatalf("created: %+v", out.Created[0])
	}
}

func TestOcrConfirmRequiresItems(t *testing.T) {
	env := newTestEnv(t)
	if status := env.do(t, http.MethodPost, "/ocr/confirm", `{"items":[]}`, nil); status != http.StatusBadRequest {
		t.Fatalf("empty items expected 400, got %d", status)
	}
	if status := env.do(t, http.MethodPost, "/ocr/confirm", `{}`, nil); status != http.StatusBadRequest {
		t.Fatalf("missing items expected 400, got %d", status)
	}
}

// Scenario: rejected category create leaves no keyword rows behind.
func TestCategoryCreateRollback(t *testing.T) {
	env := newTestEnv(t)

	status := env.do(t, http.MethodPost, "/categories",
		map[string]any{"name": "", "keywords": []string{"a"}}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("empty name expected 400, got %d", status)
	}

	env.createCategory(t, "Limpia")

	var cats []map[string]any
	env.do(t, http.MethodGet, "/categories", nil, &cats)
	if len(cats) != 1 {
		t.Fatalf("expected only the valid category, got %d", len(cats))
	}
	keywords, ok := cats[0]["keywords"].([]any)
	if !ok || len(keywords) != 0 {
		t.Fatalf("expected no orphaned keywords, got %v", cats[0]["keywords"])
	}
}

func TestExpenseSummaryCollapsesUncategorized(t *testing.T) {
	env := newTestEnv(t)
	catID := env.createCategory(t, "Supermercado")
	env.createExpense(t, "Leche", 2000, "2025-03-05", catID)
	env.createExpense(t, "Misc 1", 300, "2025-03-08", 0)
	env.createExpense(t, "Misc 2", 200, "2025-03-09", 0)

	var out struct {
		Total      float64          `json:"total"`
		ByCategory []map[string]any `json:"byCategory"`
	}
	status := env.do(t, http.MethodGet, "/expenses/summary?from=2025-03-01&to=2025-03-31", nil, &out)
	if status != http.StatusOK {
		t.Fatalf("summary status %d", status)
	}
	if out.Total != 2500 {
		t.Fatalf("total = %v", out.Total)
	}
	if len(out.ByCategory) != 2 {
		t.Fatalf("expected 2 rows, got %+v", out.ByCategory)
	}
	last := out.ByCategory[1]
	if last["category"] != "Sin categoría" || last["amount"] != 500.0 {
		t.Fatalf("uncategorized row: %+v", last)
	}
	if last["category_id"] != nil {
		t.Fatalf("uncategorized row must have no id: %v", last["category_id"])
	}
}

func TestOcrMockShape(t *testing.T) {
	env := newTestEnv(t)
	env.createCategory(t, "Transporte")

	var receipt struct {
		ReceiptID  string           `json:"receiptId"`
		Currency   string           `json:"currency"`
		Date       string           `json:"date"`
		Items      []map[string]any `json:"items"`
		ByCategory []map[string]any `json:"byCategory"`
		Total      float64          `json:"total"`
	}
	status := env.do(t, http.MethodGet, "/ocr/mock", nil, &receipt)
	if status != http.StatusOK {
		t.Fatalf("mock status %d", status)
	}
	if receipt.Currency != "ARS" || receipt.Date != "2025-06-01" {
		t.Fatalf("receipt header: %+v", receipt)
	}
	if len(receipt.Items) < 1 || len(receipt.Items) > 3 {
		t.Fatalf("item count %d", len(receipt.Items))
	}
	if len(receipt.ByCategory) == 0 || receipt.Total <= 0 {
		t.Fatalf("grouping missing: %+v", receipt)
	}
}

func TestExpenseCrudOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	catID := env.createCategory(t, "Comida afuera")

	var created struct {
		ID       int64           `json:"id"`
		Category *map[string]any `json:"category"`
	}
	status := env.do(t, http.MethodPost, "/expenses", map[string]any{
		"title": "Pizza", "amount": 1500.5, "date": "2025-03-10", "category_id": catID,
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create status %d", status)
	}
	if created.Category == nil {
		t.Fatal("expected embedded category snapshot")
	}

	status = env.do(t, http.MethodPut, fmt.Sprintf("/expenses/%d", created.ID), map[string]any{
		"title": "Pizza grande", "amount": 2000, "date": "2025-03-10",
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("update status %d", status)
	}

	if status := env.do(t, http.MethodDelete, fmt.Sprintf("/expenses/%d", created.ID), nil, nil); status != http.StatusOK {
		t.Fatalf("delete status %d", status)
	}
	if status := env.do(t, http.MethodDelete, fmt.Sprintf("/expenses/%d", created.ID), nil, nil); status != http.StatusNotFound {
		t.Fatalf("second delete expected 404, got %d", status)
	}
}

func TestBudgetValidationOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	catID := env.createCategory(t, "Servicios")

	status := env.do(t, http.MethodPost, "/budgets", map[string]any{
		"category_id": catID, "limit_amount": 100, "period": "DAILY",
		"start_date": "2025-03-01", "end_date": "2025-03-31",
	}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("bad period expected 400, got %d", status)
	}

	status = env.do(t, http.MethodPost, "/budgets", map[string]any{
		"category_id": catID, "period": "MONTHLY",
	}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("missing fields expected 400, got %d", status)
	}

	status = env.do(t, http.MethodPut, "/budgets/999", map[string]any{
		"category_id": catID, "limit_amount": 100, "period": "MONTHLY",
		"start_date": "2025-03-01", "end_date": "2025-03-31",
	}, nil)
	if status != http.StatusNotFound {
		t.Fatalf("missing budget expected 404, got %d", status)
	}
}
