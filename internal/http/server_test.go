package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type fakeStore struct {
	expenses   []core.Expense
	incomes    []core.Income
	categories []core.Category
	sources    []core.Source
	budgets    []core.Budget
	user       core.User
	err        error
	seeded     bool
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.err }
func (f *fakeStore) Seed(ctx context.Context) error {
	f.seeded = true
	return f.err
}
func (f *fakeStore) EnsureDefaultUser(ctx context.Context) (core.User, error) {
	return f.user, f.err
}
func (f *fakeStore) UpdateUser(ctx context.Context, id string, p storage.UpdateUserParams) (core.User, error) {
	if p.Name != nil {
		f.user.Name = *p.Name
	}
	if p.Email != nil {
		f.user.Email = *p.Email
	}
	if p.Avatar != nil {
		f.user.Avatar = *p.Avatar
	}
	return f.user, f.err
}
func (f *fakeStore) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	return f.expenses, f.err
}
func (f *fakeStore) ListIncomes(ctx context.Context, userID string) ([]core.Income, error) {
	return f.incomes, f.err
}
func (f *fakeStore) ListCategories(ctx context.Context, userID string, typeFilter core.CategoryType) ([]core.Category, error) {
	if typeFilter == "" {
		return f.categories, f.err
	}
	var out []core.Category
	for _, c := range f.categories {
		if c.Type == typeFilter {
			out = append(out, c)
		}
	}
	return out, f.err
}
func (f *fakeStore) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.ID = "cat-new"
	return c, f.err
}
func (f *fakeStore) UpdateCategory(ctx context.Context, id string, p storage.UpdateCategoryParams) (core.Category, error) {
	if f.err != nil {
		return core.Category{}, f.err
	}
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Category{}, core.ErrNotFound
}
func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	for _, c := range f.categories {
		if c.ID == id {
			return f.err
		}
	}
	return core.ErrNotFound
}
func (f *fakeStore) ListSources(ctx context.Context, userID string) ([]core.Source, error) {
	return f.sources, f.err
}
func (f *fakeStore) CreateSource(ctx context.Context, s core.Source) (core.Source, error) {
	s.ID = "src-new"
	return s, f.err
}
func (f *fakeStore) UpdateSource(ctx context.Context, id string, p storage.UpdateSourceParams) (core.Source, error) {
	return core.Source{ID: id}, f.err
}
func (f *fakeStore) DeleteSource(ctx context.Context, id string) error { return f.err }
func (f *fakeStore) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	return f.budgets, f.err
}
func (f *fakeStore) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = "bud-new"
	return b, f.err
}
func (f *fakeStore) UpdateBudget(ctx context.Context, id string, p storage.UpdateBudgetParams) (core.Budget, error) {
	return core.Budget{ID: id}, f.err
}
func (f *fakeStore) DeleteBudget(ctx context.Context, id string) error { return f.err }

type fakeTransactions struct {
	created int
	deleted int
	err     error
}

func (f *fakeTransactions) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	f.created++
	e.ID = "exp-new"
	return e, f.err
}
func (f *fakeTransactions) UpdateExpense(ctx context.Context, id string, p storage.UpdateExpenseParams) (core.Expense, error) {
	if id == "missing" {
		return core.Expense{}, core.ErrNotFound
	}
	return core.Expense{ID: id}, f.err
}
func (f *fakeTransactions) DeleteExpense(ctx context.Context, id string) error {
	if id == "missing" {
		return core.ErrNotFound
	}
	f.deleted++
	return f.err
}
func (f *fakeTransactions) CreateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	f.created++
	i.ID = "inc-new"
	return i, f.err
}
func (f *fakeTransactions) UpdateIncome(ctx context.Context, id string, p storage.UpdateIncomeParams) (core.Income, error) {
	return core.Income{ID: id}, f.err
}
func (f *fakeTransactions) DeleteIncome(ctx context.Context, id string) error {
	f.deleted++
	return f.err
}

type fakeAssistant struct {
	response string
	err      error
	lastQ    string
}

func (f *fakeAssistant) Answer(ctx context.Context, query string) (string, error) {
	f.lastQ = query
	return f.response, f.err
}

func newTestServer(store *fakeStore, tx *fakeTransactions, ai *fakeAssistant) *Server {
	if store == nil {
		store = &fakeStore{}
	}
	if tx == nil {
		tx = &fakeTransactions{}
	}
	if ai == nil {
		ai = &fakeAssistant{response: "ok"}
	}
	return NewServer(":0", store, tx, ai, Options{})
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(nil, nil, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestReadyFailsWhenStoreDown(t *testing.T) {
	srv := newTestServer(&fakeStore{err: errors.New("locked")}, nil, nil)
	rr := doJSON(t, srv, http.MethodGet, "/readyz", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", rr.Code)
	}
}

func TestQueryEndpoint(t *testing.T) {
	ai := &fakeAssistant{response: "Your total expenses are $57.80 across 2 transactions."}
	srv := newTestServer(nil, nil, ai)

	// Wrong method
	rr := doJSON(t, srv, http.MethodGet, "/api/ai/query", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Missing query
	rr = doJSON(t, srv, http.MethodPost, "/api/ai/query", `{"query":"  "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	// Success
	rr = doJSON(t, srv, http.MethodPost, "/api/ai/query", `{"query":"What are my total expenses?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp queryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != ai.response || resp.Query != "What are my total expenses?" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestQueryEndpointAssistantFailure(t *testing.T) {
	ai := &fakeAssistant{err: errors.New("db locked")}
	srv := newTestServer(nil, nil, ai)
	rr := doJSON(t, srv, http.MethodPost, "/api/ai/query", `{"query":"total expenses"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Failed to process query") {
		t.Fatalf("body: %s", rr.Body.String())
	}
}

func TestExpensesCRUD(t *testing.T) {
	tx := &fakeTransactions{}
	srv := newTestServer(nil, tx, nil)

	// Empty list serializes as [] not null
	rr := doJSON(t, srv, http.MethodGet, "/api/expenses", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("list: %d %q", rr.Code, rr.Body.String())
	}

	// Missing amount and category
	rr = doJSON(t, srv, http.MethodPost, "/api/expenses", `{"description":"x"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	// String amount is accepted
	rr = doJSON(t, srv, http.MethodPost, "/api/expenses", `{"amount":"45.50","categoryId":"c1","description":"Groceries"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if tx.created != 1 {
		t.Fatalf("created = %d, want 1", tx.created)
	}

	// Update of missing row
	rr = doJSON(t, srv, http.MethodPut, "/api/expenses", `{"id":"missing","amount":10}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	// Delete requires id
	rr = doJSON(t, srv, http.MethodDelete, "/api/expenses", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	rr = doJSON(t, srv, http.MethodDelete, "/api/expenses?id=e1", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Expense deleted successfully") {
		t.Fatalf("delete: %d %s", rr.Code, rr.Body.String())
	}
}

func TestIncomeWithoutCategoryIsAccepted(t *testing.T) {
	tx := &fakeTransactions{}
	srv := newTestServer(nil, tx, nil)
	rr := doJSON(t, srv, http.MethodPost, "/api/incomes", `{"amount":1000,"description":"Salary"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCategoryValidation(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rr := doJSON(t, srv, http.MethodPost, "/api/categories", `{"name":"Food"}`)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "Name and type are required") {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/categories", `{"name":"Food","type":"WEIRD"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad type, got %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/categories", `{"name":"Food","type":"EXPENSE"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/categories?type=BOGUS", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad filter, got %d", rr.Code)
	}
}

func TestBudgetValidation(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rr := doJSON(t, srv, http.MethodPost, "/api/budgets", `{"amount":100}`)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "Amount, period, and category are required") {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/budgets", `{"amount":100,"period":"DAILY","categoryId":"c1"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad period, got %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/budgets", `{"amount":100,"period":"MONTHLY","categoryId":"c1"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDashboardAggregatesAndCaches(t *testing.T) {
	now := time.Now()
	food := &core.Category{ID: "c1", Name: "Food"}
	store := &fakeStore{
		expenses: []core.Expense{
			{ID: "e1", Amount: 30, CategoryID: "c1", Category: food, Date: now},
			{ID: "e2", Amount: 20, CategoryID: "c1", Category: food, Date: now.Add(-time.Hour)},
		},
		incomes: []core.Income{
			{ID: "i1", Amount: 100, Date: now.Add(-2 * time.Hour)},
		},
		budgets: []core.Budget{
			{ID: "b1", Amount: 200, Period: core.PeriodMonthly, CategoryID: "c1"},
		},
	}
	srv := newTestServer(store, nil, nil)

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d: %s", rr.Code, rr.Body.String())
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary.TotalExpenses != 50 || resp.Summary.TotalIncomes != 100 {
		t.Fatalf("summary: %+v", resp.Summary)
	}
	if resp.Summary.NetIncome != 50 || resp.Summary.RemainingBudget != 150 {
		t.Fatalf("summary: %+v", resp.Summary)
	}
	if resp.ExpensesByCategory["Food"] != 50 {
		t.Fatalf("expensesByCategory: %v", resp.ExpensesByCategory)
	}
	if resp.IncomesByCategory["Uncategorized"] != 100 {
		t.Fatalf("incomesByCategory: %v", resp.IncomesByCategory)
	}
	if len(resp.RecentTransactions) != 3 {
		t.Fatalf("recent: %d", len(resp.RecentTransactions))
	}
	if resp.RecentTransactions[0].ID != "e1" {
		t.Fatalf("recent not sorted by date: %+v", resp.RecentTransactions[0])
	}

	// Second request is served from cache; a store failure goes unnoticed.
	store.err = errors.New("db gone")
	rr = doJSON(t, srv, http.MethodGet, "/api/dashboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("cached status=%d", rr.Code)
	}
}

func TestWriteInvalidatesDashboardCache(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(store, nil, nil)

	// Prime the cache.
	if rr := doJSON(t, srv, http.MethodGet, "/api/dashboard", ""); rr.Code != http.StatusOK {
		t.Fatalf("prime: %d", rr.Code)
	}

	// A write drops it.
	rr := doJSON(t, srv, http.MethodPost, "/api/expenses", `{"amount":5,"categoryId":"c1"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d", rr.Code)
	}

	store.err = errors.New("db gone")
	if rr := doJSON(t, srv, http.MethodGet, "/api/dashboard", ""); rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected cache miss to hit the store, got %d", rr.Code)
	}
}

func TestProfile(t *testing.T) {
	joined := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		user: core.User{ID: core.DefaultUserID, Name: "John Doe", Email: "john.doe@example.com", CreatedAt: joined},
		expenses: []core.Expense{
			{ID: "e1", Amount: 40, CategoryID: "c1", Date: time.Now()},
		},
		incomes: []core.Income{
			{ID: "i1", Amount: 100, Date: time.Now()},
		},
		categories: []core.Category{{ID: "c1", Name: "Food", Type: core.CategoryExpense}},
		sources:    []core.Source{{ID: "s1", Name: "Acme Corp"}},
	}
	srv := newTestServer(store, nil, nil)

	rr := doJSON(t, srv, http.MethodGet, "/api/profile", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d: %s", rr.Code, rr.Body.String())
	}
	var resp profileResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Name != "John Doe" || resp.JoinDate != "02/01/2024" {
		t.Fatalf("profile: %+v", resp)
	}
	st := resp.Statistics
	if st.TotalExpenses != 40 || st.TotalIncomes != 100 || st.TotalSavings != 60 {
		t.Fatalf("statistics: %+v", st)
	}
	if st.ActiveCategories != 1 || st.ActiveSources != 1 {
		t.Fatalf("statistics: %+v", st)
	}
	if st.MonthlyExpenses != 40 || st.MonthlySavings != 60 {
		t.Fatalf("statistics: %+v", st)
	}

	// Update rejects an empty name.
	rr = doJSON(t, srv, http.MethodPut, "/api/profile", `{"name":"  "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/profile", `{"name":"Jane Doe"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rr.Code, rr.Body.String())
	}
	var user core.User
	if err := json.Unmarshal(rr.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Name != "Jane Doe" {
		t.Fatalf("updated name = %q", user.Name)
	}
}

func TestSeedEndpoint(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(store, nil, nil)

	rr := doJSON(t, srv, http.MethodGet, "/api/seed", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/seed", "")
	if rr.Code != http.StatusOK || !store.seeded {
		t.Fatalf("seed: %d seeded=%v", rr.Code, store.seeded)
	}
	if !strings.Contains(rr.Body.String(), "Database seeded successfully") {
		t.Fatalf("body: %s", rr.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(nil, nil, nil)
	rr := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}
