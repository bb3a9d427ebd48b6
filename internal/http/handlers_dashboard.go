package http

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"fintrack/internal/core"
)

type dashboardSummary struct {
	TotalExpenses   float64 `json:"totalExpenses"`
	TotalIncomes    float64 `json:"totalIncomes"`
	TotalBudgets    float64 `json:"totalBudgets"`
	NetIncome       float64 `json:"netIncome"`
	RemainingBudget float64 `json:"remainingBudget"`
}

// recentTransaction is the merged expense/income view used by the
// dashboard's recent-activity list.
type recentTransaction struct {
	Type        string         `json:"type"`
	ID          string         `json:"id"`
	Amount      float64        `json:"amount"`
	Description string         `json:"description,omitempty"`
	Date        time.Time      `json:"date"`
	Category    *core.Category `json:"category,omitempty"`
	Source      *core.Source   `json:"source,omitempty"`
}

type dashboardResponse struct {
	Summary            dashboardSummary    `json:"summary"`
	ExpensesByCategory map[string]float64  `json:"expensesByCategory"`
	IncomesByCategory  map[string]float64  `json:"incomesByCategory"`
	RecentTransactions []recentTransaction `json:"recentTransactions"`
	Expenses           []core.Expense      `json:"expenses"`
	Incomes            []core.Income       `json:"incomes"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if cached, ok := s.dashboardCache.Get(s.userID); ok {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "user_id", s.userID)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	expenses, err := s.store.ListExpenses(r.Context(), s.userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard expenses fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}
	incomes, err := s.store.ListIncomes(r.Context(), s.userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard incomes fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}
	budgets, err := s.store.ListBudgets(r.Context(), s.userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard budgets fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	resp := buildDashboard(expenses, incomes, budgets)
	s.dashboardCache.Set(s.userID, resp)
	writeJSON(w, http.StatusOK, resp)
}

func buildDashboard(expenses []core.Expense, incomes []core.Income, budgets []core.Budget) dashboardResponse {
	var totalExpenses, totalIncomes, totalBudgets float64
	for _, e := range expenses {
		totalExpenses += e.Amount
	}
	for _, i := range incomes {
		totalIncomes += i.Amount
	}
	for _, b := range budgets {
		totalBudgets += b.Amount
	}

	expensesByCategory := make(map[string]float64)
	for _, e := range expenses {
		name := "Uncategorized"
		if e.Category != nil {
			name = e.Category.Name
		}
		expensesByCategory[name] += e.Amount
	}

	incomesByCategory := make(map[string]float64)
	for _, i := range incomes {
		name := "Uncategorized"
		if i.Category != nil {
			name = i.Category.Name
		}
		incomesByCategory[name] += i.Amount
	}

	// Merge the five most recent of each kind, then keep the five newest.
	var recent []recentTransaction
	for _, e := range firstExpenses(expenses, 5) {
		recent = append(recent, recentTransaction{
			Type: "expense", ID: e.ID, Amount: e.Amount,
			Description: e.Description, Date: e.Date, Category: e.Category,
		})
	}
	for _, i := range firstIncomes(incomes, 5) {
		recent = append(recent, recentTransaction{
			Type: "income", ID: i.ID, Amount: i.Amount,
			Description: i.Description, Date: i.Date, Category: i.Category, Source: i.Source,
		})
	}
	sort.SliceStable(recent, func(a, b int) bool {
		return recent[a].Date.After(recent[b].Date)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	if recent == nil {
		recent = []recentTransaction{}
	}

	return dashboardResponse{
		Summary: dashboardSummary{
			TotalExpenses:   totalExpenses,
			TotalIncomes:    totalIncomes,
			TotalBudgets:    totalBudgets,
			NetIncome:       totalIncomes - totalExpenses,
			RemainingBudget: totalBudgets - totalExpenses,
		},
		ExpensesByCategory: expensesByCategory,
		IncomesByCategory:  incomesByCategory,
		RecentTransactions: recent,
		Expenses:           firstExpenses(expenses, 10),
		Incomes:            firstIncomes(incomes, 10),
	}
}

func firstExpenses(expenses []core.Expense, n int) []core.Expense {
	if len(expenses) > n {
		expenses = expenses[:n]
	}
	if expenses == nil {
		return []core.Expense{}
	}
	return expenses
}

func firstIncomes(incomes []core.Income, n int) []core.Income {
	if len(incomes) > n {
		incomes = incomes[:n]
	}
	if incomes == nil {
		return []core.Income{}
	}
	return incomes
}

// handleSeed loads the demo dataset; safe to call repeatedly.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := s.store.Seed(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Seed failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to seed database")
		return
	}
	s.invalidateCaches()
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Database seeded successfully",
		"success": true,
	})
}
