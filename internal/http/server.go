// Package http exposes the JSON API: CRUD endpoints for the financial
// entities, the dashboard and profile aggregations, and the assistant
// query endpoint.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// Store is the repository surface the handlers consume. Satisfied by
// *storage.SQLiteRepository.
type Store interface {
	Ping(ctx context.Context) error
	Seed(ctx context.Context) error

	EnsureDefaultUser(ctx context.Context) (core.User, error)
	UpdateUser(ctx context.Context, id string, p storage.UpdateUserParams) (core.User, error)

	ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	ListIncomes(ctx context.Context, userID string) ([]core.Income, error)

	ListCategories(ctx context.Context, userID string, typeFilter core.CategoryType) ([]core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, id string, p storage.UpdateCategoryParams) (core.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListSources(ctx context.Context, userID string) ([]core.Source, error)
	CreateSource(ctx context.Context, s core.Source) (core.Source, error)
	UpdateSource(ctx context.Context, id string, p storage.UpdateSourceParams) (core.Source, error)
	DeleteSource(ctx context.Context, id string) error

	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	UpdateBudget(ctx context.Context, id string, p storage.UpdateBudgetParams) (core.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
}

// Transactions is the write path for expenses and incomes; it persists and
// publishes events. Satisfied by *services.TransactionService.
type Transactions interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, id string, p storage.UpdateExpenseParams) (core.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	CreateIncome(ctx context.Context, i core.Income) (core.Income, error)
	UpdateIncome(ctx context.Context, id string, p storage.UpdateIncomeParams) (core.Income, error)
	DeleteIncome(ctx context.Context, id string) error
}

// Assistant answers free-text financial queries.
type Assistant interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Options tunes the server; zero values get sensible defaults.
type Options struct {
	AllowedOrigins []string
	CacheTTL       time.Duration
	CacheMaxSize   int
}

type Server struct {
	http.Server

	store        Store
	transactions Transactions
	assistant    Assistant
	userID       string

	dashboardCache *cache.LRU[dashboardResponse]
	profileCache   *cache.LRU[profileResponse]
}

// NewServer wires routes, CORS and the response caches, returning a
// ready-to-run server.
func NewServer(addr string, store Store, transactions Transactions, assistant Assistant, opts Options) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CacheMaxSize <= 0 {
		opts.CacheMaxSize = 100
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}

	s := &Server{
		store:          store,
		transactions:   transactions,
		assistant:      assistant,
		userID:         core.DefaultUserID,
		dashboardCache: cache.NewLRU[dashboardResponse](opts.CacheMaxSize, opts.CacheTTL),
		profileCache:   cache.NewLRU[profileResponse](opts.CacheMaxSize, opts.CacheTTL),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/ai/query", s.handleQuery)
	mux.HandleFunc("/api/expenses", s.handleExpenses)
	mux.HandleFunc("/api/incomes", s.handleIncomes)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/sources", s.handleSources)
	mux.HandleFunc("/api/budgets", s.handleBudgets)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/profile", s.handleProfile)
	mux.HandleFunc("/api/seed", s.handleSeed)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: corsHandler(s.withRequestLog(mux)),
	}

	return s
}

// invalidateCaches drops the memoized dashboard and profile responses; it
// runs after every successful write.
func (s *Server) invalidateCaches() {
	s.dashboardCache.Delete(s.userID)
	s.profileCache.Delete(s.userID)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
