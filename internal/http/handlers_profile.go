package http

import (
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type profileStatistics struct {
	TotalExpenses    float64 `json:"totalExpenses"`
	TotalIncomes     float64 `json:"totalIncomes"`
	MonthlyExpenses  float64 `json:"monthlyExpenses"`
	MonthlyIncomes   float64 `json:"monthlyIncomes"`
	ActiveCategories int     `json:"activeCategories"`
	ActiveSources    int     `json:"activeSources"`
	TotalSavings     float64 `json:"totalSavings"`
	MonthlySavings   float64 `json:"monthlySavings"`
}

type profileResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	JoinDate   string            `json:"joinDate"`
	Avatar     string            `json:"avatar,omitempty"`
	Statistics profileStatistics `json:"statistics"`
}

type profileUpdateRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Avatar *string `json:"avatar"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if cached, ok := s.profileCache.Get(s.userID); ok {
			slog.DebugContext(r.Context(), "Profile cache hit", "user_id", s.userID)
			writeJSON(w, http.StatusOK, cached)
			return
		}

		// The single user is created lazily on first profile read.
		user, err := s.store.EnsureDefaultUser(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Ensure user failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}

		expenses, err := s.store.ListExpenses(r.Context(), s.userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "Profile expenses fetch failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}
		incomes, err := s.store.ListIncomes(r.Context(), s.userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "Profile incomes fetch failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}
		categories, err := s.store.ListCategories(r.Context(), s.userID, "")
		if err != nil {
			slog.ErrorContext(r.Context(), "Profile categories fetch failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}
		sources, err := s.store.ListSources(r.Context(), s.userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "Profile sources fetch failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}

		resp := buildProfile(user, expenses, incomes, len(categories), len(sources), time.Now())
		s.profileCache.Set(s.userID, resp)
		writeJSON(w, http.StatusOK, resp)

	case http.MethodPut:
		var req profileUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name != nil {
			trimmed := sanitizeInput(*req.Name)
			if trimmed == "" {
				writeError(w, http.StatusBadRequest, "Name cannot be empty")
				return
			}
			req.Name = &trimmed
		}
		if req.Email != nil {
			trimmed := sanitizeInput(*req.Email)
			if trimmed == "" {
				writeError(w, http.StatusBadRequest, "Email cannot be empty")
				return
			}
			req.Email = &trimmed
		}

		if _, err := s.store.EnsureDefaultUser(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Ensure user failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		updated, err := s.store.UpdateUser(r.Context(), s.userID, storage.UpdateUserParams{
			Name:   req.Name,
			Email:  req.Email,
			Avatar: req.Avatar,
		})
		if err != nil {
			slog.ErrorContext(r.Context(), "Update user failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, updated)

	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func buildProfile(user core.User, expenses []core.Expense, incomes []core.Income, categories, sources int, now time.Time) profileResponse {
	var totalExpenses, totalIncomes, monthExpenses, monthIncomes float64
	for _, e := range expenses {
		totalExpenses += e.Amount
		if core.SameMonth(e.Date, now) {
			monthExpenses += e.Amount
		}
	}
	for _, i := range incomes {
		totalIncomes += i.Amount
		if core.SameMonth(i.Date, now) {
			monthIncomes += i.Amount
		}
	}

	return profileResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		JoinDate: core.FormatDate(user.CreatedAt),
		Avatar:   user.Avatar,
		Statistics: profileStatistics{
			TotalExpenses:    totalExpenses,
			TotalIncomes:     totalIncomes,
			MonthlyExpenses:  monthExpenses,
			MonthlyIncomes:   monthIncomes,
			ActiveCategories: categories,
			ActiveSources:    sources,
			TotalSavings:     totalIncomes - totalExpenses,
			MonthlySavings:   monthIncomes - monthExpenses,
		},
	}
}
