package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type budgetRequest struct {
	ID         string  `json:"id"`
	Amount     *amount `json:"amount"`
	Period     *string `json:"period"`
	CategoryID *string `json:"categoryId"`
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		budgets, err := s.store.ListBudgets(r.Context(), s.userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "List budgets failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch budgets")
			return
		}
		if budgets == nil {
			budgets = []core.Budget{}
		}
		writeJSON(w, http.StatusOK, budgets)

	case http.MethodPost:
		var req budgetRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Amount == nil || *req.Amount <= 0 || req.Period == nil || req.CategoryID == nil || *req.CategoryID == "" {
			writeError(w, http.StatusBadRequest, "Amount, period, and category are required")
			return
		}

		b := core.Budget{
			Amount:     float64(*req.Amount),
			Period:     core.BudgetPeriod(*req.Period),
			CategoryID: *req.CategoryID,
			UserID:     s.userID,
		}
		if err := b.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := s.store.CreateBudget(r.Context(), b)
		if err != nil {
			slog.ErrorContext(r.Context(), "Create budget failed", "error", err, "category", b.CategoryID)
			writeError(w, http.StatusInternalServerError, "Failed to create budget")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusCreated, created)

	case http.MethodPut:
		var req budgetRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ID == "" {
			writeError(w, http.StatusBadRequest, "Budget ID is required")
			return
		}

		params := storage.UpdateBudgetParams{
			CategoryID: req.CategoryID,
		}
		if req.Amount != nil {
			v := float64(*req.Amount)
			if v <= 0 {
				writeError(w, http.StatusBadRequest, core.ErrInvalidAmount.Error())
				return
			}
			params.Amount = &v
		}
		if req.Period != nil {
			period := core.BudgetPeriod(*req.Period)
			if !period.Valid() {
				writeError(w, http.StatusBadRequest, core.ErrInvalidPeriod.Error())
				return
			}
			params.Period = &period
		}

		updated, err := s.store.UpdateBudget(r.Context(), req.ID, params)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Budget not found")
				return
			}
			slog.ErrorContext(r.Context(), "Update budget failed", "error", err, "entity_id", req.ID)
			writeError(w, http.StatusInternalServerError, "Failed to update budget")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "Budget ID is required")
			return
		}
		if err := s.store.DeleteBudget(r.Context(), id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Budget not found")
				return
			}
			slog.ErrorContext(r.Context(), "Delete budget failed", "error", err, "entity_id", id)
			writeError(w, http.StatusInternalServerError, "Failed to delete budget")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted successfully"})

	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
