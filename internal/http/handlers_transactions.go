package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type expenseRequest struct {
	ID          string  `json:"id"`
	Amount      *amount `json:"amount"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
	Date        *string `json:"date"`
}

// handleExpenses serves the whole expense resource on one route, selecting
// the operation by method.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := s.store.ListExpenses(r.Context(), s.userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "List expenses failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch expenses")
			return
		}
		if expenses == nil {
			expenses = []core.Expense{}
		}
		writeJSON(w, http.StatusOK, expenses)

	case http.MethodPost:
		var req expenseRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Amount == nil || *req.Amount <= 0 || req.CategoryID == nil || *req.CategoryID == "" {
			writeError(w, http.StatusBadRequest, "Amount and category are required")
			return
		}

		e := core.Expense{
			Amount:     float64(*req.Amount),
			CategoryID: *req.CategoryID,
			UserID:     s.userID,
		}
		if req.Description != nil {
			e.Description = sanitizeInput(*req.Description)
		}
		if req.Date != nil && *req.Date != "" {
			d, err := parseDate(*req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid date format")
				return
			}
			e.Date = d
		}
		if err := e.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := s.transactions.CreateExpense(r.Context(), e)
		if err != nil {
			slog.ErrorContext(r.Context(), "Create expense failed", "error", err, "amount", e.Amount)
			writeError(w, http.StatusInternalServerError, "Failed to create expense")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusCreated, created)

	case http.MethodPut:
		var req expenseRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ID == "" {
			writeError(w, http.StatusBadRequest, "Expense ID is required")
			return
		}

		params := storage.UpdateExpenseParams{
			Description: req.Description,
			CategoryID:  req.CategoryID,
		}
		if req.Amount != nil {
			v := float64(*req.Amount)
			if v <= 0 {
				writeError(w, http.StatusBadRequest, core.ErrInvalidAmount.Error())
				return
			}
			params.Amount = &v
		}

		updated, err := s.transactions.UpdateExpense(r.Context(), req.ID, params)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Expense not found")
				return
			}
			slog.ErrorContext(r.Context(), "Update expense failed", "error", err, "entity_id", req.ID)
			writeError(w, http.StatusInternalServerError, "Failed to update expense")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "Expense ID is required")
			return
		}
		if err := s.transactions.DeleteExpense(r.Context(), id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Expense not found")
				return
			}
			slog.ErrorContext(r.Context(), "Delete expense failed", "error", err, "entity_id", id)
			writeError(w, http.StatusInternalServerError, "Failed to delete expense")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})

	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

type incomeRequest struct {
	ID          string  `json:"id"`
	Amount      *amount `json:"amount"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
	SourceID    *string `json:"sourceId"`
	Date        *string `json:"date"`
}

func (s *Server) handleIncomes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		incomes, err := s.store.ListIncomes(r.Context(), s.userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "List incomes failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch incomes")
			return
		}
		if incomes == nil {
			incomes = []core.Income{}
		}
		writeJSON(w, http.StatusOK, incomes)

	case http.MethodPost:
		var req incomeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Amount == nil || *req.Amount <= 0 {
			writeError(w, http.StatusBadRequest, "Amount is required")
			return
		}

		// Category and source are both optional for incomes.
		i := core.Income{
			Amount: float64(*req.Amount),
			UserID: s.userID,
		}
		if req.Description != nil {
			i.Description = sanitizeInput(*req.Description)
		}
		if req.CategoryID != nil {
			i.CategoryID = *req.CategoryID
		}
		if req.SourceID != nil {
			i.SourceID = *req.SourceID
		}
		if req.Date != nil && *req.Date != "" {
			d, err := parseDate(*req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid date format")
				return
			}
			i.Date = d
		}

		created, err := s.transactions.CreateIncome(r.Context(), i)
		if err != nil {
			slog.ErrorContext(r.Context(), "Create income failed", "error", err, "amount", i.Amount)
			writeError(w, http.StatusInternalServerError, "Failed to create income")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusCreated, created)

	case http.MethodPut:
		var req incomeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ID == "" {
			writeError(w, http.StatusBadRequest, "Income ID is required")
			return
		}

		params := storage.UpdateIncomeParams{
			Description: req.Description,
			CategoryID:  req.CategoryID,
			SourceID:    req.SourceID,
		}
		if req.Amount != nil {
			v := float64(*req.Amount)
			if v <= 0 {
				writeError(w, http.StatusBadRequest, core.ErrInvalidAmount.Error())
				return
			}
			params.Amount = &v
		}

		updated, err := s.transactions.UpdateIncome(r.Context(), req.ID, params)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Income not found")
				return
			}
			slog.ErrorContext(r.Context(), "Update income failed", "error", err, "entity_id", req.ID)
			writeError(w, http.StatusInternalServerError, "Failed to update income")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "Income ID is required")
			return
		}
		if err := s.transactions.DeleteIncome(r.Context(), id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Income not found")
				return
			}
			slog.ErrorContext(r.Context(), "Delete income failed", "error", err, "entity_id", id)
			writeError(w, http.StatusInternalServerError, "Failed to delete income")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Income deleted successfully"})

	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
