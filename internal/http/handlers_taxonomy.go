package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type categoryRequest struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Type  *string `json:"type"`
	Color *string `json:"color"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		typeFilter := core.CategoryType(r.URL.Query().Get("type"))
		if typeFilter != "" && !typeFilter.Valid() {
			writeError(w, http.StatusBadRequest, core.ErrInvalidType.Error())
			return
		}
		categories, err := s.store.ListCategories(r.Context(), s.userID, typeFilter)
		if err != nil {
			slog.ErrorContext(r.Context(), "List categories failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch categories")
			return
		}
		if categories == nil {
			categories = []core.Category{}
		}
		writeJSON(w, http.StatusOK, categories)

	case http.MethodPost:
		var req categoryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == nil || *req.Name == "" || req.Type == nil || *req.Type == "" {
			writeError(w, http.StatusBadRequest, "Name and type are required")
			return
		}
		ctype := core.CategoryType(*req.Type)
		if !ctype.Valid() {
			writeError(w, http.StatusBadRequest, core.ErrInvalidType.Error())
			return
		}

		c := core.Category{
			Name:   sanitizeInput(*req.Name),
			Type:   ctype,
			UserID: s.userID,
		}
		if req.Color != nil {
			c.Color = *req.Color
		}

		created, err := s.store.CreateCategory(r.Context(), c)
		if err != nil {
			slog.ErrorContext(r.Context(), "Create category failed", "error", err, "category", c.Name)
			writeError(w, http.StatusInternalServerError, "Failed to create category")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusCreated, created)

	case http.MethodPut:
		var req categoryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ID == "" {
			writeError(w, http.StatusBadRequest, "Category ID is required")
			return
		}

		params := storage.UpdateCategoryParams{
			Name:  req.Name,
			Color: req.Color,
		}
		if req.Type != nil {
			ctype := core.CategoryType(*req.Type)
			if !ctype.Valid() {
				writeError(w, http.StatusBadRequest, core.ErrInvalidType.Error())
				return
			}
			params.Type = &ctype
		}

		updated, err := s.store.UpdateCategory(r.Context(), req.ID, params)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Category not found")
				return
			}
			slog.ErrorContext(r.Context(), "Update category failed", "error", err, "entity_id", req.ID)
			writeError(w, http.StatusInternalServerError, "Failed to update category")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "Category ID is required")
			return
		}
		if err := s.store.DeleteCategory(r.Context(), id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Category not found")
				return
			}
			slog.ErrorContext(r.Context(), "Delete category failed", "error", err, "entity_id", id)
			writeError(w, http.StatusInternalServerError, "Failed to delete category")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})

	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

type sourceRequest struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sources, err := s.store.ListSources(r.Context(), s.userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "List sources failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch sources")
			return
		}
		if sources == nil {
			sources = []core.Source{}
		}
		writeJSON(w, http.StatusOK, sources)

	case http.MethodPost:
		var req sourceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == nil || *req.Name == "" {
			writeError(w, http.StatusBadRequest, "Name is required")
			return
		}

		src := core.Source{
			Name:   sanitizeInput(*req.Name),
			UserID: s.userID,
		}
		if req.Color != nil {
			src.Color = *req.Color
		}

		created, err := s.store.CreateSource(r.Context(), src)
		if err != nil {
			slog.ErrorContext(r.Context(), "Create source failed", "error", err, "source", src.Name)
			writeError(w, http.StatusInternalServerError, "Failed to create source")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusCreated, created)

	case http.MethodPut:
		var req sourceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ID == "" {
			writeError(w, http.StatusBadRequest, "Source ID is required")
			return
		}

		updated, err := s.store.UpdateSource(r.Context(), req.ID, storage.UpdateSourceParams{
			Name:  req.Name,
			Color: req.Color,
		})
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Source not found")
				return
			}
			slog.ErrorContext(r.Context(), "Update source failed", "error", err, "entity_id", req.ID)
			writeError(w, http.StatusInternalServerError, "Failed to update source")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "Source ID is required")
			return
		}
		if err := s.store.DeleteSource(r.Context(), id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Source not found")
				return
			}
			slog.ErrorContext(r.Context(), "Delete source failed", "error", err, "entity_id", id)
			writeError(w, http.StatusInternalServerError, "Failed to delete source")
			return
		}
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Source deleted successfully"})

	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
