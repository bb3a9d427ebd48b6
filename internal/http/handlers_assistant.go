package http

import (
	"log/slog"
	"net/http"
	"strings"
)

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Response string `json:"response"`
	Query    string `json:"query"`
}

// handleQuery answers a free-text financial question. Missing input is a
// 400; the only 500 is a storage failure. Unmatched queries still produce
// a response.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	query := sanitizeInput(req.Query)
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	response, err := s.assistant.Answer(r.Context(), query)
	if err != nil {
		slog.ErrorContext(r.Context(), "Assistant query failed", "error", err, "query", query)
		writeError(w, http.StatusInternalServerError, "Failed to process query")
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{Response: response, Query: query})
}
