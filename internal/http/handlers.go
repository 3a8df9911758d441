package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"tally/internal/core"
	"tally/internal/ledger"
	applog "tally/internal/log"
	"tally/internal/services"
)

type createTransactionRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	transactions, err := s.ledger.List(r.Context(), ownerID)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to list transactions", "owner_id", ownerID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.ledger.Create(r.Context(), ownerID, core.Transaction{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        core.TransactionType(req.Type),
		Category:    req.Category,
		Date:        req.Date,
	})
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to create transaction", "owner_id", ownerID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": created.ID, "success": true})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.ledger.Delete(r.Context(), ownerID, id); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to delete transaction", "owner_id", ownerID, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())
	month := r.PathValue("month")

	result, err := s.stats.GetStatistics(r.Context(), ownerID, month)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to compute statistics", "owner_id", ownerID, "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	opts := services.ExportOptions{
		Month:  r.URL.Query().Get("month"),
		Order:  ledger.OrderAsc,
		Single: parseBoolParam(r.URL.Query().Get("single")),
	}
	if r.URL.Query().Get("order") == "desc" {
		opts.Order = ledger.OrderDesc
	}

	text, filename, err := s.export.ExportCSV(r.Context(), ownerID, opts)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to export CSV", "owner_id", ownerID, "month", opts.Month, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export CSV")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// parseBoolParam accepts the flag spellings clients actually send.
func parseBoolParam(v string) bool {
	switch v {
	case "1", "true", "yes":
		return true
	}
	return false
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrNegativeAmount) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrEmptyDate)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
