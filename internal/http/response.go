package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"xpense/internal/core"
)

// recordJSON is the wire shape of one record.
type recordJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp"`
	Notes       string `json:"notes,omitempty"`
	ImageRef    string `json:"image_ref,omitempty"`
}

func toRecordJSON(r core.Record) recordJSON {
	return recordJSON{
		ID:          r.ID,
		Title:       r.Title,
		AmountCents: r.Amount.Cents,
		Category:    r.Category,
		Timestamp:   r.Timestamp.Format(time.RFC3339),
		Notes:       r.Notes,
		ImageRef:    r.ImageRef,
	}
}

type dailyTotalJSON struct {
	Day        string `json:"day"`
	TotalCents int64  `json:"total_cents"`
}

type categoryTotalJSON struct {
	Category   string `json:"category"`
	TotalCents int64  `json:"total_cents"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeValidationError maps entry errors to HTTP statuses and stable
// machine-readable codes.
func writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyTitle):
		writeError(w, http.StatusUnprocessableEntity, "empty_title", "title must not be blank")
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, "invalid_amount", "amount must be a positive decimal")
	case errors.Is(err, core.ErrEmptyCategory):
		writeError(w, http.StatusUnprocessableEntity, "empty_category", "category must not be blank")
	case errors.Is(err, core.ErrDuplicateExpense):
		writeError(w, http.StatusConflict, "duplicate_expense", "an identical expense already exists for this day")
	case errors.Is(err, core.ErrInsertFailed):
		writeError(w, http.StatusInternalServerError, "insert_failed", "could not store the record")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
