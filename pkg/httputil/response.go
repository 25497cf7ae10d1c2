// Package httputil centralizes HTTP response writing so every handler emits
// the same JSON envelopes.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/avelasko/todoapp/pkg/errors"
	"github.com/avelasko/todoapp/pkg/validator"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// PaginatedResponse wraps a list payload with paging metadata.
type PaginatedResponse struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// WriteJSON writes a JSON response with the given status. A nil body writes
// the status line only.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps an error to the JSON error envelope. Application errors
// carry their own status code and message; anything else becomes an opaque
// 500 and is logged.
func WriteError(w http.ResponseWriter, l *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status == http.StatusInternalServerError {
			l.Error("internal error", slog.String("error", appErr.Error()))
		}
		if appErr.Status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		WriteJSON(w, appErr.Status, errorResponse{Error: errorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
		}})
		return
	}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteValidationError(w, valErr)
		return
	}

	l.Error("unhandled error", slog.String("error", err.Error()))
	WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}})
}

// WriteValidationError writes a 422 with per-field messages.
func WriteValidationError(w http.ResponseWriter, valErr *validator.ValidationError) {
	WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorBody{
		Code:    "VALIDATION_ERROR",
		Message: "request validation failed",
		Fields:  valErr.Fields(),
	}})
}
