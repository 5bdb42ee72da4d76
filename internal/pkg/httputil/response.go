// Package httputil provides shared HTTP response helpers for handlers.
// Handlers use these instead of raw ResponseWriter calls so error envelopes
// and logging stay consistent across endpoints.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/ignite/newsletter/internal/pkg/logger"
)

// ErrorResponse is the standard error envelope for all API errors. It never
// carries internal error detail, only a short client-facing message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Status writes an empty-body response with the given status code.
func Status(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("encoding JSON response", "error", err.Error())
	}
}

// BadRequest writes a 400 with a short client-facing message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
}

// TooManyRequests writes a 429.
func TooManyRequests(w http.ResponseWriter) {
	JSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
}

// Unauthorized writes a 401 carrying the Basic challenge for realm. Every
// authentication problem answers with the challenge so clients always get a
// re-authentication prompt, never a generic bad request.
func Unauthorized(w http.ResponseWriter, realm string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`"`)
	Status(w, http.StatusUnauthorized)
}

// InternalError writes a 500. The real error is logged for operators but the
// client sees only a generic message.
func InternalError(w http.ResponseWriter, err error) {
	logger.Error("internal error", "error", err.Error())
	JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
