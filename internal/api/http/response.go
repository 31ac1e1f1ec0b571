package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	resp.RequestID = RequestIDFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode response", "path", r.URL.Path, "error", err)
	}
}

func writeOK(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, r, http.StatusOK, Response{Success: true, Data: data})
}

func writeCreated(w http.ResponseWriter, r *http.Request, message string, data any) {
	writeJSON(w, r, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// statusFor maps a domain error kind to an HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrorKindValidation:
		return http.StatusBadRequest
	case domain.ErrorKindNotFound:
		return http.StatusNotFound
	case domain.ErrorKindDuplicateInvoice, domain.ErrorKindState, domain.ErrorKindConflict:
		return http.StatusConflict
	case domain.ErrorKindUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrorKindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err in the envelope. Persistence failures are logged and
// their cause is kept out of the response body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		message = de.Message
	}
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "requestID", RequestIDFromContext(r.Context()), "error", err)
		message = "internal server error"
	}
	writeJSON(w, r, status, Response{Success: false, Message: message})
}
