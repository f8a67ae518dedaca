package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/locapro/partner-api/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse is the error envelope: {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// errorMapping ties a sentinel to its HTTP status and code. Order matters:
// a partial failure may also wrap the not-found of the step that failed.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrPartialFailure, http.StatusBadGateway, "partial_failure"},
	{domain.ErrScreeningUnavailable, http.StatusServiceUnavailable, "screening_unavailable"},
	{domain.ErrBlacklisted, http.StatusConflict, "blacklisted"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
}

// writeError maps err onto the envelope. Unrecognised errors are logged and
// answered with a generic 500 so internals never leak to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code:    "validation_error",
			Message: "one or more fields are invalid",
			Fields:  fe,
		}})
		return
	}

	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError {
				slog.ErrorContext(r.Context(), "request failed", "error", err, "code", m.code)
			}
			writeJSON(w, m.status, ErrorResponse{Error: ErrorDetail{Code: m.code, Message: unwrapMessage(err, m.target)}})
			return
		}
	}

	slog.ErrorContext(r.Context(), "unhandled error", "error", err, "method", r.Method, "path", r.URL.Path)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
		Code:    "internal_error",
		Message: "internal server error",
	}})
}

// requestError answers a request rejected before it reached a service,
// e.g. a malformed body or path parameter.
func requestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}})
}

// unwrapMessage drops the "pkg.Type.Method: " call-site prefixes from a
// wrapped sentinel error and keeps only its first line.
// e.g. "service.ContractService.UpdateStatus: invalid status transition: completed to active"
// becomes "invalid status transition: completed to active".
func unwrapMessage(err, target error) string {
	msg := err.Error()
	if i := strings.Index(msg, target.Error()); i >= 0 {
		msg = msg[i:]
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
