package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist for the calling partner.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrBlacklisted is returned when the person behind a contract or client
// matches one of the partner's blacklist entries. The operation is aborted
// before anything is written.
var ErrBlacklisted = errors.New("blacklisted")

// ErrInvalidTransition is returned when a contract status change would move
// the contract backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrScreeningUnavailable is returned when the blacklist could not be loaded.
// Screening fails closed: the guarded write is not attempted.
var ErrScreeningUnavailable = errors.New("blacklist screening unavailable")

// ErrPartialFailure is returned when a multi-step operation completed some of
// its writes but not all of them. The caller must report it and may retry.
var ErrPartialFailure = errors.New("partial failure")

// FieldErrors collects per-field validation messages keyed by the JSON field
// name. It unwraps to ErrValidation so errors.Is keeps working.
type FieldErrors map[string]string

// Add records msg for field. The first message recorded for a field wins.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Err returns f as an error, or nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, f[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (f FieldErrors) Unwrap() error { return ErrValidation }
