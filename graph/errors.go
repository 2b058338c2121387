package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter marks caller mistakes rejected before any
	// query is issued: depth or limit below one, unknown sort keys or
	// strategies, identical path endpoints.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrBackendUnavailable marks a failed or unreachable graph
	// backend. It is fatal for the current invocation and is never
	// retried; the original cause stays attached for diagnostics.
	ErrBackendUnavailable = errors.New("graph backend unavailable")
)

// InvalidParameterf builds an ErrInvalidParameter with detail.
func InvalidParameterf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// BackendError wraps a backend failure so callers can test the kind
// with errors.Is while keeping the driver cause in the chain.
func BackendError(cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrBackendUnavailable, cause)
}
