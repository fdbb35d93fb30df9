package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is matched by APIError values carrying a 404 status.
	ErrNotFound = errors.New("resource not found")

	// ErrNoOrigin is returned when the base URL is relative and the context carries no origin
	// to resolve it against.
	ErrNoOrigin = errors.New("relative API base URL requires a configured public origin")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
