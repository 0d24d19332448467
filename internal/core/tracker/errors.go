package tracker

import (
	"fmt"
	"net/http"

	"github.com/lueurxax/meeto/internal/core/errors"
)

// APIError is a non-2xx answer from the tracker. Body keeps the tracker's diagnostic text.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira API error %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps the status code onto the shared sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrUnauthorized
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusTooManyRequests:
		return errors.ErrRateLimited
	case http.StatusBadRequest:
		return errors.ErrInvalidInput
	default:
		return nil
	}
}

// Diagnostic returns the tracker body carried by err, if any.
func Diagnostic(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}

	return ""
}
