package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the backend, carrying the status
// code and the user-facing message extracted from the response body.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
}

// IsAuthError reports whether err is an APIError caused by a missing,
// expired or rejected credential.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// UserMessage extracts the text to show a staff member for any error
// coming out of the client: the backend's message for API errors, a
// generic line for transport failures.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "could not reach the ticketing service"
}
