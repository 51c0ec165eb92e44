// Package remedy provides a session client for the BMC Remedy REST API.
package remedy

import (
	"errors"
	"fmt"
	"net/http"
)

// LoginError indicates the Remedy server rejected the login credentials.
// Callers treat it as fatal for the whole run.
type LoginError struct {
	StatusCode int
	Status     string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("remedy login rejected: HTTP %d (%s)", e.StatusCode, e.Status)
}

// APIError indicates a non-2xx response from an entry API call. A single
// failed call is non-fatal: the run loop logs it and moves on.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remedy %s returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsLoginError reports whether err wraps a rejected login.
func IsLoginError(err error) bool {
	var loginErr *LoginError
	return errors.As(err, &loginErr)
}

// IsClientError checks if the status code indicates a client error (4xx).
func IsClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// IsServerError checks if the status code indicates a server error (5xx).
func IsServerError(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError
}

// ErrorClass describes a failed entry API call for diagnostics: "client" for
// 4xx, "server" for 5xx, otherwise "network".
func ErrorClass(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case IsClientError(apiErr.StatusCode):
			return "client"
		case IsServerError(apiErr.StatusCode):
			return "server"
		}
	}
	return "network"
}
