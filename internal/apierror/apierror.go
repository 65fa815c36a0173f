// Package apierror holds the error outcomes the service layer hands to the
// transport: a status, a message that is safe to show, and for throttling the
// time the client should wait.
package apierror

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

// APIError is a classified error with a client-safe message.
type APIError struct {
	Status     int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return e.Message
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds. It is zero when no
// wait applies and at least one otherwise.
func (e *APIError) RetryAfterSeconds() int {
	if e.RetryAfter <= 0 {
		return 0
	}
	return max(int(math.Ceil(e.RetryAfter.Seconds())), 1)
}

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewValidation reports malformed input.
func NewValidation(format string, args ...any) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewUnauthorized reports a missing or invalid credential or session.
func NewUnauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

// NewForbidden reports an authenticated caller that is not permitted.
func NewForbidden(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: message}
}

// NewNotFound reports a referenced resource that does not exist.
func NewNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

// NewConflict reports a uniqueness violation.
func NewConflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: message}
}

// NewRateLimited reports a throttled request.
func NewRateLimited(retryAfter time.Duration) *APIError {
	return &APIError{
		Status:     http.StatusTooManyRequests,
		Message:    "too many requests, please try again later",
		RetryAfter: retryAfter,
	}
}

// NewInternal reports a dependency failure without exposing its detail.
func NewInternal() *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: "internal server error"}
}

// Common messages shared by the auth flows.
const (
	MsgInvalidCredentials = "invalid email or password"
	MsgEmailNotVerified   = "please verify your email before logging in"
	MsgNotAuthenticated   = "not authenticated"
	MsgInvalidCode        = "invalid verification code"
	MsgInvalidToken       = "invalid or expired token"
	MsgAdminExists        = "an admin already exists"
)
