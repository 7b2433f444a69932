// Package errors provides the application error taxonomy: structured errors
// with stable machine codes, HTTP status mapping, and the standard response
// envelope used by every endpoint.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode
	// Message is a human-readable error message, safe to show to clients.
	Message string
	// HTTPStatus is the HTTP status code this error maps to.
	HTTPStatus int
	// Details carries optional structured context (field errors, retry hints).
	Details map[string]any
	// Cause is the underlying error, logged server-side, never sent to clients.
	Cause error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// invalidCredentialsMessage is shared by lookup-miss and password-mismatch so
// the two are indistinguishable to the caller.
const invalidCredentialsMessage = "Invalid email or password"

// InvalidCredentials is returned for unknown email or wrong password alike.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    invalidCredentialsMessage,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// AccountDeactivated is returned for a recognized account with is_active=false.
// The message deliberately differs from InvalidCredentials; see DESIGN.md.
func AccountDeactivated() *AppError {
	return &AppError{
		Code:       CodeAccountDeactivated,
		Message:    "Account is deactivated",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NoToken is returned when no bearer token accompanies the request.
func NoToken() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "No authentication token provided",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken is returned for any access-token verification failure. The
// message does not reveal whether the signature, structure, or expiry failed.
func InvalidToken() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Invalid or expired token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidRefreshToken is returned when a refresh token fails verification.
func InvalidRefreshToken() *AppError {
	return &AppError{
		Code:       CodeInvalidRefreshToken,
		Message:    "Invalid refresh token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// RefreshTokenExpired is returned when a refresh token is valid but expired.
func RefreshTokenExpired() *AppError {
	return &AppError{
		Code:       CodeRefreshTokenExpired,
		Message:    "Refresh token has expired",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden is returned when the authenticated caller's role is not allowed.
func Forbidden() *AppError {
	return &AppError{
		Code:       CodeInsufficientPermissions,
		Message:    "You do not have permission to access this resource",
		HTTPStatus: http.StatusForbidden,
	}
}

// Validation wraps per-field input errors. fields maps field name to reason.
func Validation(fields map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    "Invalid request data",
		HTTPStatus: http.StatusBadRequest,
		Details:    fields,
	}
}

// NotFound is returned when a requested resource does not exist.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("The requested %s was not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// RateLimited is returned when the caller exceeds the attempt budget.
func RateLimited(retryAfter time.Duration) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    "Too many login attempts, please try again later",
		HTTPStatus: http.StatusTooManyRequests,
		Details:    map[string]any{"retryAfter": int64(retryAfter.Seconds())},
	}
}

// Configuration signals a missing or invalid server-side setting.
func Configuration(setting string) *AppError {
	return &AppError{
		Code:       CodeConfiguration,
		Message:    "Server configuration error",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"setting": setting},
	}
}

// Internal is the generic fallback. The cause is logged, never serialized.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}
