package errors

import (
	stderrors "errors"
	"time"
)

// ErrorBody is the error portion of the response envelope.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Envelope is the standard error response shape returned by every endpoint.
type Envelope struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
	Path      string    `json:"path"`
}

// ToEnvelope converts the error to a response envelope for the given request path.
func (e *AppError) ToEnvelope(path string) Envelope {
	return Envelope{
		Success: false,
		Error: ErrorBody{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      path,
	}
}

// AsAppError extracts an *AppError from err's chain if present.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
