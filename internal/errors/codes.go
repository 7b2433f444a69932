package errors

// ErrorCode is a stable machine-readable error identifier. Codes are part of
// the API contract; clients switch on them, so they never change meaning.
type ErrorCode string

const (
	// CodeAccountDeactivated is returned for a recognized but disabled account.
	CodeAccountDeactivated ErrorCode = "AUTH_001"
	// CodeInvalidRefreshToken is returned when a refresh token fails verification.
	CodeInvalidRefreshToken ErrorCode = "AUTH_002"
	// CodeRefreshTokenExpired is returned when a refresh token is past its expiry.
	CodeRefreshTokenExpired ErrorCode = "AUTH_003"
	// CodeInvalidCredentials covers bad email/password pairs and bad access
	// tokens. Lookup-miss and password-mismatch share this code and message.
	CodeInvalidCredentials ErrorCode = "AUTH_004"
	// CodeInsufficientPermissions is returned when the caller's role is not allowed.
	CodeInsufficientPermissions ErrorCode = "AUTH_005"
	// CodeValidation is returned for malformed client input, with per-field details.
	CodeValidation ErrorCode = "DATA_001"
	// CodeNotFound is returned when a requested resource does not exist.
	CodeNotFound ErrorCode = "DATA_002"
	// CodeInternal is the generic fallback for unexpected failures.
	CodeInternal ErrorCode = "SERVER_001"
	// CodeConfiguration signals a missing or invalid server-side setting.
	CodeConfiguration ErrorCode = "SERVER_002"
	// CodeRateLimited is returned when the caller exceeds the login attempt budget.
	CodeRateLimited ErrorCode = "SERVER_003"
)
