// Package errors provides custom error types for the Wavz API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound    = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail  = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrProfileNotFound = &AppError{Code: "PROFILE_NOT_FOUND", Message: "Wavz profile not found", StatusCode: http.StatusNotFound}
)

// Connected account errors.
var (
	ErrAccountNotFound  = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Connected account not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAccount = &AppError{Code: "DUPLICATE_ACCOUNT", Message: "This platform account is already connected", StatusCode: http.StatusConflict}
)

// Scoring pipeline errors.
var (
	ErrCalculationNotFound  = &AppError{Code: "CALCULATION_NOT_FOUND", Message: "cPoints calculation not found", StatusCode: http.StatusNotFound}
	ErrInvalidPeriod        = &AppError{Code: "INVALID_PERIOD", Message: "Period end must be after period start", StatusCode: http.StatusBadRequest}
	ErrConcurrencyConflict  = &AppError{Code: "CONCURRENCY_CONFLICT", Message: "Profile was modified concurrently, please retry", StatusCode: http.StatusConflict}
	ErrInvalidContribution  = &AppError{Code: "INVALID_CONTRIBUTION", Message: "Contribution amount must be positive", StatusCode: http.StatusBadRequest}
)

// Beat errors.
var (
	ErrBeatNotFound  = &AppError{Code: "BEAT_NOT_FOUND", Message: "Beat not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBeat = &AppError{Code: "DUPLICATE_BEAT", Message: "A Beat already exists for this content", StatusCode: http.StatusConflict}
)

// Verification errors.
var (
	ErrKYCAlreadyApproved = &AppError{Code: "KYC_ALREADY_APPROVED", Message: "Identity is already verified", StatusCode: http.StatusConflict}
)

// External collaborator errors.
var (
	ErrInsightIQUnavailable = &AppError{Code: "INSIGHTIQ_UNAVAILABLE", Message: "Engagement provider is unavailable", StatusCode: http.StatusBadGateway}
	ErrVeriffUnavailable    = &AppError{Code: "VERIFF_UNAVAILABLE", Message: "Verification provider is unavailable", StatusCode: http.StatusBadGateway}
	ErrThirdwebUnavailable  = &AppError{Code: "THIRDWEB_UNAVAILABLE", Message: "Wallet provider is unavailable", StatusCode: http.StatusBadGateway}
)
