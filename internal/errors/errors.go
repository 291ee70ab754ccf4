package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of client error.
type ErrorCode string

const (
	// ErrCodeValidation indicates input rejected locally, before any network call.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeRejected indicates the backend answered but refused the request
	// (non-2xx status, or a 2xx body carrying success=false).
	ErrCodeRejected ErrorCode = "rejected"
	// ErrCodeConflict indicates the backend rejected a duplicate username or e-mail.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeVerificationRequired indicates the account exists but its e-mail is not verified yet.
	ErrCodeVerificationRequired ErrorCode = "verification_required"
	// ErrCodeNetwork indicates a transport failure or an unreadable response.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeBusy indicates a duplicate submission while a request is already in flight.
	ErrCodeBusy ErrorCode = "busy"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
	// ErrCodeUnauthenticated indicates an operation that needs a signed-in session.
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"
	// ErrCodeInternal indicates a programming or wiring error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError is a structured client error with a code, a user-readable message and an optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error
	Code ErrorCode
	// Message is safe to show to the user as-is
	Message string
	// Cause is the underlying error (optional)
	Cause error
	// Field is the form field that failed validation (optional)
	Field string
	// Status is the HTTP status returned by the backend, zero when no response was received
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Rejected creates a new Rejected error carrying the backend status.
func Rejected(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeRejected,
		Message: message,
		Status:  status,
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// VerificationRequired creates a new VerificationRequired error.
func VerificationRequired(message string) *AppError {
	return &AppError{
		Code:    ErrCodeVerificationRequired,
		Message: message,
	}
}

// Network wraps a transport failure.
func Network(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeNetwork,
		Message: message,
		Cause:   err,
	}
}

// Busy creates a new Busy error.
func Busy(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBusy,
		Message: message,
	}
}

// Canceled reports a request whose result was discarded.
func Canceled(message string) *AppError {
	return &AppError{
		Code:    ErrCodeCanceled,
		Message: message,
	}
}

// Unauthenticated creates a new Unauthenticated error.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthenticated,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsRejected reports whether the backend refused the request, including the
// conflict and verification refinements.
func IsRejected(err error) bool {
	return isCode(err, ErrCodeRejected) || isCode(err, ErrCodeConflict) || isCode(err, ErrCodeVerificationRequired)
}

// IsVerificationRequired checks if an error is a VerificationRequired error.
func IsVerificationRequired(err error) bool {
	return isCode(err, ErrCodeVerificationRequired)
}

// IsNetwork reports whether the request never produced a usable response.
func IsNetwork(err error) bool {
	return isCode(err, ErrCodeNetwork) || isCode(err, ErrCodeTimeout) || isCode(err, ErrCodeCanceled)
}

// IsBusy checks if an error is a Busy error.
func IsBusy(err error) bool {
	return isCode(err, ErrCodeBusy)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// UserMessage returns the message to show for err. AppErrors yield their own
// message without the cause; anything else yields fallback.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
