package user

import (
	"fmt"
	"net/http"
)

// DomainError is a structured, self-describing domain error used across the user module.
// It carries HTTP/RFC7807-friendly metadata so a shared formatter can convert any domain
// error into a Problem response without enumerating error types.
type DomainError struct {
	// Code is a stable, machine-readable business code (e.g., "ErrAccountLocked").
	Code string

	// HTTPStatus is the HTTP status suggested for this error.
	HTTPStatus int

	// Title is a short human summary; if empty the formatter defaults to StatusText(HTTPStatus).
	Title string

	// Message is a human-readable message primarily for logs. When Detail is empty,
	// this is used as the public detail.
	Message string

	// Detail is a user-friendly, safe explanation for clients. If empty, Message is used.
	Detail string

	// TypeURI is an RFC7807 type URI for documentation.
	TypeURI string

	// Context is an optional extension payload for clients (e.g., validation fields map).
	Context any

	// cause is the underlying error that triggered this one, if any.
	cause error
}

// Error satisfies the standard Go error interface.
func (e *DomainError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Message
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap provides compatibility for Go's errors.Is and errors.As functions.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is enables errors.Is comparisons based on the stable Code rather than pointer identity.
// This ensures copies created via WithCause match their sentinel counterpart.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the DomainError wrapping the provided cause.
func (e *DomainError) WithCause(err error) *DomainError {
	if err == nil {
		return e
	}
	cp := *e
	cp.cause = err
	return &cp
}

// --- RFC7807 mapping accessors (satisfy httpx.DomainProblem) ---

func (e *DomainError) ProblemCode() string { return e.Code }
func (e *DomainError) ProblemStatus() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}
func (e *DomainError) ProblemTitle() string { return e.Title }
func (e *DomainError) ProblemDetail() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}
func (e *DomainError) ProblemTypeURI() string { return e.TypeURI }
func (e *DomainError) ProblemContext() any    { return e.Context }

// --- Pre-defined Domain Errors ---

var (
	ErrNotFound = &DomainError{
		Code:       "ErrNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "User not found",
		TypeURI:    "urn:problem:auth/err-not-found",
	}

	// ErrInvalidCredentials is deliberately worded identically for unknown
	// email and wrong password to prevent account enumeration.
	ErrInvalidCredentials = &DomainError{
		Code:       "ErrInvalidCredentials",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "Invalid email or password",
		TypeURI:    "urn:problem:auth/err-invalid-credentials",
	}

	ErrInvalidToken = &DomainError{
		Code:       "ErrInvalidToken",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "Invalid or expired token",
		TypeURI:    "urn:problem:auth/err-invalid-token",
	}

	// Lockout and suspension messages are verbose: the account's existence is
	// already implied by the attempt.
	ErrAccountLocked = &DomainError{
		Code:       "ErrAccountLocked",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "Your account is locked due to multiple failed login attempts. Please try again later.",
		TypeURI:    "urn:problem:auth/err-account-locked",
	}

	ErrAccountNotVerified = &DomainError{
		Code:       "ErrAccountNotVerified",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "Account is not verified. Please verify your email before logging in.",
		TypeURI:    "urn:problem:auth/err-account-not-verified",
	}

	ErrAccountSuspended = &DomainError{
		Code:       "ErrAccountSuspended",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "Your account has been suspended. Please contact support.",
		TypeURI:    "urn:problem:auth/err-account-suspended",
	}

	ErrEmailExists = &DomainError{
		Code:       "ErrEmailExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "Email already exists",
		TypeURI:    "urn:problem:auth/err-email-exists",
	}

	ErrMobileExists = &DomainError{
		Code:       "ErrMobileExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "Mobile number already exists",
		TypeURI:    "urn:problem:auth/err-mobile-exists",
	}

	ErrAlreadyVerified = &DomainError{
		Code:       "ErrAlreadyVerified",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "Account is already verified",
		TypeURI:    "urn:problem:auth/err-already-verified",
	}

	// ErrInvalidVerificationCode covers unknown, consumed, and expired codes
	// alike; the lookup filters expired rows so the cases are indistinguishable.
	ErrInvalidVerificationCode = &DomainError{
		Code:       "ErrInvalidVerificationCode",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "Invalid or expired verification code",
		TypeURI:    "urn:problem:auth/err-invalid-verification-code",
	}

	ErrInvalidResetToken = &DomainError{
		Code:       "ErrInvalidResetToken",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "Invalid or expired reset token",
		TypeURI:    "urn:problem:auth/err-invalid-reset-token",
	}

	ErrTooManyResetRequests = &DomainError{
		Code:       "ErrTooManyResetRequests",
		HTTPStatus: http.StatusTooManyRequests,
		Title:      "Too Many Requests",
		Message:    "You have exceeded the maximum number of password reset requests. Please try again later.",
		TypeURI:    "urn:problem:auth/err-too-many-reset-requests",
	}

	ErrCaptchaFailed = &DomainError{
		Code:       "ErrCaptchaFailed",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "reCAPTCHA verification failed",
		TypeURI:    "urn:problem:auth/err-captcha-failed",
	}

	ErrInternal = &DomainError{
		Code:       "ErrInternal",
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Message:    "internal server error",
		TypeURI:    "urn:problem:auth/err-internal",
	}
)
