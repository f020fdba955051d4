// Package errors provides the error taxonomy shared by the dispatcher, the
// request pipeline and the CLI. Every failure carries a machine-readable code,
// a retryable flag and an HTTP-style status so it can be rendered as an
// RFC 7807 body.
package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the closest HTTP status for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
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

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Validation errors ---

// InvalidProvider reports an unknown provider name. known lists the
// registered names so the message is actionable.
func InvalidProvider(name string, known []string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidProvider,
		Message:    fmt.Sprintf("Invalid provider %q. Choose one of: %s", name, strings.Join(known, ", ")),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"provider": name},
	}
}

// InvalidMethod reports a method the provider does not support.
func InvalidMethod(provider, method string, supported []string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidMethod,
		Message:    fmt.Sprintf("Invalid method %q for provider %s. Supported: %s", method, provider, strings.Join(supported, ", ")),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"provider": provider, "method": method},
	}
}

// InvalidLocationShape reports a location that cannot be used with a method.
func InvalidLocationShape(method, reason string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidLocationShape,
		Message:    fmt.Sprintf("Invalid location for %s: %s", method, reason),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"method": method},
	}
}

// MissingCredential reports a provider that needs a key nobody supplied.
// envVars are the environment variables consulted, shown as a hint.
func MissingCredential(provider string, envVars ...string) *AppError {
	msg := fmt.Sprintf("Provider %s requires an API key", provider)
	if len(envVars) > 0 {
		msg += fmt.Sprintf(" (set the key option or %s)", strings.Join(envVars, ", "))
	}
	return &AppError{
		Code:       ErrCodeMissingCredential,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]any{"provider": provider},
	}
}

// InvalidInput creates a new AppError for an invalid option or argument.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for struct validation failures.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// NotFound creates a new AppError for a local resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// --- Provider-side errors ---

// Timeout creates a new AppError for a request that timed out.
func Timeout(provider string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s did not answer in time.", provider),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"provider": provider},
	}
}

// Auth creates a new AppError for rejected credentials.
func Auth(provider string, status int) *AppError {
	return &AppError{
		Code: ErrCodeAuth, Message: fmt.Sprintf("%s rejected the credentials.", provider),
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
		Details: map[string]any{"provider": provider, "status": status},
	}
}

// RateLimited creates a new AppError for a throttled request.
func RateLimited(provider string) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: fmt.Sprintf("%s is rate limiting requests.", provider),
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"provider": provider},
	}
}

// ProviderUnavailable creates a new AppError for a provider that cannot
// answer right now.
func ProviderUnavailable(provider string, status int) *AppError {
	details := map[string]any{"provider": provider}
	if status > 0 {
		details["status"] = status
	}
	return &AppError{
		Code: ErrCodeProviderUnavailable, Message: fmt.Sprintf("%s is temporarily unavailable.", provider),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true, Details: details,
	}
}

// RequestFailed creates a new AppError for any other rejected request.
func RequestFailed(provider string, status int, reason string) *AppError {
	if reason == "" {
		reason = fmt.Sprintf("HTTP %d", status)
	}
	details := map[string]any{"provider": provider}
	if status > 0 {
		details["status"] = status
	}
	return &AppError{
		Code: ErrCodeRequestFailed, Message: fmt.Sprintf("%s request failed: %s", provider, reason),
		HTTPStatus: http.StatusBadGateway, Retryable: false, Details: details,
	}
}

// MalformedResponse creates a new AppError for an undecodable body.
func MalformedResponse(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeMalformedResponse, Message: fmt.Sprintf("%s returned a response that could not be decoded.", provider),
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// Internal creates a new AppError for an unexpected local failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
