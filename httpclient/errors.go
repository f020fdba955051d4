package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	geoerrors "github.com/kbukum/geokit/errors"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeRejected indicates any other 4xx answer.
	ErrCodeRejected
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
	// ErrCodeDecode indicates a body that could not be decoded.
	ErrCodeDecode
	// ErrCodeValidation indicates a request that could not be built.
	ErrCodeValidation
	// ErrCodeCanceled indicates the caller cancelled the request.
	ErrCodeCanceled
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeRejected:
		return "rejected"
	case ErrCodeServer:
		return "server"
	case ErrCodeDecode:
		return "decode"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable indicates whether the operation can be retried.
	Retryable bool
	// Body is the original response body (may be nil).
	Body []byte
	// Err is the underlying error.
	Err error
	// RetryAfter is the wait the server asked for, if any.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewCanceledError creates an error for a request the caller abandoned.
func NewCanceledError(err error) *Error {
	return &Error{Code: ErrCodeCanceled, Message: err.Error(), Err: err}
}

// NewDecodeError creates an error for an undecodable body.
func NewDecodeError(format Format, err error) *Error {
	return &Error{Code: ErrCodeDecode, Message: fmt.Sprintf("decode %s: %v", format, err), Err: err}
}

// NewValidationError creates a validation error.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode converts an HTTP status code into a typed error.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode, Message: fmt.Sprintf("HTTP %d", statusCode), Body: body}
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		e.Code = ErrCodeAuth
	case statusCode == 429:
		e.Code = ErrCodeRateLimit
		e.Retryable = true
	case statusCode >= 500:
		e.Code = ErrCodeServer
		e.Retryable = true
	default:
		e.Code = ErrCodeRejected
	}
	return e
}

// ToAppError maps err onto the geocoding error taxonomy for provider.
// AppErrors pass through unchanged.
func ToAppError(err error, provider string) *geoerrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := geoerrors.AsAppError(err); ok {
		return appErr
	}

	var e *Error
	if !errors.As(err, &e) {
		if errors.Is(err, context.DeadlineExceeded) {
			return geoerrors.Timeout(provider).WithCause(err)
		}
		return geoerrors.Internal(err)
	}

	switch e.Code {
	case ErrCodeTimeout:
		return geoerrors.Timeout(provider).WithCause(err)
	case ErrCodeConnection:
		return geoerrors.ProviderUnavailable(provider, 0).WithCause(err)
	case ErrCodeAuth:
		return geoerrors.Auth(provider, e.StatusCode)
	case ErrCodeRateLimit:
		return withRetryAfter(geoerrors.RateLimited(provider), e.RetryAfter)
	case ErrCodeServer:
		return withRetryAfter(geoerrors.ProviderUnavailable(provider, e.StatusCode), e.RetryAfter)
	case ErrCodeDecode:
		return geoerrors.MalformedResponse(provider, e.Err)
	case ErrCodeRejected:
		return geoerrors.RequestFailed(provider, e.StatusCode, bodyReason(e))
	default:
		return geoerrors.RequestFailed(provider, e.StatusCode, e.Message).WithCause(err)
	}
}

func withRetryAfter(appErr *geoerrors.AppError, d time.Duration) *geoerrors.AppError {
	if d <= 0 {
		return appErr
	}
	return appErr.WithDetail(geoerrors.DetailRetryAfter, d.Seconds())
}

// parseRetryAfter reads a Retry-After header given in seconds or as an
// HTTP date. Anything else is zero.
func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// bodyReason extracts a short human-readable reason from an error body.
func bodyReason(e *Error) string {
	reason := strings.TrimSpace(string(e.Body))
	if reason == "" || strings.HasPrefix(reason, "<") {
		return ""
	}
	if r := []rune(reason); len(r) > 120 {
		reason = string(r[:120]) + "..."
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, reason)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
