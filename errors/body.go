package errors

import (
	stderrors "errors"
	"time"
)

// ErrorBody is the JSON form of an AppError. It appears under "error" in a
// failed result and in the CLI's line for a rejected location.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// Body returns the JSON form of e. The cause stays out of it.
func (e *AppError) Body() ErrorBody {
	return ErrorBody{Code: e.Code, Message: e.Message, Retryable: e.Retryable, Details: e.Details}
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// From returns the AppError in err's chain, or wraps err as INTERNAL.
// A nil err gives nil.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// HasCode reports whether err's chain holds an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// DetailRetryAfter holds the seconds a provider asked callers to wait.
const DetailRetryAfter = "retry_after_seconds"

// RetryAfter returns the wait carried under DetailRetryAfter, or zero.
func RetryAfter(err error) time.Duration {
	appErr, ok := AsAppError(err)
	if !ok {
		return 0
	}
	secs, _ := appErr.Details[DetailRetryAfter].(float64)
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
