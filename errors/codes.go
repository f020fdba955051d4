package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Local validation errors. These are raised before any network call and are
// always returned to the caller.
const (
	// ErrCodeInvalidProvider indicates the provider name is not registered.
	ErrCodeInvalidProvider ErrorCode = "INVALID_PROVIDER"
	// ErrCodeInvalidMethod indicates the provider does not support the method.
	ErrCodeInvalidMethod ErrorCode = "INVALID_METHOD"
	// ErrCodeInvalidLocationShape indicates the location does not fit the method.
	ErrCodeInvalidLocationShape ErrorCode = "INVALID_LOCATION_SHAPE"
	// ErrCodeMissingCredential indicates a required API key was not supplied.
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	// ErrCodeInvalidInput indicates an option or output name is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates a local resource, such as an input file, is missing.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Provider-side errors. These are captured in the result status rather than
// returned.
const (
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeAuth indicates the provider rejected the credentials (401/403).
	ErrCodeAuth ErrorCode = "AUTH_ERROR"
	// ErrCodeRateLimited indicates the provider throttled the request (429).
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeProviderUnavailable indicates a 5xx or connection failure.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCodeRequestFailed indicates any other non-2xx answer.
	ErrCodeRequestFailed ErrorCode = "REQUEST_FAILED"
	// ErrCodeMalformedResponse indicates the body could not be decoded.
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
)

// Internal errors
const (
	// ErrCodeInternal indicates a bug or an unexpected local failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:             true,
	ErrCodeRateLimited:         true,
	ErrCodeProviderUnavailable: true,
}

var localCodes = map[ErrorCode]bool{
	ErrCodeInvalidProvider:      true,
	ErrCodeInvalidMethod:        true,
	ErrCodeInvalidLocationShape: true,
	ErrCodeMissingCredential:    true,
	ErrCodeInvalidInput:         true,
	ErrCodeNotFound:             true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsLocal reports whether the code is a fail-fast validation error raised
// before any network call.
func IsLocal(code ErrorCode) bool {
	return localCodes[code]
}
