package dto

import "net/http"

// Error code constants, format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used for invalid input data
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Channel error codes
const (
	// ErrCodeUnknownChannel is used when the channel name is not a supported platform
	ErrCodeUnknownChannel = "ERR_UNKNOWN_CHANNEL"
	// ErrCodeChannelNotConfigured is used when the channel has no configured adapter
	ErrCodeChannelNotConfigured = "ERR_CHANNEL_NOT_CONFIGURED"
	// ErrCodeChannelDisabled is used when the channel is configured but disabled
	ErrCodeChannelDisabled = "ERR_CHANNEL_DISABLED"
	// ErrCodeChannelAuth is used when the platform rejected our credentials
	ErrCodeChannelAuth = "ERR_CHANNEL_AUTH"
	// ErrCodePlatform is used when the platform rejected the operation
	ErrCodePlatform = "ERR_PLATFORM"
	// ErrCodePlatformRateLimited is used when the platform throttled us
	ErrCodePlatformRateLimited = "ERR_PLATFORM_RATE_LIMITED"
	// ErrCodePlatformResponse is used when the platform response was unreadable
	ErrCodePlatformResponse = "ERR_PLATFORM_RESPONSE"
)

// Claim error codes
const (
	// ErrCodeUnsupportedAction is used when the action is illegal for the claim kind
	ErrCodeUnsupportedAction = "ERR_UNSUPPORTED_ACTION"
	// ErrCodeMissingActionParams is used when a required action parameter is absent
	ErrCodeMissingActionParams = "ERR_MISSING_ACTION_PARAMS"
)

// Mirror error codes
const (
	// ErrCodeNotFound is used when a mirrored resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeMirrorStale is used when the remote write succeeded but the local
	// mirror update failed
	ErrCodeMirrorStale = "ERR_MIRROR_STALE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when our own rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnknownChannel:       http.StatusNotFound,
	ErrCodeChannelNotConfigured: http.StatusNotFound,
	ErrCodeChannelDisabled:      http.StatusConflict,
	ErrCodeChannelAuth:          http.StatusBadGateway,
	ErrCodePlatform:             http.StatusBadGateway,
	ErrCodePlatformRateLimited:  http.StatusBadGateway,
	ErrCodePlatformResponse:     http.StatusBadGateway,

	ErrCodeUnsupportedAction:   http.StatusUnprocessableEntity,
	ErrCodeMissingActionParams: http.StatusBadRequest,

	ErrCodeNotFound: http.StatusNotFound,
	// The remote write landed, so the operation is reported as accepted
	// rather than failed outright.
	ErrCodeMirrorStale: http.StatusAccepted,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
