package channel

import (
	"errors"
	"fmt"
)

var (
	// Adapter / platform errors
	ErrChannelNotConfigured = errors.New("channel: channel not configured")
	ErrChannelDisabled      = errors.New("channel: channel is disabled")
	ErrAuthFailed           = errors.New("channel: platform authentication failed")
	ErrTokenExpired         = errors.New("channel: platform token expired")
	ErrRateLimited          = errors.New("channel: platform rate limited")
	ErrInvalidResponse      = errors.New("channel: invalid platform response")

	// Claim validation errors (raised before any network call)
	ErrUnsupportedAction   = errors.New("channel: action not supported for claim kind")
	ErrMissingActionParams = errors.New("channel: required action parameters missing")

	// Catalog / inventory errors
	ErrInvalidVariantKey = errors.New("channel: invalid variant key")
	ErrInvalidQuantity   = errors.New("channel: quantity must not be negative")
	ErrInvalidWindow     = errors.New("channel: invalid change window")
	ErrInvalidChangeType = errors.New("channel: unknown change type")
)

// PlatformError carries a platform-side failure back to the caller verbatim.
// Adapters wrap every non-2xx marketplace response in a PlatformError so that
// orchestrating services can distinguish remote rejections from local faults
// without parsing message strings.
type PlatformError struct {
	Channel Code
	// HTTPStatus is the status returned by the platform, 0 when the request
	// never reached it (transport failure).
	HTTPStatus int
	// PlatformCode is the platform's own error code, when one was provided.
	PlatformCode string
	Message      string
	Err          error
}

// Error implements the error interface.
func (e *PlatformError) Error() string {
	if e.PlatformCode != "" {
		return fmt.Sprintf("channel %s: platform error %s: %s", e.Channel, e.PlatformCode, e.Message)
	}
	return fmt.Sprintf("channel %s: platform error: %s", e.Channel, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether the platform rejected the call for quota reasons.
func (e *PlatformError) IsRateLimited() bool {
	return e.HTTPStatus == 429 || errors.Is(e.Err, ErrRateLimited)
}

// NewPlatformError builds a PlatformError for the given channel.
func NewPlatformError(code Code, httpStatus int, platformCode, message string) *PlatformError {
	return &PlatformError{
		Channel:      code,
		HTTPStatus:   httpStatus,
		PlatformCode: platformCode,
		Message:      message,
	}
}
