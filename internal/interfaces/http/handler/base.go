package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/channelbridge/backend/internal/application/sync"
	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/domain/shared"
	"github.com/channelbridge/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError translates domain errors into the HTTP error envelope. Platform
// rejections keep the platform's own code and message so operators can act on
// them without digging through logs.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var platformErr *channel.PlatformError
	if errors.As(err, &platformErr) {
		code := dto.ErrCodePlatform
		if platformErr.IsRateLimited() {
			code = dto.ErrCodePlatformRateLimited
		}
		h.ErrorWithCode(c, code, platformErr.Error())
		return
	}

	if errors.Is(err, shared.ErrNotFound) {
		h.ErrorWithCode(c, dto.ErrCodeNotFound, "resource not found")
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.ErrorWithCode(c, domainErr.Code, domainErr.Message)
		return
	}

	switch {
	case errors.Is(err, channel.ErrChannelNotConfigured):
		h.ErrorWithCode(c, dto.ErrCodeChannelNotConfigured, err.Error())
	case errors.Is(err, channel.ErrChannelDisabled):
		h.ErrorWithCode(c, dto.ErrCodeChannelDisabled, err.Error())
	case errors.Is(err, channel.ErrAuthFailed), errors.Is(err, channel.ErrTokenExpired):
		h.ErrorWithCode(c, dto.ErrCodeChannelAuth, err.Error())
	case errors.Is(err, channel.ErrRateLimited):
		h.ErrorWithCode(c, dto.ErrCodePlatformRateLimited, err.Error())
	case errors.Is(err, channel.ErrInvalidResponse):
		h.ErrorWithCode(c, dto.ErrCodePlatformResponse, err.Error())
	case errors.Is(err, channel.ErrUnsupportedAction):
		h.ErrorWithCode(c, dto.ErrCodeUnsupportedAction, err.Error())
	case errors.Is(err, channel.ErrMissingActionParams):
		h.ErrorWithCode(c, dto.ErrCodeMissingActionParams, err.Error())
	case errors.Is(err, channel.ErrInvalidVariantKey),
		errors.Is(err, channel.ErrInvalidQuantity),
		errors.Is(err, channel.ErrInvalidWindow),
		errors.Is(err, channel.ErrInvalidChangeType):
		h.ErrorWithCode(c, dto.ErrCodeValidation, err.Error())
	case errors.Is(err, sync.ErrMirrorStale):
		h.ErrorWithCode(c, dto.ErrCodeMirrorStale, err.Error())
	default:
		h.InternalError(c, "An unexpected error occurred")
	}
}

// parseChannel resolves the :channel route parameter. The empty code is
// reported as an unknown channel.
func (h *BaseHandler) parseChannel(c *gin.Context) (channel.Code, bool) {
	code := channel.ParseCode(c.Param("channel"))
	if code == "" {
		h.ErrorWithCode(c, dto.ErrCodeUnknownChannel, "unknown channel: "+c.Param("channel"))
		return "", false
	}
	return code, true
}
