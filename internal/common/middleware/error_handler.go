package middleware

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/open-builders/giveaway-bot/internal/common/errors"
	"github.com/open-builders/giveaway-bot/internal/common/logger"
)

const requestIDKey = "request_id"

// ErrorHandler middleware для обработки паник
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := getRequestID(c)
		stack := string(debug.Stack())

		// Логируем панику
		logger.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", stack).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithDetail("panic", fmt.Sprintf("%v", recovered))

		sendErrorResponse(c, appErr)
		c.Abort()
	})
}

// RequestID middleware для добавления ID запроса
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
	Method    string           `json:"method,omitempty"`
}

// AbortWithError writes err as an ErrorResponse and stops the chain.
// Errors that are not AppErrors become INTERNAL_ERROR.
func AbortWithError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
	}
	sendErrorResponse(c, appErr)
	c.Abort()
}

// sendErrorResponse отправляет ошибку в формате JSON
func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	requestID := getRequestID(c)

	// копия: sentinel-ошибки сервисов разделяются между запросами
	resp := *appErr
	resp.Context = nil
	resp.WithRequestID(requestID).
		WithContext("path", c.Request.URL.Path).
		WithContext("method", c.Request.Method)

	statusCode := getHTTPStatusCode(&resp)

	logError(&resp, c)

	c.JSON(statusCode, ErrorResponse{
		Success:   false,
		Error:     &resp,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	})
}

// getHTTPStatusCode возвращает HTTP статус код для ошибки
func getHTTPStatusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeGiveawayNotFound:
		return http.StatusNotFound
	case errors.ErrCodeChannelUnavailable:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeConflict:
		return http.StatusConflict
	case errors.ErrCodeRateLimit:
		return http.StatusTooManyRequests
	case errors.ErrCodePlatformAPI, errors.ErrCodeEligibilityFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// logError логирует ошибку с контекстом
func logError(appErr *errors.AppError, c *gin.Context) {
	var ev *zerolog.Event
	msg := "Application error occurred"
	switch {
	case appErr.IsInternal():
		ev, msg = logger.Error(), "Internal error occurred"
	case appErr.IsUnauthorized():
		ev, msg = logger.Warn(), "Unauthorized access attempt"
	case appErr.IsValidation():
		ev, msg = logger.Info(), "Validation error"
	case appErr.IsNotFound():
		ev, msg = logger.Info(), "Resource not found"
	default:
		ev = logger.Error()
	}

	ev = ev.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)

	if op := getOperator(c); op != "" {
		ev = ev.Str("operator", op)
	}
	if len(appErr.Details) > 0 {
		detailsJSON, _ := json.Marshal(appErr.Details)
		ev = ev.RawJSON("details", detailsJSON)
	}
	if appErr.Cause != nil {
		ev = ev.Err(appErr.Cause)
	}
	ev.Msg(msg)
}

// getRequestID получает ID запроса из контекста
func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
