package errors

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var debugMode atomic.Bool

// SetDebug toggles whether unexpected failures carry a diagnostic "detail" field.
// It must stay off in production.
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// Debug reports the current diagnostic mode.
func Debug() bool {
	return debugMode.Load()
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// RespondWithError writes an error body and aborts the handler chain.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthenticated."
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Forbidden"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

// Unprocessable is used for every rejected input, including business rule failures.
func Unprocessable(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusUnprocessableEntity, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field messages.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	message := "The given data was invalid."
	if len(fields) == 1 {
		for _, only := range fields {
			message = only
		}
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationError{
		Error:   ValidationInvalidInput,
		Message: message,
		Fields:  fields,
	})
}
