package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo is the client-facing shape of an arbitrary error.
type ErrorInfo struct {
	Code    string
	Message string
	Field   string // set when the failure can be attributed to a request field
}

// ParseError turns a store or infrastructure error into a code and a message
// that are safe to show to clients. Both PostgreSQL and SQLite wordings are
// recognised.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := err.Error()
	errLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	// 23505 / "UNIQUE constraint failed"
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// 23503
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
	}

	// 23502 / "NOT NULL constraint failed"
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return parseNotNullError(errLower)
	}

	if strings.Contains(errLower, "check constraint") {
		return ErrorInfo{Code: ValidationInvalidInput, Message: "The given data was invalid."}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalDatabaseError, Message: defaultMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "username"):
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "The username has already been taken.",
			Field:   "username",
		}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "The email has already been taken.",
			Field:   "email",
		}
	case strings.Contains(errLower, "carts") && strings.Contains(errLower, "user_id"):
		return ErrorInfo{Code: ResourceConflict, Message: "The cart was modified concurrently. Please retry"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "The record already exists"}
}

func parseNotNullError(errLower string) ErrorInfo {
	for _, field := range []string{"username", "password", "name", "price", "quantity"} {
		if strings.Contains(errLower, field) {
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "The " + field + " field is required.",
				Field:   field,
			}
		}
	}
	return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing."}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "user"), strings.Contains(contextLower, "profile"):
		return "User not found"
	}
	return "The requested record was not found"
}

func defaultMessage(context string) string {
	if context == "" {
		return "Something went wrong. Please try again later"
	}
	return "Failed to " + context + ". Please try again later"
}

// ParseAndRespond writes a parsed error. Field-attributable errors become a
// validation response; everything else uses statusCode. The raw error text is
// attached only in debug mode.
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	info := ParseError(err, context)
	if info.Field != "" {
		RespondWithValidationError(c, map[string]string{info.Field: info.Message})
		return
	}

	body := ErrorResponse{Error: info.Code, Message: info.Message}
	if Debug() && err != nil {
		body.Detail = err.Error()
	}
	c.AbortWithStatusJSON(statusCode, body)
}
