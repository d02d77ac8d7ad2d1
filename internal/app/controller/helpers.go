package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/foodiehub/foodiehub-backend/internal/app/service"
	"github.com/foodiehub/foodiehub-backend/internal/middleware"
	"github.com/foodiehub/foodiehub-backend/internal/validate"
	"github.com/gin-gonic/gin"

	apperrors "github.com/foodiehub/foodiehub-backend/internal/errors"
)

// requireUserID returns the authenticated user's ID, or responds 401.
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Missing authenticated user", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// bindJSON decodes the body into req and runs its validate tags. It writes a
// 422 response and returns false on any failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	log := middleware.GetLoggerFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		log.Warn("Invalid request body", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})

		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			apperrors.RespondWithValidationError(c, map[string]string{
				typeErr.Field: "The " + typeErr.Field + " field has an invalid type.",
			})
		case errors.Is(err, io.EOF):
			apperrors.Unprocessable(c, apperrors.ValidationRequired, "The request body is empty.")
		default:
			apperrors.Unprocessable(c, apperrors.ValidationInvalidInput, "The request body is not valid JSON.")
		}
		return false
	}

	if err := validate.Check(req); err != nil {
		var fields validate.FieldErrors
		if errors.As(err, &fields) {
			log.Warn("Request validation failed", map[string]interface{}{
				"path":   c.Request.URL.Path,
				"fields": fields,
			})
			apperrors.RespondWithValidationError(c, fields)
			return false
		}
		log.Error("Validator failure", err)
		apperrors.InternalError(c, "")
		return false
	}
	return true
}

// parseIDParam reads a positive numeric path parameter; anything else is a 404
// since no such resource can exist.
func parseIDParam(c *gin.Context, name string, notFoundCode string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.NotFound(c, notFoundCode, "Not found.")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps service errors onto the HTTP taxonomy. context names
// the failed action for the generic message, e.g. "add item to cart".
func respondServiceError(c *gin.Context, err error, context string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apperrors.RespondWithValidationError(c, verr.Fields)
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.Unprocessable(c, apperrors.AuthInvalidCredentials, "Invalid credentials")
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.Unauthorized(c, "")
	case errors.Is(err, service.ErrEmptyCart):
		apperrors.Unprocessable(c, apperrors.CartEmpty, "Cart is empty")
	case errors.Is(err, service.ErrCartItemForbidden), errors.Is(err, service.ErrOrderForbidden):
		apperrors.Forbidden(c, "Unauthorized")
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found.")
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found.")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found.")
	case errors.Is(err, service.ErrCurrentPasswordIncorrect):
		apperrors.Unprocessable(c, apperrors.AuthPasswordIncorrect, "Current password is incorrect")
	case errors.Is(err, service.ErrPasswordMismatch):
		apperrors.Unprocessable(c, apperrors.AuthPasswordMismatch, "New passwords do not match")
	case errors.Is(err, service.ErrPasswordReused):
		apperrors.Unprocessable(c, apperrors.AuthPasswordReused, "New password must be different from current password")
	case errors.Is(err, service.ErrAvatarTooLarge):
		apperrors.RespondWithValidationError(c, map[string]string{"avatar": "The avatar may not be greater than 2048 kilobytes."})
	case errors.Is(err, service.ErrAvatarNotImage):
		apperrors.RespondWithValidationError(c, map[string]string{"avatar": "The avatar must be an image."})
	default:
		middleware.GetLoggerFromContext(c).Error("Request failed", err, map[string]interface{}{
			"path":   c.Request.URL.Path,
			"action": context,
		})
		apperrors.ParseAndRespond(c, http.StatusUnprocessableEntity, err, context)
	}
}
