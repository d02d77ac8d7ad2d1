package controller

import (
	"errors"
	"net/http"

	"github.com/foodiehub/foodiehub-backend/internal/app/service"
	"github.com/foodiehub/foodiehub-backend/internal/middleware"
	"github.com/gin-gonic/gin"

	apperrors "github.com/foodiehub/foodiehub-backend/internal/errors"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

// UpdateProfileRequest fields are optional; an absent field keeps its value.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	HomeAddress *string `json:"home_address"`
	Street      *string `json:"street"`
	City        *string `json:"city"`
	Region      *string `json:"region"`
	Country     *string `json:"country"`
}

type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required"`
}

// Update applies a partial profile update.
// PUT /profile
func (ctrl *ProfileController) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.profileService.UpdateProfile(userID, service.ProfileInput{
		Name:        req.Name,
		Username:    req.Username,
		Email:       req.Email,
		HomeAddress: req.HomeAddress,
		Street:      req.Street,
		City:        req.City,
		Region:      req.Region,
		Country:     req.Country,
	})
	if err != nil {
		respondServiceError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"user": user,
	})
}

// UpdateAvatar stores the multipart "avatar" file as the user's avatar.
// POST /profile/avatar
func (ctrl *ProfileController) UpdateAvatar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxAvatarBytes+1<<20)
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondServiceError(c, service.ErrAvatarTooLarge, "upload avatar")
			return
		}
		log.Warn("Avatar missing from upload", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{"avatar": "The avatar field is required."})
		return
	}
	if fileHeader.Size > service.MaxAvatarBytes {
		respondServiceError(c, service.ErrAvatarTooLarge, "upload avatar")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondServiceError(c, err, "upload avatar")
		return
	}
	defer file.Close()

	user, err := ctrl.profileService.UpdateAvatar(c.Request.Context(), userID, file)
	if err != nil {
		respondServiceError(c, err, "upload avatar")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"avatar_url": user.AvatarURL,
		"user":       user,
	})
}

// ChangePassword replaces the password after checking the current one.
// PUT /profile/password
func (ctrl *ProfileController) ChangePassword(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := ctrl.profileService.ChangePassword(userID, service.ChangePasswordInput{
		CurrentPassword:         req.CurrentPassword,
		NewPassword:             req.NewPassword,
		NewPasswordConfirmation: req.NewPasswordConfirmation,
	})
	if err != nil {
		respondServiceError(c, err, "change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
