package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/internal/app/repository"
	"github.com/foodiehub/foodiehub-backend/internal/storage"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"github.com/foodiehub/foodiehub-backend/pkg/util"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxAvatarBytes caps avatar uploads at 2 MiB.
const MaxAvatarBytes = 2 << 20

var (
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrPasswordMismatch         = errors.New("new passwords do not match")
	ErrPasswordReused           = errors.New("new password must be different from current password")
	ErrAvatarTooLarge           = errors.New("avatar exceeds 2 MiB")
	ErrAvatarNotImage           = errors.New("avatar must be an image")
)

var avatarTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp"}

// ProfileInput carries a partial profile update. A nil field is left alone;
// a blank string clears a nullable column.
type ProfileInput struct {
	Name        *string
	Username    *string
	Email       *string
	HomeAddress *string
	Street      *string
	City        *string
	Region      *string
	Country     *string
}

type ChangePasswordInput struct {
	CurrentPassword         string
	NewPassword             string
	NewPasswordConfirmation string
}

type ProfileService interface {
	UpdateProfile(userID uint, input ProfileInput) (*model.User, error)
	ChangePassword(userID uint, input ChangePasswordInput) error
	UpdateAvatar(ctx context.Context, userID uint, file io.Reader) (*model.User, error)
}

type profileService struct {
	userRepo repository.UserRepository
	files    storage.FileStorage
}

func NewProfileService(userRepo repository.UserRepository, files storage.FileStorage) ProfileService {
	return &profileService{
		userRepo: userRepo,
		files:    files,
	}
}

func (s *profileService) loadUser(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *profileService) UpdateProfile(userID uint, input ProfileInput) (*model.User, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		switch {
		case username == "":
			verr.add("username", "The username field may not be blank.")
		case len(username) > 255:
			verr.add("username", "The username may not be greater than 255 characters.")
		default:
			taken, err := s.userRepo.UsernameTaken(username, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				verr.add("username", "The username has already been taken.")
			}
			user.Username = username
		}
	}

	if input.Email != nil {
		email := normalizeOptional(input.Email)
		checkEmail(verr, email)
		if email != nil {
			taken, err := s.userRepo.EmailTaken(*email, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				verr.add("email", "The email has already been taken.")
			}
		}
		user.Email = email
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len(name) > 255 {
			verr.add("name", "The name may not be greater than 255 characters.")
		}
		user.Name = name
	}

	optional := []struct {
		field  string
		value  *string
		target **string
	}{
		{"home_address", input.HomeAddress, &user.HomeAddress},
		{"street", input.Street, &user.Street},
		{"city", input.City, &user.City},
		{"region", input.Region, &user.Region},
		{"country", input.Country, &user.Country},
	}
	for _, f := range optional {
		if f.value == nil {
			continue
		}
		normalized := normalizeOptional(f.value)
		if normalized != nil && len(*normalized) > 255 {
			verr.add(f.field, "The "+strings.ReplaceAll(f.field, "_", " ")+" may not be greater than 255 characters.")
			continue
		}
		*f.target = normalized
	}

	if !verr.empty() {
		logger.Warn("Profile update rejected", map[string]interface{}{
			"user_id": userID,
			"error":   verr.Error(),
		})
		return nil, verr
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

// ChangePassword checks the current password first, then the confirmation,
// then that the password actually changes.
func (s *profileService) ChangePassword(userID uint, input ChangePasswordInput) error {
	user, err := s.loadUser(userID)
	if err != nil {
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, input.CurrentPassword) {
		logger.Warn("Password change rejected: wrong current password", map[string]interface{}{
			"user_id": userID,
		})
		return ErrCurrentPasswordIncorrect
	}

	verr := &ValidationError{}
	checkPasswordLength(verr, "new_password", input.NewPassword)
	if !verr.empty() {
		return verr
	}

	if input.NewPassword != input.NewPasswordConfirmation {
		return ErrPasswordMismatch
	}
	if util.VerifyPassword(user.PasswordHash, input.NewPassword) {
		return ErrPasswordReused
	}

	hash, err := util.HashPassword(input.NewPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	if err := s.userRepo.UpdatePasswordHash(userID, hash); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// UpdateAvatar stores a new avatar, points the profile at it and then removes
// the previous file if this application stored it.
func (s *profileService) UpdateAvatar(ctx context.Context, userID uint, file io.Reader) (*model.User, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxAvatarBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), avatarTypes...) {
		logger.Warn("Avatar rejected: unsupported type", map[string]interface{}{
			"user_id":   userID,
			"mime_type": mtype.String(),
		})
		return nil, ErrAvatarNotImage
	}

	key := "avatars/" + uuid.NewString() + mtype.Extension()
	url, err := s.files.Put(ctx, key, mtype.String(), bytes.NewReader(data))
	if err != nil {
		logger.Error("Failed to store avatar", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	previous := user.AvatarURL
	user.AvatarURL = &url
	if err := s.userRepo.Update(user); err != nil {
		s.deleteQuietly(ctx, url)
		return nil, err
	}

	if previous != nil && s.files.Owns(*previous) {
		s.deleteQuietly(ctx, *previous)
	}

	logger.Info("Avatar updated", map[string]interface{}{
		"user_id":    userID,
		"avatar_url": url,
	})
	return user, nil
}

func (s *profileService) deleteQuietly(ctx context.Context, url string) {
	if err := s.files.Delete(ctx, url); err != nil {
		logger.Warn("Failed to delete stored file", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
}
