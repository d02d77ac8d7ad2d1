package service

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/internal/app/repository"
	"github.com/foodiehub/foodiehub-backend/internal/validate"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"github.com/foodiehub/foodiehub-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type RegisterInput struct {
	Username string
	Email    *string
	Password string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	// Login accepts a username or an email as identifier and returns the user
	// with a signed bearer token.
	Login(identifier, password string) (*model.User, string, error)
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	jwtSecret    string
	accessExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
	}
}

// normalizeOptional trims s and maps blank to nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func checkPasswordLength(verr *ValidationError, field, password string) {
	switch n := utf8.RuneCountInString(password); {
	case n < util.PasswordMinLength:
		verr.add(field, "The "+strings.ReplaceAll(field, "_", " ")+" must be at least 8 characters.")
	case n > util.PasswordMaxLength:
		verr.add(field, "The "+strings.ReplaceAll(field, "_", " ")+" may not be greater than 128 characters.")
	}
}

func checkEmail(verr *ValidationError, email *string) {
	if email == nil {
		return
	}
	if len(*email) > 255 {
		verr.add("email", "The email may not be greater than 255 characters.")
		return
	}
	if err := validate.Var("email", *email, "email"); err != nil {
		verr.add("email", "The email must be a valid email address.")
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeOptional(input.Email)

	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
	})

	verr := &ValidationError{}
	if username == "" {
		verr.add("username", "The username field is required.")
	} else if len(username) > 255 {
		verr.add("username", "The username may not be greater than 255 characters.")
	}
	checkEmail(verr, email)
	checkPasswordLength(verr, "password", input.Password)

	if username != "" {
		taken, err := s.userRepo.UsernameTaken(username, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.add("username", "The username has already been taken.")
		}
	}
	if email != nil {
		taken, err := s.userRepo.EmailTaken(*email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.add("email", "The email has already been taken.")
		}
	}
	if !verr.empty() {
		logger.Warn("Registration rejected", map[string]interface{}{
			"username": username,
			"error":    verr.Error(),
		})
		return nil, verr
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         username,
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *authService) Login(identifier, password string) (*model.User, string, error) {
	identifier = strings.TrimSpace(identifier)
	logger.Info("Attempting user login", map[string]interface{}{
		"identifier": identifier,
	})

	if identifier == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByLogin(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"identifier": identifier,
			})
			return nil, "", ErrInvalidCredentials
		}
		logger.Error("Failed to find user during login", err, map[string]interface{}{
			"identifier": identifier,
		})
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateAccessToken(user.ID, user.Username, s.jwtSecret, s.accessExpiry)
	if err != nil {
		logger.Error("Failed to generate access token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, token, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}
