package repository

import (
	"errors"

	"github.com/foodiehub/foodiehub-backend/internal/app/model"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByLogin(identifier string) (*model.User, error)
	UsernameTaken(username string, exceptID uint) (bool, error)
	EmailTaken(email string, exceptID uint) (bool, error)
	Update(user *model.User) error
	UpdatePasswordHash(id uint, hash string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"username": user.Username,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": user.Username,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logLookupFailure("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &user, nil
}

// FindByLogin matches the identifier against username first, then email.
func (r *userRepository) FindByLogin(identifier string) (*model.User, error) {
	logger.Debug("Finding user by login identifier in database", map[string]interface{}{
		"identifier": identifier,
	})

	var user model.User
	err := r.db.Where("username = ?", identifier).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.Where("email = ?", identifier).First(&user).Error
	}
	if err != nil {
		logLookupFailure("Failed to find user by login identifier in database", err, map[string]interface{}{
			"identifier": identifier,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UsernameTaken(username string, exceptID uint) (bool, error) {
	return r.exists("username = ?", username, exceptID)
}

func (r *userRepository) EmailTaken(email string, exceptID uint) (bool, error) {
	return r.exists("email = ?", email, exceptID)
}

func (r *userRepository) exists(cond string, value string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.User{}).Where(cond, value)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check user uniqueness in database", err, map[string]interface{}{
			"condition": cond,
		})
		return false, err
	}
	return count > 0, nil
}

// Update writes every profile column, so nil pointers clear nullable fields.
func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) UpdatePasswordHash(id uint, hash string) error {
	err := r.db.Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash).Error
	if err != nil {
		logger.Error("Failed to update password hash in database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	logger.Debug("Password hash updated in database", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

// logLookupFailure keeps "not found" out of the error log.
func logLookupFailure(msg string, err error, fields map[string]interface{}) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}
