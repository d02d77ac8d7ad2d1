package service

import (
	"strings"
	"testing"
	"time"

	"github.com/foodiehub/foodiehub-backend/internal/app/repository"
	"github.com/foodiehub/foodiehub-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB := setupServiceDB(t)
	return NewAuthService(repository.NewUserRepository(testDB), testJWTSecret, time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		authService := setupAuthServiceTest(t)

		user, err := authService.Register(RegisterInput{
			Username: "  alice ",
			Email:    strPtr("alice@example.com"),
			Password: "password123",
		})
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice", user.Name)
		require.NotNil(t, user.Email)
		assert.Equal(t, "alice@example.com", *user.Email)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.True(t, util.VerifyPassword(user.PasswordHash, "password123"))
	})

	t.Run("Email is optional", func(t *testing.T) {
		authService := setupAuthServiceTest(t)

		first, err := authService.Register(RegisterInput{Username: "alice", Email: strPtr(" "), Password: "password123"})
		require.NoError(t, err)
		assert.Nil(t, first.Email)

		second, err := authService.Register(RegisterInput{Username: "bob", Password: "password123"})
		require.NoError(t, err)
		assert.Nil(t, second.Email)
	})

	t.Run("Duplicate username and email", func(t *testing.T) {
		authService := setupAuthServiceTest(t)

		_, err := authService.Register(RegisterInput{Username: "alice", Email: strPtr("a@example.com"), Password: "password123"})
		require.NoError(t, err)

		_, err = authService.Register(RegisterInput{Username: "alice", Email: strPtr("a@example.com"), Password: "password123"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "The username has already been taken.", verr.Fields["username"])
		assert.Equal(t, "The email has already been taken.", verr.Fields["email"])
	})

	t.Run("Invalid input", func(t *testing.T) {
		authService := setupAuthServiceTest(t)

		_, err := authService.Register(RegisterInput{Username: "", Email: strPtr("not-an-email"), Password: "short"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
		assert.Contains(t, verr.Fields, "email")
		assert.Contains(t, verr.Fields, "password")
	})

	t.Run("Password too long", func(t *testing.T) {
		authService := setupAuthServiceTest(t)

		_, err := authService.Register(RegisterInput{Username: "alice", Password: strings.Repeat("a", 129)})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "password")
	})
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)

	registered, err := authService.Register(RegisterInput{
		Username: "alice",
		Email:    strPtr("alice@example.com"),
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("By username", func(t *testing.T) {
		user, token, err := authService.Login("alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)

		claims, err := util.ValidateToken(token, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.UserID)
	})

	t.Run("By email", func(t *testing.T) {
		user, _, err := authService.Login("alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := authService.Login("alice", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, _, err := authService.Login("nobody", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Blank identifier", func(t *testing.T) {
		_, _, err := authService.Login("", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService := setupAuthServiceTest(t)

	registered, err := authService.Register(RegisterInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	user, err := authService.GetUserByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = authService.GetUserByID(registered.ID + 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
