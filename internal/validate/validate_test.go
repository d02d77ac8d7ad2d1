package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func TestCheck(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		assert.NoError(t, Check(signup{Username: "alice", Password: "password123"}))
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := Check(signup{Email: "not-an-email", Password: "short"})
		require.Error(t, err)

		var fields FieldErrors
		require.True(t, errors.As(err, &fields))
		assert.Equal(t, "username is a required field", fields["username"])
		assert.Equal(t, "email must be a valid email address", fields["email"])
		assert.Equal(t, "password must be at least 8 characters in length", fields["password"])
	})
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("email", "alice@example.com", "email"))

	err := Var("email", "nope", "email")
	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, "email must be a valid email address", fields["email"])
}
