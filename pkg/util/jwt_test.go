package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateAccessToken(t *testing.T) {
	tests := []struct {
		name     string
		userID   uint
		username string
	}{
		{name: "Regular user", userID: 1, username: "alice"},
		{name: "Large ID", userID: 4294967295, username: "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateAccessToken(tt.userID, tt.username, testSecret, 15*time.Minute)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.username, claims.Username)
		})
	}
}

func TestValidateToken(t *testing.T) {
	valid, err := GenerateAccessToken(1, "alice", testSecret, 15*time.Minute)
	require.NoError(t, err)

	expired, err := GenerateAccessToken(1, "alice", testSecret, -time.Minute)
	require.NoError(t, err)

	noneAlg := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	unsigned, err := noneAlg.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid token", token: valid, secret: testSecret},
		{name: "Wrong secret", token: valid, secret: "other-secret", wantErr: ErrInvalidToken},
		{name: "Expired token", token: expired, secret: testSecret, wantErr: ErrExpiredToken},
		{name: "Garbage", token: "not.a.token", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Unsigned token", token: unsigned, secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(1), claims.UserID)
		})
	}
}
