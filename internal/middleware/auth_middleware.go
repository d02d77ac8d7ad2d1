package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/foodiehub/foodiehub-backend/internal/session"
	"github.com/foodiehub/foodiehub-backend/pkg/util"
	"github.com/gin-gonic/gin"

	apperrors "github.com/foodiehub/foodiehub-backend/internal/errors"
)

// UserIDKey is the gin context key of the authenticated user's ID.
const UserIDKey = "user_id"

type AuthMiddleware struct {
	sessions  *scs.SessionManager
	jwtSecret string
}

func NewAuthMiddleware(sessions *scs.SessionManager, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:  sessions,
		jwtSecret: jwtSecret,
	}
}

// Authenticate requires either a session cookie or a bearer token. The
// session is checked first; browser clients never send a token. The handler
// must run behind the session manager's LoadAndSave.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		if userID, ok := m.sessionUserID(c); ok {
			c.Set(UserIDKey, userID)
			log.Debug("User authenticated by session", map[string]interface{}{
				"user_id": userID,
			})
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Unauthenticated request", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "")
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token has expired.")
			} else {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Unauthenticated.")
			}
			return
		}

		c.Set(UserIDKey, claims.UserID)
		log.Debug("User authenticated by token", map[string]interface{}{
			"user_id": claims.UserID,
		})
		c.Next()
	}
}

func (m *AuthMiddleware) sessionUserID(c *gin.Context) (uint, bool) {
	if m.sessions == nil {
		return 0, false
	}
	userID, ok := m.sessions.Get(c.Request.Context(), session.UserIDKey).(uint)
	return userID, ok && userID != 0
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}
