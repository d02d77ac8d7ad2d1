package controller

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/foodiehub/foodiehub-backend/internal/app/service"
	"github.com/foodiehub/foodiehub-backend/internal/middleware"
	"github.com/foodiehub/foodiehub-backend/internal/session"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
	sessions    *scs.SessionManager
}

func NewAuthController(authService service.AuthService, sessions *scs.SessionManager) *AuthController {
	return &AuthController{
		authService: authService,
		sessions:    sessions,
	}
}

type RegisterRequest struct {
	Username string  `json:"username" validate:"required"`
	Email    *string `json:"email"`
	Password string  `json:"password" validate:"required"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Register creates a new account. It does not log the user in.
// POST /register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.authService.Register(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ok":   true,
		"user": user,
	})
}

// Login starts a session for browser clients and also returns a bearer token.
// POST /login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := ctrl.authService.Login(req.Identifier, req.Password)
	if err != nil {
		respondServiceError(c, err, "log in")
		return
	}

	ctx := c.Request.Context()
	if err := ctrl.sessions.RenewToken(ctx); err != nil {
		log.Error("Failed to renew session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		respondServiceError(c, err, "log in")
		return
	}
	ctrl.sessions.Put(ctx, session.UserIDKey, user.ID)

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout ends the session.
// POST /logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.sessions.Destroy(c.Request.Context()); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to destroy session", err, map[string]interface{}{
			"user_id": userID,
		})
		respondServiceError(c, err, "log out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the authenticated user.
// GET /me, GET /profile
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
