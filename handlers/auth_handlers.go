// api/handlers/auth_handlers.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"visitlens/api/middleware"
	"visitlens/api/models"
	"visitlens/api/store"
	"visitlens/api/utils"
)

// UserFinder looks up dashboard operators.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	RecordLogin(ctx context.Context, userID int, at time.Time) error
}

type AuthHandlers struct {
	users  UserFinder
	secret []byte
	secure bool
	log    *zap.Logger
}

// NewAuthHandlers builds the login handlers. secure marks the session cookie
// as HTTPS only.
func NewAuthHandlers(users UserFinder, secret []byte, secure bool, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{users: users, secret: secret, secure: secure, log: log}
}

// Login checks the credentials and issues a session cookie.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Error("Failed to look up admin user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check credentials"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.Password)); err != nil {
		h.log.Info("Login failed: password mismatch", zap.Int("user_id", user.ID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	now := time.Now()
	tokenString, err := utils.GenerateJWT(user, h.secret, now)
	if err != nil {
		h.log.Error("Failed to generate JWT", zap.Error(err), zap.Int("user_id", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	if err := h.users.RecordLogin(c.Request.Context(), user.ID, now); err != nil {
		h.log.Warn("Failed to record login", zap.Error(err), zap.Int("user_id", user.ID))
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, tokenString, int(utils.TokenTTL/time.Second), "/", "", h.secure, true)

	h.log.Info("Admin logged in", zap.Int("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"user_email": user.Email,
	})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
