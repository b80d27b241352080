package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonesrussell/lead-tracker/internal/auth"
	"github.com/jonesrussell/lead-tracker/internal/logger"
	"github.com/jonesrussell/lead-tracker/internal/middleware"
	"github.com/jonesrussell/lead-tracker/internal/models"
	"github.com/jonesrussell/lead-tracker/internal/repository"
)

// defaultRole is assigned to self-registered accounts.
const defaultRole = "user"

// AuthHandler serves account registration and login.
type AuthHandler struct {
	users  UserStore
	tokens *auth.TokenManager
	logger logger.Logger
}

func NewAuthHandler(users UserStore, tokens *auth.TokenManager, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: log,
	}
}

// Register creates a new account and issues a token for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "details": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash password", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register"})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         defaultRole,
		IsActive:     true,
	}

	err = h.users.Create(c.Request.Context(), &user)
	if errors.Is(err, repository.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Username or email already taken"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to create user",
			logger.String("username", req.Username),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register"})
		return
	}

	token, expiresAt, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("Failed to generate token", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register"})
		return
	}

	h.logger.Info("User registered", logger.String("username", user.Username))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully",
		"data": models.LoginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      user.Identity(),
		},
	})
}

// Login authenticates a username/password pair and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "details": err.Error()})
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.logger.Warn("Login failed, user not found", logger.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.logger.Warn("Login failed, invalid password", logger.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Account is deactivated."})
		return
	}

	token, expiresAt, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("Failed to generate token", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": models.LoginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      user.Identity(),
		},
	})
}

// Me returns the authenticated identity.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token provided. Access denied."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": identity})
}
