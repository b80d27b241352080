// Package middleware provides the bearer-token authentication guard.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/lead-tracker/internal/auth"
	"github.com/jonesrussell/lead-tracker/internal/logger"
	"github.com/jonesrussell/lead-tracker/internal/models"
)

// identityKey is the gin context key holding the authenticated identity.
const identityKey = "identity"

// UserGetter resolves a token subject to a stored user.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Auth returns the authentication guard. It extracts the bearer token,
// verifies signature and expiry, resolves the subject to a user, rejects
// deactivated accounts, and attaches the identity to the request context.
// All rejections are terminal 401 responses.
func Auth(tokens *auth.TokenManager, users UserGetter, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "No token provided. Access denied.")
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			abortUnauthorized(c, "Token is not valid.")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "Token is not valid.")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			log.Debug("Token subject not resolvable",
				logger.String("user_id", claims.UserID),
				logger.Error(err),
			)
			abortUnauthorized(c, "Token is invalid. User not found.")
			return
		}

		if !user.IsActive {
			abortUnauthorized(c, "Account is deactivated.")
			return
		}

		SetIdentity(c, user.Identity())
		c.Next()
	}
}

// SetIdentity attaches an authenticated identity to the gin context.
func SetIdentity(c *gin.Context, identity models.Identity) {
	c.Set(identityKey, identity)
}

// GetIdentity extracts the authenticated identity from the gin context.
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := val.(models.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   message,
	})
}
