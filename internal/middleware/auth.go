package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/keshan-spec/Discussion-Board-API/internal/auth"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "user_id"
	TokenKey  = "token"
)

// Authenticator validates a raw access token.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (auth.Claims, error)
}

// AuthMiddleware rejects requests without a valid, unrevoked token and stores
// the caller's id under UserIDKey.
func AuthMiddleware(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is missing"})
			return
		}

		claims, err := a.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is invalid"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "authentication failed"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(TokenKey, raw)
		c.Next()
	}
}

// extractToken reads x-access-token first, then an Authorization bearer token.
func extractToken(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader("x-access-token")); t != "" {
		return t
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// UserID returns the authenticated caller's id.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func Token(c *gin.Context) string {
	return c.GetString(TokenKey)
}
