package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aryarobyy/to-do-list-be/internal/auth"
)

// A private key for context access
type contextKey string

const userContextKey = contextKey("user")

// AuthMiddleware creates a middleware that verifies bearer tokens
// against the auth provider and stores the resolved uid in the request
// context.
func AuthMiddleware(provider auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")

		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
		uid, err := provider.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid auth token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userContextKey, uid)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ForContext finds the authenticated uid from the context.
func ForContext(ctx context.Context) string {
	uid, _ := ctx.Value(userContextKey).(string)
	return uid
}
