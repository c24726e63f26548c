package auth

import (
	"context"
	"net/http"
	"strings"

	apperrors "instaclone/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

// TokenVerifier resolves a raw bearer token to a user id.
type TokenVerifier interface {
	Authenticate(ctx context.Context, token string) (uint, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// user id under ContextUserID.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided."})
			return
		}

		userID, err := verifier.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			status := apperrors.HTTPStatus(err)
			if status == http.StatusInternalServerError {
				c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id. It is zero outside AuthMiddleware.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}
