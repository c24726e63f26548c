package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaffChecker reports whether a user has staff access.
type StaffChecker interface {
	IsStaff(ctx context.Context, userID uint) (bool, error)
}

// AdminMiddleware creates a gin middleware to check for staff access.
// It must be used AFTER the standard AuthMiddleware.
func AdminMiddleware(checker StaffChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == 0 {
			// This should not happen if AuthMiddleware is used before it
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		staff, err := checker.IsStaff(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Authenticated user not found"})
			return
		}

		if !staff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
			return
		}

		c.Next()
	}
}
