package middleware

import (
	"context"
	"net/http"

	"hoodies-be/internal/auth"
	"hoodies-be/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHeader carries the guest cart session id.
const SessionHeader = "X-Session-ID"

// AdminChecker reports admin membership.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireUser aborts with 401 unless the request is authenticated.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.GetUserIDFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the authenticated user is an admin.
// It must run after RequireUser.
func RequireAdmin(admins AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, _ := auth.GetUserIDFromContext(ctx)

		ok, err := admins.IsAdmin(ctx, userID)
		if err != nil {
			logger.FromCtx(ctx).Error("admin lookup failed", zap.String("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
