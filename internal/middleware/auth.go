package middleware

import (
	"strconv"
	"strings"

	"delego_backend/internal/auth"
	"delego_backend/internal/logger"
	"delego_backend/internal/models"
	"delego_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the access token and stores userID and role in the
// gin context. The token is taken from the Authorization header, falling back
// to the access_token cookie the login endpoint sets.
func AuthMiddleware(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			c.Abort()
			return
		}

		claims, err := tm.Parse(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), strconv.FormatUint(uint64(claims.UserID), 10))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

// RequireRoles rejects requests whose authenticated role is not in the set.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			c.Abort()
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: invalid role type"))
			c.Abort()
			return
		}

		if !roleSet[models.UserRole(roleStr)] {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: insufficient permissions"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from the gin context.
// Returns 0 when the request is unauthenticated.
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get("userID")
	if !exists {
		return 0
	}

	id, ok := userID.(uint)
	if !ok {
		return 0
	}

	return id
}
