package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dex-sniper/internal/models"
	"github.com/dex-sniper/internal/service"
	"github.com/dex-sniper/pkg/response"
)

const (
	// ContextKeyOperatorID is the key for the operator ID in gin context
	ContextKeyOperatorID = "operator_id"
	// ContextKeyOperatorName is the key for the operator username in gin context
	ContextKeyOperatorName = "operator_name"
	// ContextKeyOperatorRole is the key for the operator role in gin context
	ContextKeyOperatorRole = "operator_role"
)

// AuthMiddleware validates the bearer token and stores the operator
// identity and role on the request context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyOperatorID, claims.OperatorID)
		c.Set(ContextKeyOperatorName, claims.Username)
		c.Set(ContextKeyOperatorRole, claims.Role)

		c.Next()
	}
}

// RequireAdmin rejects requests from operators without the admin role.
// It expects AuthMiddleware to have run first.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if OperatorRole(c) != models.RoleAdmin {
			response.Forbidden(c, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OperatorID gets the operator ID from the gin context
func OperatorID(c *gin.Context) uint {
	id, exists := c.Get(ContextKeyOperatorID)
	if !exists {
		return 0
	}
	return id.(uint)
}

// OperatorName gets the operator username from the gin context
func OperatorName(c *gin.Context) string {
	name, exists := c.Get(ContextKeyOperatorName)
	if !exists {
		return ""
	}
	return name.(string)
}

// OperatorRole gets the operator role from the gin context
func OperatorRole(c *gin.Context) models.OperatorRole {
	role, exists := c.Get(ContextKeyOperatorRole)
	if !exists {
		return ""
	}
	return role.(models.OperatorRole)
}
