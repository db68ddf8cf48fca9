package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookreview-backend/pkg/jwt"
)

const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRoles  = "roles"
)

// AuthMiddleware validates the bearer token and stores identity in context.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, manager)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoles, claims.Roles)
		c.Next()
	}
}

// OptionalAuth resolves identity when a valid token is present but never
// rejects the request. Used by read endpoints that personalise output.
func OptionalAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, manager); ok {
			if userID, err := uuid.Parse(claims.UserID); err == nil {
				c.Set(ContextUserID, userID)
				c.Set(ContextEmail, claims.Email)
				c.Set(ContextRoles, claims.Roles)
			}
		}
		c.Next()
	}
}

// RequireRoles allows the request through when the caller holds any of
// the given roles. Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		held := RolesFromContext(c)
		for _, want := range roles {
			for _, have := range held {
				if want == have {
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		c.Abort()
	}
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// RolesFromContext returns the caller's role set, empty when anonymous.
func RolesFromContext(c *gin.Context) []string {
	v, exists := c.Get(ContextRoles)
	if !exists {
		return nil
	}
	roles, _ := v.([]string)
	return roles
}

func bearerClaims(c *gin.Context, manager *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := manager.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
