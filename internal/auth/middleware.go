package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yschu/twitter/backend/internal/models"
	"github.com/yschu/twitter/backend/internal/util"
)

// Authenticated validates the Bearer token and loads the principal into
// the request context under "user_id" and "user".
func (s *Service) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.RespondUnauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			util.RespondUnauthorized(c)
			c.Abort()
			return
		}

		user, err := s.ValidateToken(tokenString)
		if err != nil {
			util.RespondUnauthorized(c)
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// RequireRole ensures the authenticated principal has the given role.
// Must run after Authenticated.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := util.GetUserFromContext(c)
		if !ok {
			c.Abort()
			return
		}

		if user.Role != role {
			util.RespondUnauthorized(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin ensures the authenticated principal is an admin
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireUser ensures the authenticated principal is a regular user.
// Admins are kept out of the front-facing API surface.
func RequireUser() gin.HandlerFunc {
	return RequireRole(models.RoleUser)
}
