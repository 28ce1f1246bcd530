package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/service"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
	"github.com/soulbliss/soulbliss-api/pkg/response"
)

// RequireRole admits the request only when the stored user behind the token holds role.
// It must be mounted after JWT.
func RequireRole(gate *service.RoleGate, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if err := gate.Authorize(c.Request.Context(), claims.Email, role); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSelf rejects requests whose path parameter differs from the token identity.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if c.Param(param) != claims.Email {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "forbidden access"))
			c.Abort()
			return
		}

		c.Next()
	}
}
