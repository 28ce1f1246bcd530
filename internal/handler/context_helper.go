package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/soulbliss/soulbliss-api/internal/middleware"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
	"github.com/soulbliss/soulbliss-api/pkg/response"
)

// identity returns the verified e-mail of the caller, or "" when the route is unauthenticated.
func identity(c *gin.Context) string {
	claims := middleware.Claims(c)
	if claims == nil {
		return ""
	}
	return claims.Email
}

// bindJSON decodes the body into dest and writes a 400 when it is malformed.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Validation(err, message))
		return false
	}
	return true
}
