package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/response"
)

// RequireRole returns a middleware that allows only the given roles.
// Role strings from the token are checked against the closed
// enumeration, so an unknown role never passes.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		roleVal, ok := c.Get(ContextUserRole)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		roleStr, _ := roleVal.(string)
		role, err := models.ParseRole(roleStr)
		if err != nil {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only platform administrators.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdministrator)
}
