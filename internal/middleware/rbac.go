package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
	"github.com/noah-isme/swim-school-site/pkg/response"
)

// RequireRoles enforces role-based access control for routes behind JWT.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := value.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
