package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/warin-dev/sis-api/internal/models"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
	"github.com/warin-dev/sis-api/pkg/response"
)

// RequireRoles gates a route to the listed roles. Most endpoints rely on the
// per-request Authorizer for row-level decisions; this coarse gate serves the
// few routes, like exports, whose work outlives the request.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.PermissionDenied("insufficient role", c.FullPath()))
			c.Abort()
			return
		}
		c.Next()
	}
}
