package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
	"github.com/procure-core/vendor-mdm-api/pkg/response"
)

// AllowSelf is the pseudo role granting vendors access to routes that target
// their own vendor record.
const AllowSelf = "SELF"

// RBAC enforces role-based access control for routes. The role set is closed:
// tokens carrying a role outside KnownRoles are always rejected. The SELF
// pseudo role admits a vendor when the :vendorId route parameter matches the
// SAP vendor number bound to their token.
func RBAC(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if !claims.Role.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "unknown role"))
			c.Abort()
			return
		}

		allowSelf := false
		allowedRoles := make(map[models.UserRole]struct{})

		for _, a := range allowed {
			if a == AllowSelf {
				allowSelf = true
				continue
			}
			allowedRoles[models.UserRole(a)] = struct{}{}
		}

		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}

		if allowSelf && claims.Role == models.RoleVendor && claims.SapVendorID != "" {
			if target := c.Param("vendorId"); target != "" && target == claims.SapVendorID {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}
