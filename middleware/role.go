package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
)

// RequireRole lets the request through only for sessions of the given role.
// It must run after ValidateToken.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if sess.Identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": role.String() + " access required"})
			return
		}
		c.Next()
	}
}
