package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(d.Store))
		authGroup.POST("/login", auth.LoginHandler(d.Store, d.Sessions, d.Secret))
		authGroup.POST("/logout", middleware.ValidateToken(d.Secret, d.Sessions), auth.LogoutHandler(d.Sessions))
	}
}
