package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/models"
)

// View is the set of routes one role may reach. The role is checked once,
// on the group, before any of the view's handlers run.
type View interface {
	Role() models.Role
	Prefix() string
	Register(g *gin.RouterGroup, d Deps)
}

func mountView(r *gin.Engine, d Deps, v View) {
	g := r.Group(v.Prefix())
	g.Use(middleware.ValidateToken(d.Secret, d.Sessions), middleware.RequireRole(v.Role()))
	v.Register(g, d)
}
