package routes

import (
	"github.com/gin-gonic/gin"
	productControllers "github.com/junaidrashid-git/storefront/controllers/product"
	userControllers "github.com/junaidrashid-git/storefront/controllers/user"
	"github.com/junaidrashid-git/storefront/middleware"
)

// SetupUserRoutes registers the routes open to every session, whatever its
// role. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	// ──────────────── Browse Catalog ────────────────
	catalog := r.Group("/catalog")
	catalog.Use(middleware.ValidateToken(d.Secret, d.Sessions))
	{
		catalog.GET("/products", productControllers.GetProducts(d.Store))        // GET /catalog/products?search=&category_id=
		catalog.GET("/products/:id", productControllers.GetProductByID(d.Store)) // GET /catalog/products/:id
		catalog.GET("/categories", productControllers.GetAllCategories(d.Store)) // GET /catalog/categories
	}

	// ──────────────── Account ────────────────
	account := r.Group("/account")
	account.Use(middleware.ValidateToken(d.Secret, d.Sessions))
	{
		account.GET("", userControllers.GetUser(d.Store))
		account.PUT("", userControllers.UpdateUser(d.Store, d.Sessions))
	}
}
