package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/storefront/controllers/cart"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	"github.com/junaidrashid-git/storefront/models"
)

// CustomerView registers all "/customer/*" endpoints.
type CustomerView struct{}

func (CustomerView) Role() models.Role { return models.RoleCustomer }
func (CustomerView) Prefix() string    { return "/customer" }

func (CustomerView) Register(g *gin.RouterGroup, d Deps) {
	// ──────────────── Shopping Cart ────────────────
	cartGroup := g.Group("/cart")
	{
		cartGroup.GET("", cartControllers.GetCart())
		cartGroup.POST("", cartControllers.AddCartItem(d.Store, d.Sessions))
		cartGroup.DELETE("", cartControllers.ClearCart(d.Sessions))
		cartGroup.PUT("/:product_id", cartControllers.UpdateCartItem(d.Store, d.Sessions))
		cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(d.Sessions))
		cartGroup.POST("/checkout", orderControllers.CheckoutHandler(d.Store, d.Sessions, d.Hub))
	}

	// ──────────────── Order History ────────────────
	g.GET("/orders", orderControllers.CustomerOrdersHandler(d.Store))
}
