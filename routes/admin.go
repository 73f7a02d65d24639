package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/storefront/controllers/admin"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	productcontroller "github.com/junaidrashid-git/storefront/controllers/product"
	"github.com/junaidrashid-git/storefront/models"
)

// AdminView registers all "/admin/*" endpoints.
type AdminView struct{}

func (AdminView) Role() models.Role { return models.RoleAdmin }
func (AdminView) Prefix() string    { return "/admin" }

func (AdminView) Register(g *gin.RouterGroup, d Deps) {
	// ─────────── Category Management ───────────
	categoryAdmin := g.Group("/categories")
	{
		categoryAdmin.POST("", productcontroller.CreateCategoryHandler(d.Store))
		categoryAdmin.GET("", productcontroller.GetAllCategories(d.Store))
	}

	// ─────────── Product Management ───────────
	productAdmin := g.Group("/products")
	{
		productAdmin.POST("", productcontroller.CreateProductHandler(d.Store))
		productAdmin.PUT("/:id", productcontroller.UpdateProductHandler(d.Store))
		productAdmin.DELETE("/:id", productcontroller.DeleteProductHandler(d.Store))
		productAdmin.POST("/import", productcontroller.ImportProductsHandler(d.Store))
		productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Store))
		productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Store))
	}

	// ─────────── Orders ───────────
	orderAdmin := g.Group("/orders")
	{
		orderAdmin.GET("", orderControllers.AdminOrdersHandler(d.Store))
		orderAdmin.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(d.Store, d.Hub))
		orderAdmin.GET("/ws", d.Hub.ServeWS)
	}

	// ─────────── Reports ───────────
	g.GET("/reports/orders-summary", adminController.OrdersSummaryHandler(d.Store))
}
