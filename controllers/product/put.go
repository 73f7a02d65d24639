package productcontroller

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/shopspring/decimal"
)

// ProductUpdate carries the fields to change; omitted fields stay as they are.
type ProductUpdate struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	CategoryID    *uint            `json:"category_id"`
}

// UpdateProduct applies in to product id.
func UpdateProduct(ctx context.Context, catalog store.CatalogStore, who models.Identity, id uint, in ProductUpdate) (*models.Product, error) {
	if err := who.Require(models.RoleAdmin); err != nil {
		return nil, err
	}
	var ch store.ProductChanges
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.Invalid("product name is required")
		}
		ch.Name = &name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		ch.Description = &desc
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, models.Invalid("price must not be negative")
		}
		price := in.Price.Round(2)
		ch.Price = &price
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, models.Invalid("stock quantity must not be negative")
		}
		ch.StockQuantity = in.StockQuantity
	}
	if in.CategoryID != nil {
		if err := requireCategory(ctx, catalog, *in.CategoryID); err != nil {
			return nil, err
		}
		ch.CategoryID = in.CategoryID
	}
	return catalog.UpdateProduct(ctx, id, ch)
}

// PUT /admin/products/:id
func UpdateProductHandler(catalog store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input ProductUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product, err := UpdateProduct(c.Request.Context(), catalog, sess.Identity, id, input)
		if err != nil {
			controllers.RespondError(c, err, "Failed to update product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
