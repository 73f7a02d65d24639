package productcontroller

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    uint            `json:"category_id" binding:"required"`
}

func validateProduct(name string, price decimal.Decimal, stock int) error {
	if strings.TrimSpace(name) == "" {
		return models.Invalid("product name is required")
	}
	if price.IsNegative() {
		return models.Invalid("price must not be negative")
	}
	if stock < 0 {
		return models.Invalid("stock quantity must not be negative")
	}
	return nil
}

// requireCategory turns a missing category into a validation error rather
// than a 404 for the product route.
func requireCategory(ctx context.Context, catalog store.CatalogStore, id uint) error {
	_, err := catalog.GetCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Invalid("category %d does not exist", id)
	}
	return err
}

// CreateProduct adds a product to the catalog.
func CreateProduct(ctx context.Context, catalog store.CatalogStore, who models.Identity, in ProductInput) (*models.Product, error) {
	if err := who.Require(models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateProduct(in.Name, in.Price, in.StockQuantity); err != nil {
		return nil, err
	}
	if err := requireCategory(ctx, catalog, in.CategoryID); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price.Round(2),
		StockQuantity: in.StockQuantity,
		CategoryID:    in.CategoryID,
	}
	if err := catalog.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// POST /admin/products
func CreateProductHandler(catalog store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product, err := CreateProduct(c.Request.Context(), catalog, sess.Identity, input)
		if err != nil {
			controllers.RespondError(c, err, "Failed to create product")
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
