package productcontroller

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory adds a category; names are trimmed and must be unique.
func CreateCategory(ctx context.Context, catalog store.CatalogStore, who models.Identity, name string) (*models.Category, error) {
	if err := who.Require(models.RoleAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Invalid("category name is required")
	}
	return catalog.CreateCategory(ctx, name)
}

// POST /admin/categories
func CreateCategoryHandler(catalog store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		category, err := CreateCategory(c.Request.Context(), catalog, sess.Identity, input.Name)
		if err != nil {
			controllers.RespondError(c, err, "Failed to create category")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// GET /catalog/categories, /admin/categories
func GetAllCategories(catalog store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}
