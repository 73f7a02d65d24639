package productcontroller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/search"
	"github.com/junaidrashid-git/storefront/store"
)

// SearchProducts returns the products whose name contains query, followed
// by products whose name is within a few typos of it. An empty query lists
// the whole catalog (or one category).
func SearchProducts(ctx context.Context, catalog store.CatalogStore, query string, categoryID uint) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	products, err := catalog.SearchProducts(ctx, store.ProductFilter{Query: query, CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	if query == "" {
		return products, nil
	}

	names, err := catalog.ProductNames(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]bool, len(products))
	for _, p := range products {
		seen[p.ID] = true
	}
	var ids []uint
	for _, m := range search.Rank(query, names) {
		if !seen[m.ID] {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return products, nil
	}

	extra, err := catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(extra))
	for _, p := range extra {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// GET /catalog/products?search=&category_id=
func GetProducts(catalog store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categoryID uint
		if raw := c.Query("category_id"); raw != "" {
			cid, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			categoryID = uint(cid)
		}

		products, err := SearchProducts(c.Request.Context(), catalog, c.Query("search"), categoryID)
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch products")
			return
		}
		if products == nil {
			products = []models.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}
