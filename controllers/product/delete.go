package productcontroller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// DeleteProduct removes a product that no order line refers to.
func DeleteProduct(ctx context.Context, catalog store.CatalogStore, who models.Identity, id uint) error {
	if err := who.Require(models.RoleAdmin); err != nil {
		return err
	}
	return catalog.DeleteProduct(ctx, id)
}

// DELETE /admin/products/:id
func DeleteProductHandler(catalog store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := DeleteProduct(c.Request.Context(), catalog, sess.Identity, id); err != nil {
			controllers.RespondError(c, err, "Failed to delete product")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
