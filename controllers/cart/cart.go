package cartControllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/session"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/shopspring/decimal"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type QuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartView is the cart as the customer sees it.
type CartView struct {
	Lines []models.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

func viewOf(cart models.Cart) CartView {
	return CartView{Lines: cart.Lines(), Total: cart.Total()}
}

func notInCart(productID uint) error {
	return fmt.Errorf("%w: product %d is not in the cart", store.ErrNotFound, productID)
}

func checkStock(p *models.Product, qty int) error {
	if qty > p.StockQuantity {
		return fmt.Errorf("%w: only %d of %q left", models.ErrInsufficientStock, p.StockQuantity, p.Name)
	}
	return nil
}

// -------- Core Logic --------

// AddToCart puts qty units of a product in the session's cart. Name and
// price are taken from the catalog now; the merged quantity may not exceed
// the stock on hand.
func AddToCart(ctx context.Context, catalog store.CatalogStore, sessions *session.Store, sessionID string, productID uint, qty int) (models.Cart, error) {
	if qty < 1 {
		return nil, models.Invalid("quantity must be at least 1")
	}
	product, err := catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return sessions.UpdateCart(sessionID, func(cart models.Cart) error {
		if err := checkStock(product, cart[productID].Quantity+qty); err != nil {
			return err
		}
		cart.Add(product.ID, product.Name, product.Price, qty)
		return nil
	})
}

// SetQuantity replaces the quantity of a line already in the cart.
func SetQuantity(ctx context.Context, catalog store.CatalogStore, sessions *session.Store, sessionID string, productID uint, qty int) (models.Cart, error) {
	if qty < 1 {
		return nil, models.Invalid("quantity must be at least 1")
	}
	product, err := catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return sessions.UpdateCart(sessionID, func(cart models.Cart) error {
		line, ok := cart[productID]
		if !ok {
			return notInCart(productID)
		}
		if err := checkStock(product, qty); err != nil {
			return err
		}
		line.Quantity = qty
		cart[productID] = line
		return nil
	})
}

func RemoveFromCart(sessions *session.Store, sessionID string, productID uint) (models.Cart, error) {
	return sessions.UpdateCart(sessionID, func(cart models.Cart) error {
		if _, ok := cart[productID]; !ok {
			return notInCart(productID)
		}
		delete(cart, productID)
		return nil
	})
}

// -------- Handlers --------

func productParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return uint(id), true
}

// GET /customer/cart
func GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, viewOf(sess.Cart))
	}
}

// POST /customer/cart
func AddCartItem(catalog store.CatalogStore, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, err := AddToCart(c.Request.Context(), catalog, sessions, sess.ID, input.ProductID, input.Quantity)
		if err != nil {
			controllers.RespondError(c, err, "Failed to add item to cart")
			return
		}
		c.JSON(http.StatusOK, viewOf(cart))
	}
}

// PUT /customer/cart/:product_id
func UpdateCartItem(catalog store.CatalogStore, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		productID, ok := productParam(c)
		if !ok {
			return
		}
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, err := SetQuantity(c.Request.Context(), catalog, sessions, sess.ID, productID, input.Quantity)
		if err != nil {
			controllers.RespondError(c, err, "Failed to update cart item")
			return
		}
		c.JSON(http.StatusOK, viewOf(cart))
	}
}

// DELETE /customer/cart/:product_id
func DeleteCartItem(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		productID, ok := productParam(c)
		if !ok {
			return
		}
		cart, err := RemoveFromCart(sessions, sess.ID, productID)
		if err != nil {
			controllers.RespondError(c, err, "Failed to delete item")
			return
		}
		c.JSON(http.StatusOK, viewOf(cart))
	}
}

// DELETE /customer/cart
func ClearCart(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		sessions.ClearCart(sess.ID)
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
