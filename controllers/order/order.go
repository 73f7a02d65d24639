package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/session"
	"github.com/junaidrashid-git/storefront/store"
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// InsufficientStockError reports the line whose guarded stock update
// changed no row. It unwraps to models.ErrInsufficientStock.
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (product %d): %d requested", e.Name, e.ProductID, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return models.ErrInsufficientStock }

// -------- Core Logic --------

// PlaceOrder turns a cart into an order in one transaction: the order row,
// one line per cart entry and a guarded stock decrement per line. Lines are
// written in ascending product id so concurrent checkouts lock rows in the
// same order. On any error nothing is persisted and the cart is left for
// the caller to keep.
func PlaceOrder(ctx context.Context, st store.OrderStore, userID uint, cart models.Cart) (*models.Order, error) {
	if len(cart) == 0 {
		return nil, models.ErrEmptyCart
	}
	lines := cart.Lines()
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity %d for product %d", models.ErrInvalidCart, line.Quantity, line.ProductID)
		}
		if line.Price.IsNegative() {
			return nil, fmt.Errorf("%w: negative price for product %d", models.ErrInvalidCart, line.ProductID)
		}
	}

	order := &models.Order{
		UserID:      userID,
		OrderDate:   time.Now().UTC(),
		TotalAmount: cart.Total(),
		Status:      models.OrderStatusProcessing,
	}

	err := st.WithinTx(ctx, func(tx store.OrderTx) error {
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		order.Lines = order.Lines[:0]
		for _, line := range lines {
			detail := models.OrderDetail{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				Price:     line.Price,
			}
			if err := tx.InsertOrderLine(ctx, detail); err != nil {
				return err
			}
			n, err := tx.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if n != 1 {
				return &InsufficientStockError{ProductID: line.ProductID, Name: line.Name, Requested: line.Quantity}
			}
			order.Lines = append(order.Lines, detail)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns orders with their lines, newest first. Administrators
// see every order (optionally just orderID); customers only their own.
func ListOrders(ctx context.Context, st store.OrderStore, who models.Identity, orderID uint) ([]models.Order, error) {
	switch who.Role {
	case models.RoleAdmin:
		return st.ListOrders(ctx, store.OrderFilter{OrderID: orderID})
	case models.RoleCustomer:
		return st.ListOrders(ctx, store.OrderFilter{UserID: who.UserID, OrderID: orderID})
	default:
		return nil, fmt.Errorf("%w: unknown role", models.ErrForbidden)
	}
}

// UpdateOrderStatus moves an order to status. Only processing orders can
// change; delivered and cancelled are final. The write only succeeds if the
// order still has the status that was checked, so of two concurrent
// updates from processing exactly one wins.
func UpdateOrderStatus(ctx context.Context, st store.OrderStore, who models.Identity, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if err := who.Require(models.RoleAdmin); err != nil {
		return nil, err
	}
	order, err := st.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if !order.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: order %d is %s", models.ErrInvalidTransition, orderID, order.Status)
	}
	err = st.UpdateOrderStatus(ctx, orderID, order.Status, status)
	if errors.Is(err, store.ErrStale) {
		return nil, fmt.Errorf("%w: order %d was changed by someone else", models.ErrInvalidTransition, orderID)
	}
	if err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// Checkout places an order from the session's cart. The cart is taken out
// of the session for the duration: on success the ordered lines are gone,
// on failure they are put back. Lines added while the order is being placed
// stay in the cart either way.
func Checkout(ctx context.Context, st store.OrderStore, sessions *session.Store, sess *session.Session) (*models.Order, error) {
	cart, err := sessions.TakeCart(sess.ID)
	if err != nil {
		return nil, err
	}
	order, err := PlaceOrder(ctx, st, sess.Identity.UserID, cart)
	if err != nil {
		sessions.RestoreCart(sess.ID, cart)
		return nil, err
	}
	return order, nil
}

// -------- Handlers --------

// POST /customer/cart/checkout
func CheckoutHandler(st store.OrderStore, sessions *session.Store, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		order, err := Checkout(c.Request.Context(), st, sessions, sess)
		if err != nil {
			controllers.RespondError(c, err, "Failed to place order")
			return
		}
		log.Printf("🛒 Order %d placed by %s for %s", order.ID, sess.Identity.Username, order.TotalAmount.StringFixed(2))
		hub.Broadcast(Event{Type: EventOrderPlaced, Order: *order})
		c.JSON(http.StatusCreated, gin.H{"order": order})
	}
}

// GET /customer/orders
func CustomerOrdersHandler(st store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		orders, err := ListOrders(c.Request.Context(), st, sess.Identity, 0)
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders?order_id=
func AdminOrdersHandler(st store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		var orderID uint
		if raw := c.Query("order_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "order_id must be a positive number"})
				return
			}
			orderID = uint(id)
		}
		orders, err := ListOrders(c.Request.Context(), st, sess.Identity, orderID)
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:id/status
func UpdateOrderStatusHandler(st store.OrderStore, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			controllers.RespondError(c, err, "Invalid status")
			return
		}
		order, err := UpdateOrderStatus(c.Request.Context(), st, sess.Identity, uint(id), status)
		if err != nil {
			controllers.RespondError(c, err, "Failed to update order status")
			return
		}
		hub.Broadcast(Event{Type: EventStatusChanged, Order: *order})
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
	}
}
