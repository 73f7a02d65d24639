package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing" // placed, awaiting delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received the goods
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled by an administrator
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status cannot be changed")
)

// ParseOrderStatus maps user input to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
	case OrderStatusProcessing:
		return OrderStatusProcessing, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Terminal reports whether no further status change is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether an order in status s may move to next.
// Re-applying the current status is allowed and changes nothing.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	return s == OrderStatusProcessing && next.Terminal()
}

type Order struct {
	ID          uint            `gorm:"column:orderid;primaryKey;autoIncrement" json:"id"`
	UserID      uint            `gorm:"column:userid;index;not null" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID;references:ID" json:"-"`
	OrderDate   time.Time       `gorm:"column:orderdate;not null" json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"column:totalamount;type:numeric(12,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"column:orderstatus;type:varchar(20);not null;default:'processing'" json:"status"`
	Lines       []OrderDetail   `gorm:"foreignKey:OrderID;references:ID" json:"lines"`
}

func (Order) TableName() string { return "orders" }

// OrderDetail is one order line. The composite key keeps a product at most
// once per order; Price is the unit price captured at checkout.
type OrderDetail struct {
	OrderID   uint            `gorm:"column:orderid;primaryKey;autoIncrement:false" json:"order_id"`
	ProductID uint            `gorm:"column:productid;primaryKey;autoIncrement:false" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
	Name      string          `gorm:"-" json:"name,omitempty"`
	Quantity  int             `gorm:"column:quantity;not null;check:chk_orderdetails_quantity,quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
}

func (OrderDetail) TableName() string { return "orderdetails" }

// Subtotal is Quantity x Price.
func (d OrderDetail) Subtotal() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// OrderDetailsRow is one row of orderdetailsview: an order line joined with
// its order header and product name.
type OrderDetailsRow struct {
	OrderID     uint            `gorm:"column:orderid"`
	UserID      uint            `gorm:"column:userid"`
	Username    string          `gorm:"column:username"`
	OrderDate   time.Time       `gorm:"column:orderdate"`
	TotalAmount decimal.Decimal `gorm:"column:totalamount"`
	Status      OrderStatus     `gorm:"column:orderstatus"`
	ProductID   uint            `gorm:"column:productid"`
	Name        string          `gorm:"column:name"`
	Quantity    int             `gorm:"column:quantity"`
	Price       decimal.Decimal `gorm:"column:price"`
}

// GroupOrderRows folds view rows into orders, keeping the first-seen order
// of both orders and lines.
func GroupOrderRows(rows []OrderDetailsRow) []Order {
	var orders []Order
	index := make(map[uint]int)
	for _, r := range rows {
		i, ok := index[r.OrderID]
		if !ok {
			orders = append(orders, Order{
				ID:          r.OrderID,
				UserID:      r.UserID,
				OrderDate:   r.OrderDate,
				TotalAmount: r.TotalAmount,
				Status:      r.Status,
			})
			i = len(orders) - 1
			index[r.OrderID] = i
		}
		orders[i].Lines = append(orders[i].Lines, OrderDetail{
			OrderID:   r.OrderID,
			ProductID: r.ProductID,
			Name:      r.Name,
			Quantity:  r.Quantity,
			Price:     r.Price,
		})
	}
	return orders
}

// UserOrderSummary is one row of get_orders_summary_for_all_users.
type UserOrderSummary struct {
	UserID      uint            `gorm:"column:userid" json:"user_id"`
	Username    string          `gorm:"column:username" json:"username"`
	TotalOrders int64           `gorm:"column:total_orders" json:"total_orders"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount" json:"total_amount"`
}

// OrdersReport is the date-ranged summary shown to administrators.
type OrdersReport struct {
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	AllOrders   int64              `json:"all_orders"`
	AllAmount   decimal.Decimal    `json:"all_amount"`
	PerCustomer []UserOrderSummary `json:"per_customer"`
}
