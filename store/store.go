// Package store is the persistence layer. GormStore talks to PostgreSQL;
// MemoryStore keeps the same contract in process for tests and demo runs.
package store

import (
	"context"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/shopspring/decimal"
)

type UserStore interface {
	// CreateUser hashes password and inserts an active user.
	CreateUser(ctx context.Context, username, email, password string, role models.Role) (*models.User, error)
	// Authenticate returns the active user whose password matches, or ErrNotFound.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, username, email string) (*models.User, error)
}

// ProductFilter selects products by name substring and category. Zero
// values mean "any".
type ProductFilter struct {
	Query      string
	CategoryID uint
}

// ProductChanges holds the fields an update may touch; nil means unchanged.
type ProductChanges struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	CategoryID    *uint
}

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)

	SearchProducts(ctx context.Context, f ProductFilter) ([]models.Product, error)
	ProductNames(ctx context.Context, categoryID uint) ([]models.ProductName, error)
	ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id uint, ch ProductChanges) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	// BulkAddProducts hands the whole batch to the server-side import routine;
	// either every record is inserted or none.
	BulkAddProducts(ctx context.Context, records []models.ProductRecord) error
}

// OrderTx is the set of statements order placement runs inside one
// transaction.
type OrderTx interface {
	InsertOrder(ctx context.Context, o *models.Order) error
	InsertOrderLine(ctx context.Context, line models.OrderDetail) error
	// DecrementStock subtracts qty only when enough stock is left and
	// returns the number of rows changed (0 or 1).
	DecrementStock(ctx context.Context, productID uint, qty int) (int64, error)
}

// OrderFilter narrows order listings. Zero values mean "any".
type OrderFilter struct {
	UserID  uint
	OrderID uint
}

type OrderStore interface {
	// WithinTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus moves order id from status from to status to. It
	// returns ErrStale when the order is no longer in from.
	UpdateOrderStatus(ctx context.Context, id uint, from, to models.OrderStatus) error
	OrdersSummary(ctx context.Context, from, to time.Time) ([]models.UserOrderSummary, error)
}

type Store interface {
	UserStore
	CatalogStore
	OrderStore
}
