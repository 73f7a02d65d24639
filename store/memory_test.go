package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMemory(t *testing.T) (*MemoryStore, *models.User, *models.Product) {
	t.Helper()
	ctx := context.Background()
	s := NewMemoryStore().WithHashCost(bcrypt.MinCost)

	user, err := s.CreateUser(ctx, "anna", "anna@example.com", "pw", models.RoleCustomer)
	require.NoError(t, err)
	cat, err := s.CreateCategory(ctx, "Kitchen")
	require.NoError(t, err)
	p := &models.Product{Name: "Kettle", Price: decimal.RequireFromString("100.00"), StockQuantity: 5, CategoryID: cat.ID}
	require.NoError(t, s.CreateProduct(ctx, p))
	return s, user, p
}

func TestMemoryUsers(t *testing.T) {
	s, user, _ := newMemory(t)
	ctx := context.Background()

	got, err := s.Authenticate(ctx, "anna", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEqual(t, "pw", got.PasswordHash)

	_, err = s.Authenticate(ctx, "anna", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateUser(ctx, "anna", "other@example.com", "pw", models.RoleCustomer)
	assert.ErrorIs(t, err, ErrDuplicate)

	updated, err := s.UpdateProfile(ctx, user.ID, "anna.k", "k@example.com")
	require.NoError(t, err)
	assert.Equal(t, "anna.k", updated.Username)
}

func TestMemoryProductConstraints(t *testing.T) {
	s, _, p := newMemory(t)
	ctx := context.Background()

	err := s.CreateProduct(ctx, &models.Product{Name: "Bad", Price: decimal.NewFromInt(-1), CategoryID: p.CategoryID})
	assert.ErrorIs(t, err, ErrConstraint)

	err = s.CreateProduct(ctx, &models.Product{Name: "Orphan", Price: decimal.NewFromInt(1), CategoryID: 99})
	assert.ErrorIs(t, err, ErrConstraint)

	neg := -1
	_, err = s.UpdateProduct(ctx, p.ID, ProductChanges{StockQuantity: &neg})
	assert.ErrorIs(t, err, ErrConstraint)

	_, err = s.UpdateProduct(ctx, 404, ProductChanges{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateCategory(ctx, "Kitchen")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemorySearchProducts(t *testing.T) {
	s, _, p := newMemory(t)
	ctx := context.Background()
	require.NoError(t, s.CreateProduct(ctx, &models.Product{Name: "Electric kettle", Price: decimal.NewFromInt(80), CategoryID: p.CategoryID}))

	res, err := s.SearchProducts(ctx, ProductFilter{Query: "KETTLE"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Electric kettle", res[0].Name)

	res, err = s.SearchProducts(ctx, ProductFilter{CategoryID: 99})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestMemoryWithinTxRollsBack(t *testing.T) {
	s, user, p := newMemory(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx OrderTx) error {
		o := &models.Order{UserID: user.ID, OrderDate: time.Now(), TotalAmount: decimal.NewFromInt(100), Status: models.OrderStatusProcessing}
		require.NoError(t, tx.InsertOrder(ctx, o))
		require.NoError(t, tx.InsertOrderLine(ctx, models.OrderDetail{OrderID: o.ID, ProductID: p.ID, Quantity: 1, Price: p.Price}))
		n, err := tx.DecrementStock(ctx, p.ID, 1)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)

	orders, err := s.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestMemoryDecrementStockGuard(t *testing.T) {
	s, _, p := newMemory(t)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(tx OrderTx) error {
		n, err := tx.DecrementStock(ctx, p.ID, 6)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
		n, err = tx.DecrementStock(ctx, p.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return nil
	})
	require.NoError(t, err)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)
}

func TestMemoryOrderLinesUnique(t *testing.T) {
	s, user, p := newMemory(t)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(tx OrderTx) error {
		o := &models.Order{UserID: user.ID, OrderDate: time.Now(), Status: models.OrderStatusProcessing}
		require.NoError(t, tx.InsertOrder(ctx, o))
		require.NoError(t, tx.InsertOrderLine(ctx, models.OrderDetail{OrderID: o.ID, ProductID: p.ID, Quantity: 1}))
		return tx.InsertOrderLine(ctx, models.OrderDetail{OrderID: o.ID, ProductID: p.ID, Quantity: 1})
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryDeleteReferencedProduct(t *testing.T) {
	s, user, p := newMemory(t)
	ctx := context.Background()

	require.NoError(t, s.WithinTx(ctx, func(tx OrderTx) error {
		o := &models.Order{UserID: user.ID, OrderDate: time.Now(), Status: models.OrderStatusProcessing}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		return tx.InsertOrderLine(ctx, models.OrderDetail{OrderID: o.ID, ProductID: p.ID, Quantity: 1, Price: p.Price})
	}))

	assert.ErrorIs(t, s.DeleteProduct(ctx, p.ID), ErrConstraint)
	assert.ErrorIs(t, s.DeleteProduct(ctx, 404), ErrNotFound)
}

func TestMemoryBulkAddAllOrNothing(t *testing.T) {
	s, _, p := newMemory(t)
	ctx := context.Background()

	err := s.BulkAddProducts(ctx, []models.ProductRecord{
		{Name: "Pan", Price: decimal.NewFromInt(20), StockQuantity: 3, CategoryID: p.CategoryID},
		{Name: "Pot", Price: decimal.NewFromInt(25), StockQuantity: 1, CategoryID: 77},
	})
	assert.ErrorIs(t, err, ErrConstraint)
	all, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.BulkAddProducts(ctx, []models.ProductRecord{
		{Name: "Pan", Price: decimal.NewFromInt(20), StockQuantity: 3, CategoryID: p.CategoryID},
		{Name: "Pot", Price: decimal.NewFromInt(25), StockQuantity: 1, CategoryID: p.CategoryID},
	}))
	all, err = s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryOrdersSummaryRange(t *testing.T) {
	s, user, p := newMemory(t)
	ctx := context.Background()

	place := func(day time.Time, total int64) {
		require.NoError(t, s.WithinTx(ctx, func(tx OrderTx) error {
			o := &models.Order{UserID: user.ID, OrderDate: day, TotalAmount: decimal.NewFromInt(total), Status: models.OrderStatusProcessing}
			if err := tx.InsertOrder(ctx, o); err != nil {
				return err
			}
			return tx.InsertOrderLine(ctx, models.OrderDetail{OrderID: o.ID, ProductID: p.ID, Quantity: 1, Price: decimal.NewFromInt(total)})
		}))
	}
	place(time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), 10)
	place(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 20)
	place(time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC), 40)

	rows, err := s.OrdersSummary(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].TotalOrders)
	assert.True(t, rows[0].TotalAmount.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "anna", rows[0].Username)
}

func TestMemoryUpdateOrderStatusMissing(t *testing.T) {
	s, _, _ := newMemory(t)
	err := s.UpdateOrderStatus(context.Background(), 1, models.OrderStatusProcessing, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateOrderStatusComparesCurrent(t *testing.T) {
	s, user, _ := newMemory(t)
	ctx := context.Background()
	o := &models.Order{UserID: user.ID, OrderDate: time.Now(), TotalAmount: decimal.NewFromInt(1), Status: models.OrderStatusProcessing}
	require.NoError(t, s.WithinTx(ctx, func(tx OrderTx) error { return tx.InsertOrder(ctx, o) }))

	require.NoError(t, s.UpdateOrderStatus(ctx, o.ID, models.OrderStatusProcessing, models.OrderStatusDelivered))

	err := s.UpdateOrderStatus(ctx, o.ID, models.OrderStatusProcessing, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrStale)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)
}

func TestMemoryOrdersSummaryUsesUTCDays(t *testing.T) {
	s, user, _ := newMemory(t)
	ctx := context.Background()

	// 01:00 on Jan 2 at UTC+3 is still Jan 1 in UTC
	local := time.Date(2024, 1, 2, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	o := &models.Order{UserID: user.ID, OrderDate: local, TotalAmount: decimal.NewFromInt(5), Status: models.OrderStatusProcessing}
	require.NoError(t, s.WithinTx(ctx, func(tx OrderTx) error { return tx.InsertOrder(ctx, o) }))

	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows, err := s.OrdersSummary(ctx, jan1, jan1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = s.OrdersSummary(ctx, jan1.AddDate(0, 0, 1), jan1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemoryWithinTxCancelledContext(t *testing.T) {
	s, _, _ := newMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithinTx(ctx, func(OrderTx) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, called)
}
