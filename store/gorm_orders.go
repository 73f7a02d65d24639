package store

import (
	"context"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"gorm.io/gorm"
)

type gormTx struct {
	db *gorm.DB
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx OrderTx) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&gormTx{db: tx})
		return fnErr
	})
	if err != nil && err != fnErr {
		// begin or commit failed
		return wrap(err, "TRANSACTION", "orders")
	}
	return err
}

func (t *gormTx) InsertOrder(ctx context.Context, o *models.Order) error {
	res := t.db.WithContext(ctx).Raw(`
		INSERT INTO orders (userid, orderdate, totalamount, orderstatus)
		VALUES (?, ?, ?, ?) RETURNING orderid`,
		o.UserID, o.OrderDate, o.TotalAmount, string(o.Status)).Scan(&o.ID)
	return wrap(res.Error, "INSERT", "orders")
}

func (t *gormTx) InsertOrderLine(ctx context.Context, line models.OrderDetail) error {
	return wrap(t.db.WithContext(ctx).Exec(`
		INSERT INTO orderdetails (orderid, productid, quantity, price)
		VALUES (?, ?, ?, ?)`,
		line.OrderID, line.ProductID, line.Quantity, line.Price).Error, "INSERT", "orderdetails")
}

func (t *gormTx) DecrementStock(ctx context.Context, productID uint, qty int) (int64, error) {
	res := t.db.WithContext(ctx).Exec(`
		UPDATE products SET stockquantity = stockquantity - ?
		WHERE productid = ? AND stockquantity >= ?`, qty, productID, qty)
	if res.Error != nil {
		return 0, wrap(res.Error, "UPDATE", "products")
	}
	return res.RowsAffected, nil
}

func (s *GormStore) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "orderid = ?", id).Error; err != nil {
		return nil, wrap(err, "SELECT", "orders")
	}
	orders, err := s.ListOrders(ctx, OrderFilter{OrderID: id})
	if err != nil {
		return nil, err
	}
	if len(orders) == 1 {
		order.Lines = orders[0].Lines
	}
	return &order, nil
}

func (s *GormStore) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Table("orderdetailsview")
	if f.UserID != 0 {
		query = query.Where("userid = ?", f.UserID)
	}
	if f.OrderID != 0 {
		query = query.Where("orderid = ?", f.OrderID)
	}
	var rows []models.OrderDetailsRow
	if err := query.Order("orderid DESC").Order("productid").Find(&rows).Error; err != nil {
		return nil, wrap(err, "SELECT", "orderdetailsview")
	}
	return models.GroupOrderRows(rows), nil
}

func (s *GormStore) UpdateOrderStatus(ctx context.Context, id uint, from, to models.OrderStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("orderid = ? AND orderstatus = ?", id, string(from)).
		Update("orderstatus", string(to))
	if res.Error != nil {
		return wrap(res.Error, "UPDATE", "orders")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("orderid = ?", id).Count(&n).Error; err != nil {
		return wrap(err, "SELECT", "orders")
	}
	if n == 0 {
		return wrap(ErrNotFound, "UPDATE", "orders")
	}
	return wrap(ErrStale, "UPDATE", "orders")
}

func (s *GormStore) OrdersSummary(ctx context.Context, from, to time.Time) ([]models.UserOrderSummary, error) {
	var rows []models.UserOrderSummary
	err := s.db.WithContext(ctx).
		Raw("SELECT * FROM get_orders_summary_for_all_users(?, ?)",
			from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Scan(&rows).Error
	if err != nil {
		return nil, wrap(err, "SELECT", "get_orders_summary_for_all_users")
	}
	return rows, nil
}
