package store

import (
	"context"
	"fmt"

	"github.com/junaidrashid-git/storefront/models"
)

// Server-side objects the application relies on besides the tables.
const (
	createPgcrypto = `CREATE EXTENSION IF NOT EXISTS pgcrypto`

	createOrderDetailsView = `
CREATE OR REPLACE VIEW orderdetailsview AS
SELECT o.orderid, o.userid, u.username, o.orderdate, o.totalamount, o.orderstatus,
       d.productid, p.name, d.quantity, d.price
FROM orders o
JOIN users u ON u.userid = o.userid
JOIN orderdetails d ON d.orderid = o.orderid
JOIN products p ON p.productid = d.productid`

	createOrdersSummaryFunc = `
CREATE OR REPLACE FUNCTION get_orders_summary_for_all_users(start_date date, end_date date)
RETURNS TABLE (userid bigint, username text, total_orders bigint, total_amount numeric)
LANGUAGE sql STABLE AS $$
  SELECT u.userid, u.username::text, COUNT(o.orderid), COALESCE(SUM(o.totalamount), 0)
  FROM users u
  JOIN orders o ON o.userid = u.userid
  WHERE (o.orderdate AT TIME ZONE 'UTC')::date BETWEEN start_date AND end_date
  GROUP BY u.userid, u.username
  ORDER BY u.userid
$$`

	createBulkAddProducts = `
CREATE OR REPLACE PROCEDURE bulk_add_products(payload json)
LANGUAGE sql AS $$
  INSERT INTO products (name, description, price, stockquantity, categoryid)
  SELECT r.name, COALESCE(r.description, ''), r.price, r.stockquantity, r.categoryid
  FROM json_to_recordset(payload)
    AS r(name text, description text, price numeric, stockquantity integer, categoryid bigint)
$$`
)

// Migrate creates or updates the tables and the view, function and
// procedure used for reporting and bulk import.
func (s *GormStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Exec(createPgcrypto).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", classify(err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderDetail{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", classify(err))
	}
	for name, stmt := range map[string]string{
		"orderdetailsview":                 createOrderDetailsView,
		"get_orders_summary_for_all_users": createOrdersSummaryFunc,
		"bulk_add_products":                createBulkAddProducts,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", name, classify(err))
		}
	}
	return nil
}
