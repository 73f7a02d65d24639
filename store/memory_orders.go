package store

import (
	"context"
	"sort"
	"time"

	"github.com/junaidrashid-git/storefront/models"
)

// memTx runs with MemoryStore.mu held; it must not call locking methods.
type memTx struct {
	s *MemoryStore
}

type memSnapshot struct {
	products    map[uint]models.Product
	orders      map[uint]models.Order
	lines       map[uint][]models.OrderDetail
	nextOrderID uint
}

func (s *MemoryStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products:    make(map[uint]models.Product, len(s.products)),
		orders:      make(map[uint]models.Order, len(s.orders)),
		lines:       make(map[uint][]models.OrderDetail, len(s.lines)),
		nextOrderID: s.nextOrderID,
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.lines {
		snap.lines[k] = append([]models.OrderDetail(nil), v...)
	}
	return snap
}

func (s *MemoryStore) restore(snap memSnapshot) {
	s.products = snap.products
	s.orders = snap.orders
	s.lines = snap.lines
	s.nextOrderID = snap.nextOrderID
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return wrap(ErrUnavailable, "TRANSACTION", "orders")
	}
	snap := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (t *memTx) InsertOrder(_ context.Context, o *models.Order) error {
	s := t.s
	if _, ok := s.users[o.UserID]; !ok {
		return wrap(ErrConstraint, "INSERT", "orders")
	}
	o.ID = s.nextOrderID
	s.nextOrderID++
	header := *o
	header.Lines = nil
	s.orders[o.ID] = header
	return nil
}

func (t *memTx) InsertOrderLine(_ context.Context, line models.OrderDetail) error {
	s := t.s
	if _, ok := s.orders[line.OrderID]; !ok {
		return wrap(ErrConstraint, "INSERT", "orderdetails")
	}
	if _, ok := s.products[line.ProductID]; !ok {
		return wrap(ErrConstraint, "INSERT", "orderdetails")
	}
	if line.Quantity <= 0 {
		return wrap(ErrConstraint, "INSERT", "orderdetails")
	}
	for _, existing := range s.lines[line.OrderID] {
		if existing.ProductID == line.ProductID {
			return wrap(ErrDuplicate, "INSERT", "orderdetails")
		}
	}
	line.Name = ""
	line.Product = nil
	s.lines[line.OrderID] = append(s.lines[line.OrderID], line)
	return nil
}

func (t *memTx) DecrementStock(_ context.Context, productID uint, qty int) (int64, error) {
	s := t.s
	p, ok := s.products[productID]
	if !ok || p.StockQuantity < qty {
		return 0, nil
	}
	p.StockQuantity -= qty
	s.products[productID] = p
	return 1, nil
}

// orderWithLines assembles an order the way orderdetailsview presents it.
// Callers hold s.mu.
func (s *MemoryStore) orderWithLines(o models.Order) models.Order {
	lines := append([]models.OrderDetail(nil), s.lines[o.ID]...)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	for i := range lines {
		lines[i].Name = s.products[lines[i].ProductID].Name
	}
	o.Lines = lines
	return o
}

func (s *MemoryStore) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, wrap(ErrNotFound, "SELECT", "orders")
	}
	o = s.orderWithLines(o)
	return &o, nil
}

func (s *MemoryStore) ListOrders(_ context.Context, f OrderFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []models.Order
	for _, o := range s.orders {
		if f.UserID != 0 && o.UserID != f.UserID {
			continue
		}
		if f.OrderID != 0 && o.ID != f.OrderID {
			continue
		}
		res = append(res, s.orderWithLines(o))
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id uint, from, to models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return wrap(ErrNotFound, "UPDATE", "orders")
	}
	if o.Status != from {
		return wrap(ErrStale, "UPDATE", "orders")
	}
	o.Status = to
	s.orders[id] = o
	return nil
}

func (s *MemoryStore) OrdersSummary(_ context.Context, from, to time.Time) ([]models.UserOrderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := dateOf(from)
	end := dateOf(to)
	byUser := make(map[uint]*models.UserOrderSummary)
	for _, o := range s.orders {
		day := dateOf(o.OrderDate)
		if day.Before(start) || day.After(end) {
			continue
		}
		row, ok := byUser[o.UserID]
		if !ok {
			row = &models.UserOrderSummary{UserID: o.UserID, Username: s.users[o.UserID].Username}
			byUser[o.UserID] = row
		}
		row.TotalOrders++
		row.TotalAmount = row.TotalAmount.Add(o.TotalAmount)
	}
	res := make([]models.UserOrderSummary, 0, len(byUser))
	for _, row := range byUser {
		res = append(res, *row)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].UserID < res[j].UserID })
	return res, nil
}

// dateOf is the UTC calendar day of t.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
