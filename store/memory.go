package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"golang.org/x/crypto/bcrypt"
)

// MemoryStore keeps every table in maps behind one mutex. Transactions run
// with the lock held and restore a snapshot when they fail.
type MemoryStore struct {
	mu sync.Mutex

	users      map[uint]models.User
	categories map[uint]models.Category
	products   map[uint]models.Product
	orders     map[uint]models.Order
	lines      map[uint][]models.OrderDetail // by order id

	nextUserID     uint
	nextCategoryID uint
	nextProductID  uint
	nextOrderID    uint

	hashCost int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:          make(map[uint]models.User),
		categories:     make(map[uint]models.Category),
		products:       make(map[uint]models.Product),
		orders:         make(map[uint]models.Order),
		lines:          make(map[uint][]models.OrderDetail),
		nextUserID:     1,
		nextCategoryID: 1,
		nextProductID:  1,
		nextOrderID:    1,
		hashCost:       bcrypt.DefaultCost,
	}
}

// WithHashCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func (s *MemoryStore) WithHashCost(cost int) *MemoryStore {
	s.hashCost = cost
	return s
}

// -------- Users --------

func (s *MemoryStore) CreateUser(_ context.Context, username, email, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, wrap(ErrDuplicate, "INSERT", "users")
		}
	}
	u := models.User{
		ID:               s.nextUserID,
		Username:         username,
		Email:            email,
		PasswordHash:     string(hash),
		Role:             role,
		IsActive:         true,
		RegistrationDate: time.Now(),
	}
	s.nextUserID++
	s.users[u.ID] = u
	return &u, nil
}

func (s *MemoryStore) Authenticate(_ context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	var found *models.User
	for _, u := range s.users {
		if u.Username == username && u.IsActive {
			u := u
			found = &u
			break
		}
	}
	s.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
		return nil, wrap(ErrNotFound, "SELECT", "users")
	}
	return found, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, wrap(ErrNotFound, "SELECT", "users")
	}
	return &u, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, id uint, username, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, wrap(ErrNotFound, "UPDATE", "users")
	}
	for _, other := range s.users {
		if other.ID != id && other.Username == username {
			return nil, wrap(ErrDuplicate, "UPDATE", "users")
		}
	}
	u.Username = username
	u.Email = email
	s.users[id] = u
	return &u, nil
}

// -------- Categories --------

func (s *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *MemoryStore) GetCategory(_ context.Context, id uint) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, wrap(ErrNotFound, "SELECT", "categories")
	}
	return &c, nil
}

func (s *MemoryStore) CreateCategory(_ context.Context, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Name == name {
			return nil, wrap(ErrDuplicate, "INSERT", "categories")
		}
	}
	c := models.Category{ID: s.nextCategoryID, Name: name}
	s.nextCategoryID++
	s.categories[c.ID] = c
	return &c, nil
}

// -------- Products --------

func (s *MemoryStore) SearchProducts(_ context.Context, f ProductFilter) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	var res []models.Product
	for _, p := range s.products {
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *MemoryStore) ProductNames(_ context.Context, categoryID uint) ([]models.ProductName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []models.ProductName
	for _, p := range s.products {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		res = append(res, models.ProductName{ID: p.ID, Name: p.Name})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *MemoryStore) ProductsByIDs(_ context.Context, ids []uint) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []models.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, wrap(ErrNotFound, "SELECT", "products")
	}
	return &p, nil
}

// checkProduct mirrors the table constraints. Callers hold s.mu.
func (s *MemoryStore) checkProduct(p models.Product) error {
	if p.Price.IsNegative() || p.StockQuantity < 0 {
		return ErrConstraint
	}
	if _, ok := s.categories[p.CategoryID]; !ok {
		return ErrConstraint
	}
	return nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkProduct(*p); err != nil {
		return wrap(err, "INSERT", "products")
	}
	p.ID = s.nextProductID
	s.nextProductID++
	p.Category = nil
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, id uint, ch ProductChanges) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, wrap(ErrNotFound, "UPDATE", "products")
	}
	if ch.Name != nil {
		p.Name = *ch.Name
	}
	if ch.Description != nil {
		p.Description = *ch.Description
	}
	if ch.Price != nil {
		p.Price = *ch.Price
	}
	if ch.StockQuantity != nil {
		p.StockQuantity = *ch.StockQuantity
	}
	if ch.CategoryID != nil {
		p.CategoryID = *ch.CategoryID
	}
	if err := s.checkProduct(p); err != nil {
		return nil, wrap(err, "UPDATE", "products")
	}
	s.products[id] = p
	return &p, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return wrap(ErrNotFound, "DELETE", "products")
	}
	for _, lines := range s.lines {
		for _, l := range lines {
			if l.ProductID == id {
				return wrap(ErrConstraint, "DELETE", "products")
			}
		}
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) BulkAddProducts(_ context.Context, records []models.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// validate everything first so a bad record inserts nothing
	batch := make([]models.Product, 0, len(records))
	for _, r := range records {
		p := models.Product{
			Name:          r.Name,
			Description:   r.Description,
			Price:         r.Price,
			StockQuantity: r.StockQuantity,
			CategoryID:    r.CategoryID,
		}
		if err := s.checkProduct(p); err != nil {
			return wrap(err, "CALL", "products")
		}
		batch = append(batch, p)
	}
	for _, p := range batch {
		p.ID = s.nextProductID
		s.nextProductID++
		s.products[p.ID] = p
	}
	return nil
}
