package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/storefront/models"
	"gorm.io/gorm"
)

// GormStore implements Store on PostgreSQL through gorm. Statements that
// depend on server-side functions (pgcrypto, the reporting function, the
// bulk import procedure) are issued as raw parameterized SQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying handle for callers that manage its lifecycle.
func (s *GormStore) DB() *gorm.DB { return s.db }

// -------- Users --------

func (s *GormStore) CreateUser(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	var user models.User
	res := s.db.WithContext(ctx).Raw(`
		INSERT INTO users (username, email, passwordhash, roleid, registrationdate, isactive)
		VALUES (?, ?, crypt(?, gen_salt('bf')), ?, NOW(), TRUE)
		RETURNING *`, username, email, password, int(role)).Scan(&user)
	if res.Error != nil {
		return nil, wrap(res.Error, "INSERT", "users")
	}
	return &user, nil
}

func (s *GormStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	res := s.db.WithContext(ctx).Raw(`
		SELECT * FROM users
		WHERE username = ? AND passwordhash = crypt(?, passwordhash) AND isactive`,
		username, password).Scan(&user)
	if res.Error != nil {
		return nil, wrap(res.Error, "SELECT", "users")
	}
	if res.RowsAffected == 0 {
		return nil, wrap(ErrNotFound, "SELECT", "users")
	}
	return &user, nil
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "userid = ?", id).Error; err != nil {
		return nil, wrap(err, "SELECT", "users")
	}
	return &user, nil
}

func (s *GormStore) UpdateProfile(ctx context.Context, id uint, username, email string) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("userid = ?", id).
		Updates(map[string]interface{}{"username": username, "email": email})
	if res.Error != nil {
		return nil, wrap(res.Error, "UPDATE", "users")
	}
	if res.RowsAffected == 0 {
		return nil, wrap(ErrNotFound, "UPDATE", "users")
	}
	return s.GetUser(ctx, id)
}

// -------- Categories --------

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("categoryname").Find(&categories).Error; err != nil {
		return nil, wrap(err, "SELECT", "categories")
	}
	return categories, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "categoryid = ?", id).Error; err != nil {
		return nil, wrap(err, "SELECT", "categories")
	}
	return &category, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, wrap(err, "INSERT", "categories")
	}
	return &category, nil
}

// -------- Products --------

// escapeLike makes user input literal inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *GormStore) SearchProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if q := strings.TrimSpace(f.Query); q != "" {
		query = query.Where("name ILIKE ?", "%"+escapeLike(q)+"%")
	}
	if f.CategoryID != 0 {
		query = query.Where("categoryid = ?", f.CategoryID)
	}
	var products []models.Product
	if err := query.Order("name").Order("productid").Find(&products).Error; err != nil {
		return nil, wrap(err, "SELECT", "products")
	}
	return products, nil
}

func (s *GormStore) ProductNames(ctx context.Context, categoryID uint) ([]models.ProductName, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).Select("productid", "name")
	if categoryID != 0 {
		query = query.Where("categoryid = ?", categoryID)
	}
	var names []models.ProductName
	if err := query.Find(&names).Error; err != nil {
		return nil, wrap(err, "SELECT", "products")
	}
	return names, nil
}

func (s *GormStore) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("productid IN ?", ids).Find(&products).Error; err != nil {
		return nil, wrap(err, "SELECT", "products")
	}
	return products, nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("productid").Find(&products).Error; err != nil {
		return nil, wrap(err, "SELECT", "products")
	}
	return products, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "productid = ?", id).Error; err != nil {
		return nil, wrap(err, "SELECT", "products")
	}
	return &product, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, p *models.Product) error {
	return wrap(s.db.WithContext(ctx).Omit("Category").Create(p).Error, "INSERT", "products")
}

func (s *GormStore) UpdateProduct(ctx context.Context, id uint, ch ProductChanges) (*models.Product, error) {
	updates := make(map[string]interface{})
	if ch.Name != nil {
		updates["name"] = *ch.Name
	}
	if ch.Description != nil {
		updates["description"] = *ch.Description
	}
	if ch.Price != nil {
		updates["price"] = *ch.Price
	}
	if ch.StockQuantity != nil {
		updates["stockquantity"] = *ch.StockQuantity
	}
	if ch.CategoryID != nil {
		updates["categoryid"] = *ch.CategoryID
	}
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Product{}).Where("productid = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, wrap(res.Error, "UPDATE", "products")
		}
		if res.RowsAffected == 0 {
			return nil, wrap(ErrNotFound, "UPDATE", "products")
		}
	}
	return s.GetProduct(ctx, id)
}

func (s *GormStore) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "productid = ?", id)
	if res.Error != nil {
		return wrap(res.Error, "DELETE", "products")
	}
	if res.RowsAffected == 0 {
		return wrap(ErrNotFound, "DELETE", "products")
	}
	return nil
}

func (s *GormStore) BulkAddProducts(ctx context.Context, records []models.ProductRecord) error {
	if len(records) == 0 {
		return nil
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode product records: %w", err)
	}
	return wrap(s.db.WithContext(ctx).Exec("CALL bulk_add_products(?::json)", string(payload)).Error,
		"CALL", "products")
}
