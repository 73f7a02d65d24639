package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/session"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	t  *testing.T
	r  *gin.Engine
	st *store.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	st := store.NewMemoryStore().WithHashCost(bcrypt.MinCost)
	_, err := st.CreateUser(ctx, "root", "root@example.com", "rootpw", models.RoleAdmin)
	require.NoError(t, err)
	cat, err := st.CreateCategory(ctx, "Kitchen")
	require.NoError(t, err)
	require.NoError(t, st.CreateProduct(ctx, &models.Product{Name: "Kettle", Price: decimal.RequireFromString("100.00"), StockQuantity: 10, CategoryID: cat.ID}))
	require.NoError(t, st.CreateProduct(ctx, &models.Product{Name: "Toaster", Price: decimal.RequireFromString("50.00"), StockQuantity: 10, CategoryID: cat.ID}))

	r := gin.New()
	SetupRoutes(r, Deps{
		Store:    st,
		Sessions: session.NewStore(time.Hour),
		Secret:   []byte("test-secret"),
	})
	return &testServer{t: t, r: r, st: st}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/auth/register", "", gin.H{"username": "anna", "email": "anna@example.com", "password": "secret"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/register", "", gin.H{"username": "anna", "email": "other@example.com", "password": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/auth/register", "", gin.H{"username": "ben", "email": "no-at-sign", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", gin.H{"username": "anna", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login("anna", "secret")
	w = s.do(http.MethodGet, "/account", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[models.User](t, w)
	assert.Equal(t, "anna", user.Username)
	assert.Equal(t, models.RoleCustomer, user.Role)
}

func TestRoleGating(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/auth/register", "", gin.H{"username": "anna", "email": "anna@example.com", "password": "secret"})
	customer := s.login("anna", "secret")
	admin := s.login("root", "rootpw")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/catalog/products", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/catalog/products", "not-a-jwt", http.StatusUnauthorized},
		{"customer browses", http.MethodGet, "/catalog/products", customer, http.StatusOK},
		{"admin browses", http.MethodGet, "/catalog/products", admin, http.StatusOK},
		{"customer on admin orders", http.MethodGet, "/admin/orders", customer, http.StatusForbidden},
		{"customer on reports", http.MethodGet, "/admin/reports/orders-summary?from=2024-01-01&to=2024-01-31", customer, http.StatusForbidden},
		{"admin on cart", http.MethodGet, "/customer/cart", admin, http.StatusForbidden},
		{"admin on checkout", http.MethodPost, "/customer/cart/checkout", admin, http.StatusForbidden},
		{"customer cart", http.MethodGet, "/customer/cart", customer, http.StatusOK},
		{"admin orders", http.MethodGet, "/admin/orders", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

type cartResponse struct {
	Lines []models.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/auth/register", "", gin.H{"username": "anna", "email": "anna@example.com", "password": "secret"})
	customer := s.login("anna", "secret")
	admin := s.login("root", "rootpw")

	w := s.do(http.MethodPost, "/customer/cart/checkout", customer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")

	w = s.do(http.MethodPost, "/customer/cart", customer, gin.H{"product_id": 1, "quantity": 20})
	assert.Equal(t, http.StatusConflict, w.Code, "more than in stock")

	w = s.do(http.MethodPost, "/customer/cart", customer, gin.H{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/customer/cart", customer, gin.H{"product_id": 2, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart := decode[cartResponse](t, w)
	assert.Len(t, cart.Lines, 2)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(250)), cart.Total.String())

	w = s.do(http.MethodPost, "/customer/cart/checkout", customer, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := decode[struct {
		Order models.Order `json:"order"`
	}](t, w)
	assert.True(t, placed.Order.TotalAmount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, models.OrderStatusProcessing, placed.Order.Status)
	assert.Len(t, placed.Order.Lines, 2)

	w = s.do(http.MethodGet, "/customer/cart", customer, nil)
	assert.Empty(t, decode[cartResponse](t, w).Lines)

	w = s.do(http.MethodGet, "/catalog/products/1", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 8, decode[models.Product](t, w).StockQuantity)

	w = s.do(http.MethodGet, "/admin/orders", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Order](t, w), 1)

	w = s.do(http.MethodPut, "/admin/orders/1/status", admin, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPut, "/admin/orders/1/status", admin, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = s.do(http.MethodPut, "/admin/orders/1/status", admin, gin.H{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, "/admin/orders/42/status", admin, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/customer/orders", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]models.Order](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusDelivered, orders[0].Status)

	today := time.Now().UTC().Format(time.DateOnly)
	w = s.do(http.MethodGet, "/admin/reports/orders-summary?from="+today+"&to="+today, admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode[models.OrdersReport](t, w)
	assert.Equal(t, int64(1), report.AllOrders)
}

func TestAdminCatalogManagement(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("root", "rootpw")

	w := s.do(http.MethodPost, "/admin/categories", admin, gin.H{"name": "Garden"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/admin/categories", admin, gin.H{"name": "Garden"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/admin/products", admin, gin.H{"name": "Hose", "price": "12.5", "stock_quantity": 4, "category_id": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	hose := decode[models.Product](t, w)

	w = s.do(http.MethodPost, "/admin/products", admin, gin.H{"name": "Rake", "price": "-1", "category_id": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/catalog/products?search=hoze", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]models.Product](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, hose.ID, found[0].ID)

	w = s.do(http.MethodDelete, "/admin/products/3", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodGet, "/catalog/products/3", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/admin/products/export-excel", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.xlsx")
}

func TestLogoutEndsSession(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/auth/register", "", gin.H{"username": "anna", "email": "anna@example.com", "password": "secret"})
	token := s.login("anna", "secret")

	w := s.do(http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/customer/cart", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
