package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type mockProductStore struct {
	products  map[string]*models.Product
	listErr   error
	createErr error
	updateErr error
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{products: map[string]*models.Product{}}
}

func (m *mockProductStore) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (m *mockProductStore) ListProducts(_ context.Context, limit, offset int) ([]*models.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductStore) CreateProduct(_ context.Context, p *models.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockProductStore) UpdateProduct(_ context.Context, p *models.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.products[p.ID]; !ok {
		return db.ErrNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockProductStore) DeleteProduct(_ context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func newProductsRouter(store *mockProductStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewProductsHandler(store, zerolog.Nop())
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestCreateProduct(t *testing.T) {
	store := newMockProductStore()
	r := newProductsRouter(store)

	body := `{"id":"cereal-pro","name":"Cereal Pro","availableTiers":["basic","max"]}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var product models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &product); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if product.ID != "cereal-pro" || len(product.AvailableTiers) != 2 {
		t.Errorf("unexpected product: %+v", product)
	}
	if _, ok := store.products["cereal-pro"]; !ok {
		t.Error("product not persisted")
	}
}

func TestCreateProductDuplicate(t *testing.T) {
	store := newMockProductStore()
	store.products["cereal-pro"] = &models.Product{ID: "cereal-pro", Name: "Cereal Pro"}
	r := newProductsRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/products", strings.NewReader(`{"id":"cereal-pro","name":"Again"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestCreateProductInvalidTierSet(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "blank entry",
			body:    `{"id":"p","name":"P","availableTiers":["basic","  "]}`,
			wantMsg: "availableTiers cannot contain empty strings",
		},
		{
			name:    "duplicate entry",
			body:    `{"id":"p","name":"P","availableTiers":["basic","basic"]}`,
			wantMsg: "availableTiers cannot contain duplicates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newProductsRouter(newMockProductStore())
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/v1/products", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if !strings.Contains(resp.Error, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, resp.Error)
			}
		})
	}
}

func TestCreateProductMissingFields(t *testing.T) {
	r := newProductsRouter(newMockProductStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/products", strings.NewReader(`{"name":"no id"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGetProductNotFound(t *testing.T) {
	r := newProductsRouter(newMockProductStore())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/products/missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestUpdateProductTierSet(t *testing.T) {
	store := newMockProductStore()
	store.products["cereal-pro"] = &models.Product{ID: "cereal-pro", Name: "Cereal Pro", AvailableTiers: []string{"basic"}}
	r := newProductsRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/v1/products/cereal-pro", strings.NewReader(`{"availableTiers":["basic","max"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.products["cereal-pro"].AvailableTiers) != 2 {
		t.Error("tier set not updated")
	}
}

func TestDeleteProduct(t *testing.T) {
	store := newMockProductStore()
	store.products["cereal-pro"] = &models.Product{ID: "cereal-pro"}
	r := newProductsRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/products/cereal-pro", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if len(store.products) != 0 {
		t.Error("product not deleted")
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/v1/products/cereal-pro", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for missing product, got %d", w.Code)
	}
}

func TestListProducts(t *testing.T) {
	store := newMockProductStore()
	store.products["a"] = &models.Product{ID: "a", Name: "A"}
	store.products["b"] = &models.Product{ID: "b", Name: "B"}
	r := newProductsRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/products?limit=500&page=1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Products []*models.Product `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Products) != 2 {
		t.Errorf("expected 2 products, got %d", len(resp.Products))
	}
}
