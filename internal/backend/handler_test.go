package backend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/njpv/shop-admin/internal/models"
	"github.com/njpv/shop-admin/pkg/logger"
)

func newTestRouter() (*chi.Mux, *InMemoryRepository) {
	repo := NewInMemoryRepository(DefaultProducts(), DefaultUsers())
	handler := NewHandler(repo, repo, logger.New("error"))

	r := chi.NewRouter()
	handler.Routes(r)
	return r, repo
}

func TestListProducts(t *testing.T) {
	// Setup
	r, _ := newTestRouter()

	// Create request
	req := httptest.NewRequest(http.MethodGet, "/productos", nil)
	w := httptest.NewRecorder()

	// Execute
	r.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(products) != len(DefaultProducts()) {
		t.Errorf("expected %d products, got %d", len(DefaultProducts()), len(products))
	}

	if products[0].Nombre != "Bamboo Watch" {
		t.Errorf("expected insertion order to be kept, first product is %s", products[0].Nombre)
	}
}

func TestGetProduct_Success(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/productos/3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var product models.Product
	if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if product.ID != 3 {
		t.Errorf("expected product ID 3, got %d", product.ID)
	}
	if product.EstadoInventario != models.LowStock {
		t.Errorf("expected LOWSTOCK, got %s", product.EstadoInventario)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/productos/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if response["error"] != "Product not found" {
		t.Errorf("expected error message 'Product not found', got %s", response["error"])
	}
}

func TestGetProduct_InvalidID(t *testing.T) {
	r, _ := newTestRouter()

	// Test invalid ID formats
	testCases := []struct {
		name string
		id   string
	}{
		{"letters", "invalid"},
		{"special chars", "abc@123"},
		{"float", "12.34"},
		{"zero", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/productos/"+tc.id, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400 for ID %s, got %d", tc.id, w.Code)
			}
		})
	}
}

func TestCreateProduct(t *testing.T) {
	r, repo := newTestRouter()

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
		expectedID     int64
	}{
		{"server assigns id", `{"codigo":"N1","nombre":"Nuevo","categoria":"X","precio":1,"cantidad":1}`, http.StatusCreated, 9},
		{"client chosen id", `{"id":50,"codigo":"N2","nombre":"Nuevo","categoria":"X","precio":1,"cantidad":1}`, http.StatusCreated, 50},
		{"duplicate id", `{"id":1,"codigo":"N3","nombre":"Nuevo","categoria":"X"}`, http.StatusConflict, 0},
		{"missing fields", `{"codigo":"N4"}`, http.StatusBadRequest, 0},
		{"negative id", `{"id":-5,"codigo":"N6","nombre":"n","categoria":"c"}`, http.StatusBadRequest, 0},
		{"negative price", `{"codigo":"N5","nombre":"n","categoria":"c","precio":-1}`, http.StatusBadRequest, 0},
		{"bad json", `{`, http.StatusBadRequest, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/productos", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.expectedStatus, w.Code, w.Body.String())
			}
			if tc.expectedStatus != http.StatusCreated {
				return
			}

			var created models.Product
			if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if created.ID != tc.expectedID {
				t.Errorf("expected id %d, got %d", tc.expectedID, created.ID)
			}
			if _, err := repo.GetByID(req.Context(), created.ID); err != nil {
				t.Errorf("created product not stored: %v", err)
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	r, repo := newTestRouter()

	body := `{"id":2,"codigo":"nvklal433","nombre":"Black Watch v2","categoria":"Accessories","precio":80,"cantidad":10}`
	req := httptest.NewRequest(http.MethodPut, "/productos/2", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	got, err := repo.GetByID(req.Context(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Nombre != "Black Watch v2" || got.Precio != 80 {
		t.Errorf("product not updated: %+v", got)
	}

	testCases := []struct {
		name           string
		path           string
		body           string
		expectedStatus int
	}{
		{"unknown id", "/productos/999", `{"codigo":"c","nombre":"n","categoria":"x"}`, http.StatusNotFound},
		{"mismatched id", "/productos/2", `{"id":3,"codigo":"c","nombre":"n","categoria":"x"}`, http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tc.path, strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}
		})
	}
}

func TestDeleteProduct(t *testing.T) {
	r, repo := newTestRouter()

	req := httptest.NewRequest(http.MethodDelete, "/productos/4", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if _, err := repo.GetByID(req.Context(), 4); err != ErrProductNotFound {
		t.Errorf("expected product to be gone, got %v", err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/productos/4", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", w.Code)
	}
}

func TestListUsers(t *testing.T) {
	r, _ := newTestRouter()

	testCases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{"known email", "?email=admin@tienda.test", http.StatusOK, 1},
		{"case insensitive", "?email=ADMIN@tienda.test", http.StatusOK, 1},
		{"unknown email", "?email=nadie@tienda.test", http.StatusOK, 0},
		{"missing email", "", http.StatusBadRequest, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/usuarios"+tc.query, nil))

			if w.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var users []models.User
			if err := json.NewDecoder(w.Body).Decode(&users); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(users) != tc.expectedCount {
				t.Errorf("expected %d users, got %d", tc.expectedCount, len(users))
			}
		})
	}
}
