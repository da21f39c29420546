package backend

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/njpv/shop-admin/internal/models"
)

// Handler serves the catalog API consumed by the admin screens
type Handler struct {
	products ProductRepository
	users    UserRepository
	logger   *slog.Logger
}

// NewHandler creates a new catalog API handler
func NewHandler(products ProductRepository, users UserRepository, logger *slog.Logger) *Handler {
	return &Handler{
		products: products,
		users:    users,
		logger:   logger,
	}
}

// Routes registers the API routes on r
func (h *Handler) Routes(r chi.Router) {
	r.Get("/usuarios", h.ListUsers)
	r.Route("/productos", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{productId}", h.GetProduct)
		r.Put("/{productId}", h.UpdateProduct)
		r.Delete("/{productId}", h.DeleteProduct)
	})
}

// ListUsers handles GET /usuarios?email=
// An empty result is an empty array, never a 404.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		h.writeError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	users, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to find users", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, users)
}

// ListProducts handles GET /productos
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /productos/{productId}
// - 200: successful operation
// - 400: Invalid ID supplied
// - 404: Product not found
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, "get", id, err)
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /productos
// A missing or zero id is assigned by the server; 201 returns the stored record.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload models.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("failed to decode product", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validatePayload(payload); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.products.Create(r.Context(), payload)
	if err != nil {
		h.writeRepoError(w, "create", payload.ID, err)
		return
	}

	h.logger.Info("product created", "productId", created.ID)
	h.writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /productos/{productId}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var payload models.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("failed to decode product", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.ID != 0 && payload.ID != id {
		h.writeError(w, http.StatusBadRequest, "Body id does not match URL id")
		return
	}

	if err := validatePayload(payload); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.products.Update(r.Context(), id, payload)
	if err != nil {
		h.writeRepoError(w, "update", id, err)
		return
	}

	h.logger.Info("product updated", "productId", id)
	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /productos/{productId}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		h.writeRepoError(w, "delete", id, err)
		return
	}

	h.logger.Info("product deleted", "productId", id)
	h.writeJSON(w, http.StatusOK, map[string]any{})
}

// validatePayload mirrors the required fields of the product form
func validatePayload(p models.Product) error {
	var missing []string
	if strings.TrimSpace(p.Codigo) == "" {
		missing = append(missing, "codigo")
	}
	if strings.TrimSpace(p.Nombre) == "" {
		missing = append(missing, "nombre")
	}
	if strings.TrimSpace(p.Categoria) == "" {
		missing = append(missing, "categoria")
	}
	if len(missing) > 0 {
		return errors.New("missing required fields: " + strings.Join(missing, ", "))
	}
	if p.ID < 0 {
		return errors.New("id must not be negative")
	}
	if p.Precio < 0 || p.Cantidad < 0 {
		return errors.New("precio and cantidad must not be negative")
	}
	return nil
}

func (h *Handler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID := chi.URLParam(r, "productId")

	id, err := strconv.ParseInt(productID, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("invalid product ID format", "productId", productID, "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid ID supplied")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeRepoError(w http.ResponseWriter, op string, id int64, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		h.logger.Info("product not found", "op", op, "productId", id)
		h.writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrDuplicateID):
		h.writeError(w, http.StatusConflict, "Product id already exists")
	default:
		h.logger.Error("product repository failed", "op", op, "productId", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
