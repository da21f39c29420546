package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/njpv/shop-admin/internal/notify"
	"github.com/njpv/shop-admin/internal/service"
	"github.com/njpv/shop-admin/internal/session"
	"github.com/njpv/shop-admin/internal/validation"
)

// catalogPageData backs productos.html
type catalogPageData struct {
	pageData
	View service.CatalogView
}

// ProductHandler serves the catalog screen. Every route expects a session in the
// request context, see middleware.SessionRequired.
type ProductHandler struct {
	renderer Renderer
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(renderer Renderer, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		renderer: renderer,
		logger:   logger,
	}
}

// ListProducts handles GET /productos
// The list is fetched on the first visit and whenever ?recargar=1 is passed.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if !sess.Catalog.Loaded() || r.URL.Query().Get("recargar") != "" {
		// failures are surfaced as a toast by the screen
		_ = sess.Catalog.Load(r.Context())
	}

	data := catalogPageData{
		pageData: pageData{
			Title:  "Productos",
			User:   sess.Email,
			Toasts: sess.Toasts.Drain(),
		},
		View: sess.Catalog.View(r.URL.Query().Get("q")),
	}
	renderPage(w, h.renderer, http.StatusOK, "productos.html", data, h.logger)
}

// NewProduct handles GET /productos/nuevo
func (h *ProductHandler) NewProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Catalog.OpenNew()
	redirectToCatalog(w, r)
}

// EditProduct handles GET /productos/{productId}/editar
func (h *ProductHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	id, ok := h.productID(sess, r)
	if ok {
		if err := sess.Catalog.Edit(id); err != nil {
			if !errors.Is(err, service.ErrProductNotFound) {
				h.logger.Error("failed to open product", "productId", id, "error", err)
			}
			sess.Toasts.Add(notify.Error("Producto no encontrado"))
		}
	}
	redirectToCatalog(w, r)
}

// CloseDialog handles POST /productos/dialogo/cerrar
func (h *ProductHandler) CloseDialog(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Catalog.HideDialog()
	redirectToCatalog(w, r)
}

// SaveProduct handles POST /productos
// Validation errors stay on the dialog; API errors become toasts. Either way the
// browser is sent back to the catalog page, which renders the current state.
func (h *ProductHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse product form", "error", err)
		sess.Toasts.Add(notify.Error("Formulario no válido"))
		redirectToCatalog(w, r)
		return
	}

	form := validation.ProductForm{
		ID:               r.PostForm.Get("id"),
		Codigo:           r.PostForm.Get("codigo"),
		Nombre:           r.PostForm.Get("nombre"),
		Descripcion:      r.PostForm.Get("descripcion"),
		Precio:           r.PostForm.Get("precio"),
		Imagen:           r.PostForm.Get("imagen"),
		Categoria:        r.PostForm.Get("categoria"),
		Cantidad:         r.PostForm.Get("cantidad"),
		EstadoInventario: r.PostForm.Get("estadoInventario"),
		Rating:           r.PostForm.Get("rating"),
	}

	if err := sess.Catalog.Save(r.Context(), form); err != nil {
		h.logger.Debug("product not saved", "error", err)
	}
	redirectToCatalog(w, r)
}

// DeleteProduct handles POST /productos/{productId}/eliminar
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if id, ok := h.productID(sess, r); ok {
		_ = sess.Catalog.Delete(r.Context(), id)
	}
	redirectToCatalog(w, r)
}

// DeleteSelected handles POST /productos/eliminar with one "id" value per checked row
func (h *ProductHandler) DeleteSelected(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse selection", "error", err)
		sess.Toasts.Add(notify.Error("Formulario no válido"))
		redirectToCatalog(w, r)
		return
	}

	ids := make([]int64, 0, len(r.PostForm["id"]))
	for _, raw := range r.PostForm["id"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("invalid product ID format", "productId", raw, "error", err)
			continue
		}
		ids = append(ids, id)
	}

	// a row checked twice is deleted once
	slices.Sort(ids)
	ids = slices.Compact(ids)

	if len(ids) == 0 {
		sess.Toasts.Add(notify.Toast{Severity: notify.SeverityWarn, Summary: "Aviso", Detail: "No hay productos seleccionados"})
		redirectToCatalog(w, r)
		return
	}

	_, _ = sess.Catalog.DeleteSelected(r.Context(), ids)
	redirectToCatalog(w, r)
}

func (h *ProductHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}
	return sess, true
}

// productID parses {productId}; an invalid id becomes a toast
func (h *ProductHandler) productID(sess *session.Session, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid product ID format", "productId", raw, "error", err)
		sess.Toasts.Add(notify.Error("Id de producto no válido"))
		return 0, false
	}
	return id, true
}

func redirectToCatalog(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/productos", http.StatusSeeOther)
}
