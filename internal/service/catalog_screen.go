package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/njpv/shop-admin/internal/models"
	"github.com/njpv/shop-admin/internal/notify"
	"github.com/njpv/shop-admin/internal/validation"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductAPI is the remote side of the catalog screen
type ProductAPI interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, p models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// CatalogScreen is the state behind one browser session's catalog page:
// the product list as last confirmed by the API, the edit dialog and its form.
//
// The lock only covers local state. API calls run unlocked, so overlapping
// actions from the same session are not deduplicated and the last write wins.
type CatalogScreen struct {
	api      ProductAPI
	notifier notify.Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	products   []models.Product
	loaded     bool
	selected   models.Product
	form       validation.ProductForm
	formErrors validation.Errors
	dialogOpen bool
	submitted  bool
}

// CatalogView is a snapshot of the screen for rendering
type CatalogView struct {
	Products   []models.Product
	Total      int
	Query      string
	DialogOpen bool
	Submitted  bool
	Editing    bool
	Form       validation.ProductForm
	FormErrors validation.Errors
}

// NewCatalogScreen creates an empty, not yet loaded screen
func NewCatalogScreen(api ProductAPI, notifier notify.Notifier, logger *slog.Logger) *CatalogScreen {
	return &CatalogScreen{
		api:      api,
		notifier: notifier,
		logger:   logger,
	}
}

// Loaded reports whether the list has been fetched successfully
func (s *CatalogScreen) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Load replaces the list with the API's product list.
// On failure the list is left empty and an error toast is queued.
func (s *CatalogScreen) Load(ctx context.Context) error {
	products, err := s.api.GetProducts(ctx)
	if err != nil {
		s.logger.Error("failed to load products", "error", err)
		s.mu.Lock()
		s.products = nil
		s.loaded = false
		s.mu.Unlock()
		s.notifier.Add(notify.Error("Error al cargar productos"))
		return fmt.Errorf("load products: %w", err)
	}

	s.mu.Lock()
	s.products = dedupeByID(products)
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// OpenNew resets the form and opens the dialog for a new product
func (s *CatalogScreen) OpenNew() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = models.Product{}
	s.form = validation.ProductForm{}
	s.formErrors = nil
	s.submitted = false
	s.dialogOpen = true
}

// Edit copies the product into the form and opens the dialog
func (s *CatalogScreen) Edit(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i == -1 {
		return ErrProductNotFound
	}
	s.selected = s.products[i]
	s.form = validation.FormFromProduct(s.selected)
	s.formErrors = nil
	s.dialogOpen = true
	return nil
}

// HideDialog closes the dialog without saving
func (s *CatalogScreen) HideDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogOpen = false
	s.submitted = false
}

// Save validates the form, then updates the product if its id is already in the list
// or creates it otherwise. An invalid form sends no request.
func (s *CatalogScreen) Save(ctx context.Context, form validation.ProductForm) error {
	s.mu.Lock()
	s.submitted = true
	s.form = form
	s.formErrors = nil
	s.mu.Unlock()

	p, err := form.Product()
	if err != nil {
		fe, _ := validation.AsErrors(err)
		s.mu.Lock()
		s.formErrors = fe
		s.mu.Unlock()
		s.logger.Debug("product form rejected", "error", err)
		return err
	}

	s.mu.Lock()
	exists := p.ID != 0 && s.indexOf(p.ID) != -1
	s.mu.Unlock()

	if exists {
		return s.update(ctx, p)
	}
	return s.create(ctx, p)
}

func (s *CatalogScreen) update(ctx context.Context, p models.Product) error {
	if err := s.api.UpdateProduct(ctx, p.ID, p); err != nil {
		s.logger.Error("failed to update product", "id", p.ID, "error", err)
		s.notifier.Add(notify.Error("Error al actualizar producto"))
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}

	s.mu.Lock()
	s.upsert(p)
	s.closeDialog()
	s.mu.Unlock()

	s.logger.Info("product updated", "id", p.ID)
	s.notifier.Add(notify.Success("Exitoso", "Producto Actualizado"))
	return nil
}

func (s *CatalogScreen) create(ctx context.Context, p models.Product) error {
	created, err := s.api.CreateProduct(ctx, p)
	if err != nil {
		s.logger.Error("failed to create product", "codigo", p.Codigo, "error", err)
		s.notifier.Add(notify.Error("Error al crear producto"))
		return fmt.Errorf("create product: %w", err)
	}

	s.mu.Lock()
	s.upsert(*created)
	s.closeDialog()
	s.mu.Unlock()

	s.logger.Info("product created", "id", created.ID)
	s.notifier.Add(notify.Success("Exitoso", "Producto Creado"))
	return nil
}

// Delete removes the product remotely, then locally
func (s *CatalogScreen) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		s.logger.Error("failed to delete product", "id", id, "error", err)
		s.notifier.Add(notify.Error("No se ha podido eliminar el producto"))
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	s.mu.Lock()
	s.remove(id)
	s.mu.Unlock()

	s.logger.Info("product deleted", "id", id)
	s.notifier.Add(notify.Success("Success", "El producto se ha eliminado correctamente"))
	return nil
}

// DeleteSelected deletes each id with its own request. Only the ids the API
// confirmed are removed locally; the returned error joins the failures.
func (s *CatalogScreen) DeleteSelected(ctx context.Context, ids []int64) (int, error) {
	var (
		deleted []int64
		errs    []error
	)
	for _, id := range ids {
		if err := s.api.DeleteProduct(ctx, id); err != nil {
			s.logger.Error("failed to delete product", "id", id, "error", err)
			errs = append(errs, fmt.Errorf("delete product %d: %w", id, err))
			continue
		}
		deleted = append(deleted, id)
	}

	s.mu.Lock()
	for _, id := range deleted {
		s.remove(id)
	}
	s.mu.Unlock()

	switch {
	case len(errs) == 0:
		s.notifier.Add(notify.Success("Success", fmt.Sprintf("Se han eliminado %d productos", len(deleted))))
	default:
		s.notifier.Add(notify.Error(fmt.Sprintf("No se han podido eliminar %d de %d productos", len(errs), len(ids))))
	}

	return len(deleted), errors.Join(errs...)
}

// FindIndexByID returns the position of id in the list, or -1
func (s *CatalogScreen) FindIndexByID(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id)
}

// Products returns a copy of the list
func (s *CatalogScreen) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// Filter returns the products whose codigo, nombre or categoria contain query, ignoring case
func (s *CatalogScreen) Filter(query string) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterProducts(s.products, query)
}

// View snapshots the screen, with the list narrowed by query
func (s *CatalogScreen) View(query string) CatalogView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CatalogView{
		Products:   filterProducts(s.products, query),
		Total:      len(s.products),
		Query:      query,
		DialogOpen: s.dialogOpen,
		Submitted:  s.submitted,
		Editing:    s.selected.ID != 0,
		Form:       s.form,
		FormErrors: s.formErrors,
	}
}

// indexOf expects s.mu to be held
func (s *CatalogScreen) indexOf(id int64) int {
	return slices.IndexFunc(s.products, func(p models.Product) bool { return p.ID == id })
}

// upsert keeps ids unique: an id already in the list is replaced in place
func (s *CatalogScreen) upsert(p models.Product) {
	if i := s.indexOf(p.ID); i != -1 {
		next := slices.Clone(s.products)
		next[i] = p
		s.products = next
		return
	}
	s.products = append(slices.Clip(s.products), p)
}

func (s *CatalogScreen) remove(id int64) {
	s.products = slices.DeleteFunc(slices.Clone(s.products), func(p models.Product) bool { return p.ID == id })
}

func (s *CatalogScreen) closeDialog() {
	s.dialogOpen = false
	s.submitted = false
	s.selected = models.Product{}
	s.form = validation.ProductForm{}
	s.formErrors = nil
}

func filterProducts(products []models.Product, query string) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(products)
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Codigo), query) ||
			strings.Contains(strings.ToLower(p.Nombre), query) ||
			strings.Contains(strings.ToLower(p.Categoria), query) {
			out = append(out, p)
		}
	}
	return out
}

// dedupeByID keeps the last occurrence of each id so the list never holds duplicates
func dedupeByID(products []models.Product) []models.Product {
	seen := make(map[int64]int, len(products))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if i, ok := seen[p.ID]; ok {
			out[i] = p
			continue
		}
		seen[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}
