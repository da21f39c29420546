// Package backend is a stand-in for the remote catalog API, used for local
// development and end-to-end tests of the admin screens.
package backend

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/njpv/shop-admin/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateID     = errors.New("product id already exists")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, p models.Product) (*models.Product, error)
	Update(ctx context.Context, id int64, p models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines the interface for user lookups
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) ([]models.User, error)
}

// InMemoryRepository implements both repositories with in-memory storage.
// Products keep their insertion order.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products []models.Product
	users    []models.User
	nextID   int64
}

// NewInMemoryRepository creates a repository holding the given records
func NewInMemoryRepository(products []models.Product, users []models.User) *InMemoryRepository {
	r := &InMemoryRepository{
		products: make([]models.Product, 0, len(products)),
		users:    slices.Clone(users),
		nextID:   1,
	}
	// explicit ids first, so a zero id never takes one a later row claims
	for _, p := range products {
		if p.ID == 0 {
			continue
		}
		// a later duplicate id replaces the earlier record
		if i := r.indexOf(p.ID); i != -1 {
			r.products[i] = p
			continue
		}
		r.products = append(r.products, p)
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	for _, p := range products {
		if p.ID != 0 {
			continue
		}
		p.ID = r.nextID
		r.nextID++
		r.products = append(r.products, p)
	}
	return r
}

// GetAll returns all products
func (r *InMemoryRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.products), nil
}

// GetByID returns a product by its ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i == -1 {
		return nil, ErrProductNotFound
	}
	p := r.products[i]
	return &p, nil
}

// Create stores p. A zero id is replaced by the next free one.
func (r *InMemoryRepository) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
	} else if r.indexOf(p.ID) != -1 {
		return nil, ErrDuplicateID
	}
	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}

	r.products = append(r.products, p)
	return &p, nil
}

// Update replaces the product with the given id
func (r *InMemoryRepository) Update(ctx context.Context, id int64, p models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i == -1 {
		return nil, ErrProductNotFound
	}
	p.ID = id
	r.products[i] = p
	return &p, nil
}

// Delete removes the product with the given id
func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i == -1 {
		return ErrProductNotFound
	}
	r.products = slices.Delete(r.products, i, i+1)
	return nil
}

// FindByEmail returns the users registered with email, compared case-insensitively
func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, 1)
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) indexOf(id int64) int {
	return slices.IndexFunc(r.products, func(p models.Product) bool { return p.ID == id })
}
