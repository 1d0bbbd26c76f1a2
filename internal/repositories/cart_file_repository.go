package repositories

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"tienda/internal/models"
)

// FileCartRepository is a flat-file implementation of CartRepository,
// storing every cart in a single carts.json under the data directory.
type FileCartRepository struct {
	path  string
	mu    sync.RWMutex
	carts []models.Cart
}

// NewFileCartRepository opens (or creates) carts.json under dir.
func NewFileCartRepository(dir string) (*FileCartRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storeErr("create data dir", err)
	}
	r := &FileCartRepository{path: filepath.Join(dir, "carts.json")}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileCartRepository) load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.carts = []models.Cart{}
		return nil
	}
	if err != nil {
		return storeErr("read carts file", err)
	}
	if err := json.Unmarshal(data, &r.carts); err != nil {
		return storeErr("decode carts file", err)
	}
	return nil
}

// persist rewrites the file via temp file and rename. Callers hold the
// write lock.
func (r *FileCartRepository) persist() error {
	data, err := json.MarshalIndent(r.carts, "", "  ")
	if err != nil {
		return storeErr("encode carts file", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return storeErr("write carts file", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return storeErr("replace carts file", err)
	}
	return nil
}

// FindAll returns all carts in storage order.
func (r *FileCartRepository) FindAll() ([]models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	carts := make([]models.Cart, len(r.carts))
	copy(carts, r.carts)
	return carts, nil
}

// FindByID returns a cart by its ID.
func (r *FileCartRepository) FindByID(id string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.carts {
		if c.ID == id {
			cart := c
			return &cart, nil
		}
	}
	return nil, ErrNotFound
}

// Insert adds a new cart, generating a UUID when no id is set.
func (r *FileCartRepository) Insert(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if cart.Products == nil {
		cart.Products = []models.LineItem{}
	}
	r.carts = append(r.carts, *cart)
	if err := r.persist(); err != nil {
		r.carts = r.carts[:len(r.carts)-1]
		return err
	}
	return nil
}

// UpdateProducts replaces a cart's line items.
func (r *FileCartRepository) UpdateProducts(id string, products []models.LineItem) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.carts {
		if r.carts[i].ID != id {
			continue
		}
		if products == nil {
			products = []models.LineItem{}
		}
		previous := r.carts[i].Products
		r.carts[i].Products = products
		if err := r.persist(); err != nil {
			r.carts[i].Products = previous
			return nil, err
		}
		cart := r.carts[i]
		return &cart, nil
	}
	return nil, ErrNotFound
}

// DeleteByID removes a cart, reporting whether a record existed.
func (r *FileCartRepository) DeleteByID(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.carts {
		if r.carts[i].ID != id {
			continue
		}
		removed := r.carts[i]
		r.carts = append(r.carts[:i], r.carts[i+1:]...)
		if err := r.persist(); err != nil {
			r.carts = append(r.carts[:i], append([]models.Cart{removed}, r.carts[i:]...)...)
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Count returns the number of carts.
func (r *FileCartRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.carts)), nil
}
