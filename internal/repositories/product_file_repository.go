package repositories

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tienda/internal/models"
)

// FileProductRepository is a flat-file implementation of ProductRepository.
// The whole catalog lives in a single JSON file, held in memory and
// re-serialized on every mutation. Concurrent writers are serialized by the
// mutex within this process only.
type FileProductRepository struct {
	path     string
	mu       sync.RWMutex
	products []models.Product
}

// NewFileProductRepository opens (or creates) products.json under dir.
func NewFileProductRepository(dir string) (*FileProductRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storeErr("create data dir", err)
	}
	r := &FileProductRepository{path: filepath.Join(dir, "products.json")}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileProductRepository) load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.products = []models.Product{}
		return nil
	}
	if err != nil {
		return storeErr("read products file", err)
	}
	if err := json.Unmarshal(data, &r.products); err != nil {
		return storeErr("decode products file", err)
	}
	return nil
}

// persist rewrites the file through a temp file and rename so a failed
// write never leaves a truncated catalog. Callers hold the write lock.
func (r *FileProductRepository) persist() error {
	data, err := json.MarshalIndent(r.products, "", "  ")
	if err != nil {
		return storeErr("encode products file", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return storeErr("write products file", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return storeErr("replace products file", err)
	}
	return nil
}

func matchProduct(p models.Product, filter ProductFilter) bool {
	if filter.AvailableOnly && !p.Status {
		return false
	}
	if filter.Category != "" &&
		!strings.Contains(strings.ToLower(p.Category), strings.ToLower(filter.Category)) {
		return false
	}
	return true
}

// FindAll returns matching products in storage order, price-sorted when
// requested, with skip/limit applied after sorting.
func (r *FileProductRepository) FindAll(filter ProductFilter, order ProductSort, skip, limit int64) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matchProduct(p, filter) {
			matched = append(matched, p)
		}
	}

	switch order {
	case SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	}

	if skip >= int64(len(matched)) {
		return []models.Product{}, nil
	}
	matched = matched[skip:]
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

// FindByID returns a product by its ID.
func (r *FileProductRepository) FindByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrNotFound
}

// FindByCode returns a product by its unique code.
func (r *FileProductRepository) FindByCode(code string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Code == code {
			product := p
			return &product, nil
		}
	}
	return nil, ErrNotFound
}

// Insert adds a new product, generating a UUID when no id is set.
func (r *FileProductRepository) Insert(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for _, p := range r.products {
		if p.Code == product.Code {
			return ErrDuplicateKey
		}
	}
	r.products = append(r.products, *product)
	if err := r.persist(); err != nil {
		r.products = r.products[:len(r.products)-1]
		return err
	}
	return nil
}

// UpdateByID applies the supplied fields of patch to an existing product.
func (r *FileProductRepository) UpdateByID(id string, patch models.UpdateProductRequest) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID != id {
			continue
		}
		updated := r.products[i]
		applyProductPatch(&updated, patch)
		if patch.Code != nil {
			for j := range r.products {
				if j != i && r.products[j].Code == updated.Code {
					return nil, ErrDuplicateKey
				}
			}
		}
		previous := r.products[i]
		r.products[i] = updated
		if err := r.persist(); err != nil {
			r.products[i] = previous
			return nil, err
		}
		result := updated
		return &result, nil
	}
	return nil, ErrNotFound
}

// DeleteByID removes a product, reporting whether a record existed.
func (r *FileProductRepository) DeleteByID(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID != id {
			continue
		}
		removed := r.products[i]
		r.products = append(r.products[:i], r.products[i+1:]...)
		if err := r.persist(); err != nil {
			r.products = append(r.products[:i], append([]models.Product{removed}, r.products[i:]...)...)
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Count returns the number of products matching filter.
func (r *FileProductRepository) Count(filter ProductFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.products {
		if matchProduct(p, filter) {
			n++
		}
	}
	return n, nil
}
