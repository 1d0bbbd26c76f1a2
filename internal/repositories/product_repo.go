package repositories

import (
	"tienda/internal/models"
)

// ProductFilter narrows a product listing. AvailableOnly selects products
// with status true; a non-empty Category matches as a case-insensitive
// substring. The zero value matches everything.
type ProductFilter struct {
	AvailableOnly bool
	Category      string
}

// ProductSort orders a product listing by price. SortNone preserves the
// natural storage order.
type ProductSort int

const (
	SortNone ProductSort = iota
	SortPriceAsc
	SortPriceDesc
)

// ProductRepository defines the interface for product data access.
// Ids are opaque strings; their format belongs to the backend (UUID in the
// file store, ObjectID hex in the document store).
type ProductRepository interface {
	// FindAll returns the products matching filter in the given order,
	// skipping the first skip records. A limit of 0 means no limit.
	FindAll(filter ProductFilter, sort ProductSort, skip, limit int64) ([]models.Product, error)
	FindByID(id string) (*models.Product, error)
	FindByCode(code string) (*models.Product, error)
	// Insert stores a new product, generating its id when empty.
	Insert(product *models.Product) error
	// UpdateByID applies the non-nil fields of patch and returns the
	// updated record.
	UpdateByID(id string, patch models.UpdateProductRequest) (*models.Product, error)
	// DeleteByID reports whether a record was removed.
	DeleteByID(id string) (bool, error)
	Count(filter ProductFilter) (int64, error)
}

// applyProductPatch copies the supplied fields of patch onto p.
func applyProductPatch(p *models.Product, patch models.UpdateProductRequest) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Code != nil {
		p.Code = *patch.Code
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Thumbnails != nil {
		p.Thumbnails = patch.Thumbnails
	}
}
