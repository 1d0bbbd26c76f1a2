package repositories

import (
	"tienda/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	FindAll() ([]models.Cart, error)
	FindByID(id string) (*models.Cart, error)
	// Insert stores a new cart, generating its id when empty.
	Insert(cart *models.Cart) error
	// UpdateProducts replaces the cart's line items and returns the
	// updated record.
	UpdateProducts(id string, products []models.LineItem) (*models.Cart, error)
	// DeleteByID reports whether a record was removed.
	DeleteByID(id string) (bool, error)
	Count() (int64, error)
}
