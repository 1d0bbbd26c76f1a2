package services

import (
	"errors"

	"tienda/internal/models"
	"tienda/internal/repositories"
)

// ProductResolver is the slice of the catalog the cart logic needs:
// resolving a product reference to current product data.
type ProductResolver interface {
	Get(id string) (*models.Product, error)
}

// CartService handles cart lifecycle and line-item mutations. Product
// existence is checked at mutation time through the catalog; it is not
// re-validated afterwards, so a line may go stale when its product is
// deleted. Stale lines are pruned from read results, never from storage.
type CartService struct {
	repo    repositories.CartRepository
	catalog ProductResolver
}

// NewCartService creates a new CartService.
func NewCartService(repo repositories.CartRepository, catalog ProductResolver) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
	}
}

// buildView resolves each line against the catalog and derives the totals.
// Lines whose product no longer exists are dropped from the view.
func (s *CartService) buildView(cart *models.Cart) (*models.CartView, error) {
	view := &models.CartView{
		ID:       cart.ID,
		Products: []models.CartLine{},
	}
	for _, item := range cart.Products {
		product, err := s.catalog.Get(item.ProductID)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		itemTotal := models.LineTotal(product.Price, item.Quantity)
		view.Products = append(view.Products, models.CartLine{
			Product:   *product,
			Quantity:  item.Quantity,
			ItemTotal: itemTotal,
		})
		view.Total += itemTotal
	}
	return view, nil
}

// GetAll retrieves all carts with their lines resolved.
func (s *CartService) GetAll() ([]models.CartView, error) {
	carts, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	views := make([]models.CartView, 0, len(carts))
	for i := range carts {
		view, err := s.buildView(&carts[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Get retrieves a single cart by its ID.
func (s *CartService) Get(id string) (*models.CartView, error) {
	cart, err := s.findCart(id)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart)
}

func (s *CartService) findCart(id string) (*models.Cart, error) {
	cart, err := s.repo.FindByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &NotFoundError{Resource: "cart", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// Create stores a new empty cart.
func (s *CartService) Create() (*models.CartView, error) {
	cart := &models.Cart{Products: []models.LineItem{}}
	if err := s.repo.Insert(cart); err != nil {
		return nil, err
	}
	return &models.CartView{ID: cart.ID, Products: []models.CartLine{}}, nil
}

// AddProduct adds quantity units of a product to a cart. A product already
// in the cart gets its quantity incremented; at most one line exists per
// product.
func (s *CartService) AddProduct(cartID, productID string, quantity int) (*models.CartView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.catalog.Get(productID); err != nil {
		return nil, err
	}
	cart, err := s.findCart(cartID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Products {
		if cart.Products[i].ProductID == productID {
			cart.Products[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Products = append(cart.Products, models.LineItem{ProductID: productID, Quantity: quantity})
	}

	return s.saveProducts(cartID, cart.Products)
}

// RemoveProduct removes a product's line from a cart. Removing a product
// that is not in the cart is not an error.
func (s *CartService) RemoveProduct(cartID, productID string) (*models.CartView, error) {
	cart, err := s.findCart(cartID)
	if err != nil {
		return nil, err
	}

	remaining := make([]models.LineItem, 0, len(cart.Products))
	for _, item := range cart.Products {
		if item.ProductID != productID {
			remaining = append(remaining, item)
		}
	}

	return s.saveProducts(cartID, remaining)
}

// SetQuantity replaces the quantity of an existing line. It never creates
// new lines; use AddProduct for that.
func (s *CartService) SetQuantity(cartID, productID string, quantity int) (*models.CartView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.findCart(cartID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Products {
		if cart.Products[i].ProductID == productID {
			cart.Products[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrLineItemNotFound
	}

	return s.saveProducts(cartID, cart.Products)
}

// Clear empties a cart's product list. The cart itself persists.
func (s *CartService) Clear(cartID string) (*models.CartView, error) {
	if _, err := s.findCart(cartID); err != nil {
		return nil, err
	}
	return s.saveProducts(cartID, []models.LineItem{})
}

// Delete removes a cart entirely, reporting whether a record was removed.
func (s *CartService) Delete(cartID string) (bool, error) {
	return s.repo.DeleteByID(cartID)
}

func (s *CartService) saveProducts(cartID string, products []models.LineItem) (*models.CartView, error) {
	updated, err := s.repo.UpdateProducts(cartID, products)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &NotFoundError{Resource: "cart", ID: cartID}
	}
	if err != nil {
		return nil, err
	}
	return s.buildView(updated)
}
