package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"tienda/internal/models"
	"tienda/internal/notifier"
	"tienda/internal/repositories"
)

// ChangePublisher receives catalog mutation events. Publishing is
// fire-and-forget: implementations must not block the mutating caller.
type ChangePublisher interface {
	Broadcast(notifier.Event)
}

// ListQuery describes a product listing request.
type ListQuery struct {
	// Query is "available" (or "disponible") for an availability filter,
	// anything else matches the category. Empty means no filter.
	Query string
	// Sort is "asc" or "desc" by price; empty keeps storage order.
	Sort string
	// Page is 1-indexed; non-positive values fall back to 1.
	Page int
	// Limit is the page size; non-positive values fall back to 10.
	Limit int
}

const defaultPageSize = 10

// ProductPage is one page of a product listing with pagination metadata.
type ProductPage struct {
	Payload     []models.Product `json:"payload"`
	TotalDocs   int64            `json:"totalDocs"`
	Limit       int              `json:"limit"`
	Page        int              `json:"page"`
	TotalPages  int              `json:"totalPages"`
	HasPrevPage bool             `json:"hasPrevPage"`
	HasNextPage bool             `json:"hasNextPage"`
	PrevPage    int              `json:"prevPage"`
	NextPage    int              `json:"nextPage"`
}

// ProductService handles business logic related to the catalog: CRUD,
// paginated listing, validation and the code uniqueness rule. Mutations
// are published to the change feed as a side effect.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher ChangePublisher
	validate  *validator.Validate
}

// NewProductService creates a new ProductService. The publisher may be nil
// when no change feed is wanted.
func NewProductService(repo repositories.ProductRepository, publisher ChangePublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
	}
}

func (s *ProductService) publish(e notifier.Event) {
	if s.publisher != nil {
		s.publisher.Broadcast(e)
	}
}

// GetAll retrieves the whole catalog in storage order, for the view layer.
func (s *ProductService) GetAll() ([]models.Product, error) {
	return s.repo.FindAll(repositories.ProductFilter{}, repositories.SortNone, 0, 0)
}

// List retrieves one page of products matching the query.
func (s *ProductService) List(q ListQuery) (*ProductPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	filter := repositories.ProductFilter{}
	switch strings.ToLower(q.Query) {
	case "":
	case "available", "disponible":
		filter.AvailableOnly = true
	default:
		filter.Category = q.Query
	}

	order := repositories.SortNone
	switch q.Sort {
	case "asc":
		order = repositories.SortPriceAsc
	case "desc":
		order = repositories.SortPriceDesc
	}

	total, err := s.repo.Count(filter)
	if err != nil {
		return nil, err
	}

	skip := int64(page-1) * int64(limit)
	items, err := s.repo.FindAll(filter, order, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	result := &ProductPage{
		Payload:     items,
		TotalDocs:   total,
		Limit:       limit,
		Page:        page,
		TotalPages:  totalPages,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
	}
	if result.HasPrevPage {
		result.PrevPage = page - 1
	}
	if result.HasNextPage {
		result.NextPage = page + 1
	}
	return result, nil
}

// Get retrieves a single product by its ID.
func (s *ProductService) Get(id string) (*models.Product, error) {
	product, err := s.repo.FindByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &NotFoundError{Resource: "product", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create validates and stores a new product. Status defaults to available
// when the request omits it.
func (s *ProductService) Create(req models.CreateProductRequest) (*models.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if _, err := s.repo.FindByCode(req.Code); err == nil {
		return nil, &DuplicateCodeError{Code: req.Code}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	status := true
	if req.Status != nil {
		status = *req.Status
	}
	thumbnails := req.Thumbnails
	if thumbnails == nil {
		thumbnails = []models.Thumbnail{}
	}

	product := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Status:      status,
		Thumbnails:  thumbnails,
	}

	if err := s.repo.Insert(product); err != nil {
		// The store enforces uniqueness too; the pre-check above only
		// narrows the race window.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, &DuplicateCodeError{Code: req.Code}
		}
		return nil, err
	}

	s.publish(notifier.Event{Type: notifier.ProductAdded, Product: product})
	return product, nil
}

// Update applies a partial update. Only supplied fields are replaced, with
// the same constraints as Create on each.
func (s *ProductService) Update(id string, req models.UpdateProductRequest) (*models.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if req.Code != nil {
		if existing, err := s.repo.FindByCode(*req.Code); err == nil && existing.ID != id {
			return nil, &DuplicateCodeError{Code: *req.Code}
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	product, err := s.repo.UpdateByID(id, req)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &NotFoundError{Resource: "product", ID: id}
	}
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return nil, &DuplicateCodeError{Code: *req.Code}
	}
	if err != nil {
		return nil, err
	}

	s.publish(notifier.Event{Type: notifier.ProductUpdated, Product: product})
	return product, nil
}

// Delete removes a product, reporting whether a record was removed.
func (s *ProductService) Delete(id string) (bool, error) {
	removed, err := s.repo.DeleteByID(id)
	if err != nil {
		return false, err
	}
	if removed {
		s.publish(notifier.Event{Type: notifier.ProductDeleted, ProductID: id})
	}
	return removed, nil
}

// AddThumbnails appends image references to a product.
func (s *ProductService) AddThumbnails(id string, thumbnails []models.Thumbnail) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	merged := append(product.Thumbnails, thumbnails...)
	updated, err := s.repo.UpdateByID(id, models.UpdateProductRequest{Thumbnails: merged})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &NotFoundError{Resource: "product", ID: id}
	}
	if err != nil {
		return nil, err
	}

	s.publish(notifier.Event{Type: notifier.ProductUpdated, Product: updated})
	return updated, nil
}
