package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/internal/services"
)

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindAll() ([]models.Cart, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByID(id string) (*models.Cart, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) Insert(cart *models.Cart) error {
	args := m.Called(cart)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateProducts(id string, products []models.LineItem) (*models.Cart, error) {
	args := m.Called(id, products)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) DeleteByID(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockCatalog is a mock implementation of services.ProductResolver
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Get(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

var mouse = &models.Product{ID: "mouse-1", Title: "Mouse", Code: "M1", Price: 10.0, Stock: 5, Category: "tech", Status: true}

func TestCartService_Create(t *testing.T) {
	mockRepo := new(MockCartRepository)
	service := services.NewCartService(mockRepo, new(MockCatalog))

	mockRepo.On("Insert", mock.AnythingOfType("*models.Cart")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Cart).ID = "cart-1"
	}).Return(nil).Once()

	cart, err := service.Create()
	assert.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	assert.Empty(t, cart.Products)
	assert.Zero(t, cart.Total)
	mockRepo.AssertExpectations(t)
}

func TestCartService_AddProductIncrementsExistingLine(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockCatalog := new(MockCatalog)
	service := services.NewCartService(mockRepo, mockCatalog)

	mockCatalog.On("Get", "mouse-1").Return(mouse, nil)

	// Adding 2 then 3 of the same product must end as one line of 5.
	stored := &models.Cart{ID: "cart-1", Products: []models.LineItem{}}
	mockRepo.On("FindByID", "cart-1").Return(stored, nil).Once()
	afterFirst := &models.Cart{ID: "cart-1", Products: []models.LineItem{{ProductID: "mouse-1", Quantity: 2}}}
	mockRepo.On("UpdateProducts", "cart-1", []models.LineItem{{ProductID: "mouse-1", Quantity: 2}}).Return(afterFirst, nil).Once()

	cart, err := service.AddProduct("cart-1", "mouse-1", 2)
	assert.NoError(t, err)
	assert.Len(t, cart.Products, 1)
	assert.Equal(t, 2, cart.Products[0].Quantity)

	mockRepo.On("FindByID", "cart-1").Return(afterFirst, nil).Once()
	afterSecond := &models.Cart{ID: "cart-1", Products: []models.LineItem{{ProductID: "mouse-1", Quantity: 5}}}
	mockRepo.On("UpdateProducts", "cart-1", []models.LineItem{{ProductID: "mouse-1", Quantity: 5}}).Return(afterSecond, nil).Once()

	cart, err = service.AddProduct("cart-1", "mouse-1", 3)
	assert.NoError(t, err)
	assert.Len(t, cart.Products, 1)
	assert.Equal(t, 5, cart.Products[0].Quantity)
	assert.Equal(t, 50.0, cart.Products[0].ItemTotal)
	mockRepo.AssertExpectations(t)
}

func TestCartService_AddProductInvalidQuantity(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockCatalog := new(MockCatalog)
	service := services.NewCartService(mockRepo, mockCatalog)

	_, err := service.AddProduct("cart-1", "mouse-1", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	mockCatalog.AssertNotCalled(t, "Get", mock.Anything)
	mockRepo.AssertNotCalled(t, "UpdateProducts", mock.Anything, mock.Anything)
}

func TestCartService_AddProductUnknownProduct(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockCatalog := new(MockCatalog)
	service := services.NewCartService(mockRepo, mockCatalog)

	mockCatalog.On("Get", "ghost").Return(nil, &services.NotFoundError{Resource: "product", ID: "ghost"}).Once()

	_, err := service.AddProduct("cart-1", "ghost", 1)
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Resource)
	mockRepo.AssertNotCalled(t, "UpdateProducts", mock.Anything, mock.Anything)
}

func TestCartService_RemoveProductIsIdempotent(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockCatalog := new(MockCatalog)
	service := services.NewCartService(mockRepo, mockCatalog)

	mockCatalog.On("Get", "mouse-1").Return(mouse, nil)

	stored := &models.Cart{ID: "cart-1", Products: []models.LineItem{{ProductID: "mouse-1", Quantity: 2}}}
	mockRepo.On("FindByID", "cart-1").Return(stored, nil)
	mockRepo.On("UpdateProducts", "cart-1", stored.Products).Return(stored, nil)

	// Removing a product that is not in the cart leaves it unchanged.
	cart, err := service.RemoveProduct("cart-1", "not-in-cart")
	assert.NoError(t, err)
	assert.Len(t, cart.Products, 1)
	assert.Equal(t, "mouse-1", cart.Products[0].Product.ID)
}

func TestCartService_RemoveProduct(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockCatalog := new(MockCatalog)
	service := services.NewCartService(mockRepo, mockCatalog)

	stored := &models.Cart{ID: "cart-1", Products: []models.LineItem{{ProductID: "mouse-1", Quantity: 2}}}
	emptied := &models.Cart{ID: "cart-1", Products: []models.LineItem{}}
	mockRepo.On("FindByID", "cart-1").Return(stored, nil).Once()
	mockRepo.On("UpdateProducts", "cart-1", []models.LineItem{}).Return(emptied, nil).Once()

	cart, err := service.RemoveProduct("cart-1", "mouse-1")
	assert.NoError(t, err)
	assert.Empty(t, cart.Products)
	assert.Zero(t, cart.Total)
	mockRepo.AssertExpectations(t)
}

func TestCartService_SetQuantity(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockCatalog := new(MockCatalog)
	service := services.NewCartService(mockRepo, mockCatalog)

	mockCatalog.On("Get", "mouse-1").Return(mouse, nil)

	stored := &models.Cart{ID: "cart-1", Products: []models.LineItem{{ProductID: "mouse-1", Quantity: 2}}}
	updated := &models.Cart{ID: "cart-1", Products: []models.LineItem{{ProductID: "mouse-1", Quantity: 7}}}
	mockRepo.On("FindByID", "cart-1").Return(stored, nil).Once()
	mockRepo.On("UpdateProducts", "cart-1", []models.LineItem{{ProductID: "mouse-1", Quantity: 7}}).Return(updated, nil).Once()

	cart, err := service.SetQuantity("cart-1", "mouse-1", 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, cart.Products[0].Quantity)
	mockRepo.AssertExpectations(t)
}

func TestCartService_SetQuantityBelowOne(t *testing.T) {
	mockRepo := new(MockCartRepository)
	service := services.NewCartService(mockRepo, new(MockCatalog))

	_, err := service.SetQuantity("cart-1", "mouse-1", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	// The stored quantity is untouched.
	mockRepo.AssertNotCalled(t, "UpdateProducts", mock.Anything, mock.Anything)
}

func TestCartService_SetQuantityMissingLine(t *testing.T) {
	mockRepo := new(MockCartRepository)
	service := services.NewCartService(mockRepo, new(MockCatalog))

	stored := &models.Cart{ID: "cart-1", Products: []models.LineItem{}}
	mockRepo.On("FindByID", "cart-1").Return(stored, nil).Once()

	_, err := service.SetQuantity("cart-1", "mouse-1", 3)
	assert.ErrorIs(t, err, services.ErrLineItemNotFound)
	mockRepo.AssertNotCalled(t, "UpdateProducts", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCartService_GetComputesTotals(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockCatalog := new(MockCatalog)
	service := services.NewCartService(mockRepo, mockCatalog)

	mockCatalog.On("Get", "mouse-1").Return(mouse, nil).Once()
	stored := &models.Cart{ID: "cart-1", Products: []models.LineItem{{ProductID: "mouse-1", Quantity: 2}}}
	mockRepo.On("FindByID", "cart-1").Return(stored, nil).Once()

	cart, err := service.Get("cart-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Products, 1)
	assert.Equal(t, *mouse, cart.Products[0].Product)
	assert.Equal(t, 20.0, cart.Products[0].ItemTotal)
	assert.Equal(t, 20.0, cart.Total)
	mockRepo.AssertExpectations(t)
}

func TestCartService_GetPrunesDanglingLines(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockCatalog := new(MockCatalog)
	service := services.NewCartService(mockRepo, mockCatalog)

	// One line resolves, the other points at a deleted product.
	mockCatalog.On("Get", "mouse-1").Return(mouse, nil).Once()
	mockCatalog.On("Get", "deleted-1").Return(nil, &services.NotFoundError{Resource: "product", ID: "deleted-1"}).Once()
	stored := &models.Cart{ID: "cart-1", Products: []models.LineItem{
		{ProductID: "mouse-1", Quantity: 1},
		{ProductID: "deleted-1", Quantity: 4},
	}}
	mockRepo.On("FindByID", "cart-1").Return(stored, nil).Once()

	cart, err := service.Get("cart-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Products, 1)
	assert.Equal(t, "mouse-1", cart.Products[0].Product.ID)
	assert.Equal(t, 10.0, cart.Total)

	// Pruning is a read-time policy: storage is never rewritten.
	mockRepo.AssertNotCalled(t, "UpdateProducts", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCartService_GetNotFound(t *testing.T) {
	mockRepo := new(MockCartRepository)
	service := services.NewCartService(mockRepo, new(MockCatalog))

	mockRepo.On("FindByID", "missing").Return(nil, repositories.ErrNotFound).Once()

	_, err := service.Get("missing")
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "cart", notFound.Resource)
	mockRepo.AssertExpectations(t)
}

func TestCartService_Clear(t *testing.T) {
	mockRepo := new(MockCartRepository)
	service := services.NewCartService(mockRepo, new(MockCatalog))

	stored := &models.Cart{ID: "cart-1", Products: []models.LineItem{{ProductID: "mouse-1", Quantity: 2}}}
	emptied := &models.Cart{ID: "cart-1", Products: []models.LineItem{}}
	mockRepo.On("FindByID", "cart-1").Return(stored, nil).Once()
	mockRepo.On("UpdateProducts", "cart-1", []models.LineItem{}).Return(emptied, nil).Once()

	cart, err := service.Clear("cart-1")
	assert.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID) // the cart itself persists
	assert.Empty(t, cart.Products)
	mockRepo.AssertExpectations(t)
}

func TestCartService_Delete(t *testing.T) {
	mockRepo := new(MockCartRepository)
	service := services.NewCartService(mockRepo, new(MockCatalog))

	mockRepo.On("DeleteByID", "cart-1").Return(true, nil).Once()
	removed, err := service.Delete("cart-1")
	assert.NoError(t, err)
	assert.True(t, removed)

	mockRepo.On("DeleteByID", "missing").Return(false, nil).Once()
	removed, err = service.Delete("missing")
	assert.NoError(t, err)
	assert.False(t, removed)
	mockRepo.AssertExpectations(t)
}
