package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tienda/internal/models"
	"tienda/internal/repositories"
)

func seedProduct(title, code string, price float64, category string, status bool) *models.Product {
	return &models.Product{
		Title:       title,
		Description: "test product",
		Code:        code,
		Price:       price,
		Stock:       5,
		Category:    category,
		Status:      status,
		Thumbnails:  []models.Thumbnail{},
	}
}

func TestFileProductRepository_InsertAndFind(t *testing.T) {
	dir := t.TempDir()
	repo, err := repositories.NewFileProductRepository(dir)
	assert.NoError(t, err)

	product := seedProduct("Mouse", "M1", 10, "tech", true)
	assert.NoError(t, repo.Insert(product))
	assert.NotEmpty(t, product.ID) // UUID generated on insert

	found, err := repo.FindByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, product, found)

	byCode, err := repo.FindByCode("M1")
	assert.NoError(t, err)
	assert.Equal(t, product.ID, byCode.ID)

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestFileProductRepository_DuplicateCode(t *testing.T) {
	repo, err := repositories.NewFileProductRepository(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, repo.Insert(seedProduct("Mouse", "M1", 10, "tech", true)))
	err = repo.Insert(seedProduct("Other mouse", "M1", 12, "tech", true))
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

	n, err := repo.Count(repositories.ProductFilter{})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFileProductRepository_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	repo, err := repositories.NewFileProductRepository(dir)
	assert.NoError(t, err)

	product := seedProduct("Keyboard", "K1", 75, "tech", true)
	assert.NoError(t, repo.Insert(product))

	reopened, err := repositories.NewFileProductRepository(dir)
	assert.NoError(t, err)
	found, err := reopened.FindByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Keyboard", found.Title)
}

func TestFileProductRepository_UpdateByIDIsPartial(t *testing.T) {
	repo, err := repositories.NewFileProductRepository(t.TempDir())
	assert.NoError(t, err)

	product := seedProduct("Mouse", "M1", 10, "tech", true)
	assert.NoError(t, repo.Insert(product))

	newPrice := 12.5
	updated, err := repo.UpdateByID(product.ID, models.UpdateProductRequest{Price: &newPrice})
	assert.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, "Mouse", updated.Title) // untouched fields survive
	assert.Equal(t, "M1", updated.Code)

	_, err = repo.UpdateByID("missing", models.UpdateProductRequest{Price: &newPrice})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestFileProductRepository_UpdateCodeCollision(t *testing.T) {
	repo, err := repositories.NewFileProductRepository(t.TempDir())
	assert.NoError(t, err)

	first := seedProduct("Mouse", "M1", 10, "tech", true)
	second := seedProduct("Keyboard", "K1", 75, "tech", true)
	assert.NoError(t, repo.Insert(first))
	assert.NoError(t, repo.Insert(second))

	collide := "M1"
	_, err = repo.UpdateByID(second.ID, models.UpdateProductRequest{Code: &collide})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

	// Setting a product's own code back is fine.
	keep := "K1"
	updated, err := repo.UpdateByID(second.ID, models.UpdateProductRequest{Code: &keep})
	assert.NoError(t, err)
	assert.Equal(t, "K1", updated.Code)
}

func TestFileProductRepository_Delete(t *testing.T) {
	repo, err := repositories.NewFileProductRepository(t.TempDir())
	assert.NoError(t, err)

	product := seedProduct("Mouse", "M1", 10, "tech", true)
	assert.NoError(t, repo.Insert(product))

	removed, err := repo.DeleteByID(product.ID)
	assert.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteByID(product.ID)
	assert.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.FindByID(product.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestFileProductRepository_FilterSortAndPage(t *testing.T) {
	repo, err := repositories.NewFileProductRepository(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, repo.Insert(seedProduct("Mouse", "M1", 25, "tech", true)))
	assert.NoError(t, repo.Insert(seedProduct("Mug", "G1", 8, "kitchen", true)))
	assert.NoError(t, repo.Insert(seedProduct("Keyboard", "K1", 75, "tech", false)))
	assert.NoError(t, repo.Insert(seedProduct("Pan", "G2", 30, "Kitchenware", true)))

	// Availability filter.
	available, err := repo.FindAll(repositories.ProductFilter{AvailableOnly: true}, repositories.SortNone, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, available, 3)

	// Category filter is a case-insensitive substring match.
	kitchen, err := repo.FindAll(repositories.ProductFilter{Category: "KITCHEN"}, repositories.SortNone, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, kitchen, 2)

	// Price sort, both directions.
	asc, err := repo.FindAll(repositories.ProductFilter{}, repositories.SortPriceAsc, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, []float64{8, 25, 30, 75}, []float64{asc[0].Price, asc[1].Price, asc[2].Price, asc[3].Price})

	desc, err := repo.FindAll(repositories.ProductFilter{}, repositories.SortPriceDesc, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 75.0, desc[0].Price)

	// Skip and limit.
	paged, err := repo.FindAll(repositories.ProductFilter{}, repositories.SortPriceAsc, 1, 2)
	assert.NoError(t, err)
	assert.Len(t, paged, 2)
	assert.Equal(t, 25.0, paged[0].Price)

	beyond, err := repo.FindAll(repositories.ProductFilter{}, repositories.SortNone, 10, 2)
	assert.NoError(t, err)
	assert.Empty(t, beyond)

	n, err := repo.Count(repositories.ProductFilter{Category: "tech"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestFileCartRepository_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	repo, err := repositories.NewFileCartRepository(dir)
	assert.NoError(t, err)

	cart := &models.Cart{}
	assert.NoError(t, repo.Insert(cart))
	assert.NotEmpty(t, cart.ID)
	assert.NotNil(t, cart.Products)

	updated, err := repo.UpdateProducts(cart.ID, []models.LineItem{{ProductID: "p-1", Quantity: 2}})
	assert.NoError(t, err)
	assert.Len(t, updated.Products, 1)

	// Line items survive a reopen.
	reopened, err := repositories.NewFileCartRepository(dir)
	assert.NoError(t, err)
	found, err := reopened.FindByID(cart.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, found.Products[0].Quantity)

	all, err := reopened.FindAll()
	assert.NoError(t, err)
	assert.Len(t, all, 1)

	n, err := reopened.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	removed, err := reopened.DeleteByID(cart.ID)
	assert.NoError(t, err)
	assert.True(t, removed)

	_, err = reopened.FindByID(cart.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestFileCartRepository_UpdateMissingCart(t *testing.T) {
	repo, err := repositories.NewFileCartRepository(t.TempDir())
	assert.NoError(t, err)

	_, err = repo.UpdateProducts("missing", []models.LineItem{})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
