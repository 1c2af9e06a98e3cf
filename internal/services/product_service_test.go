package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductService(repo *MockProductRepository, reviews *MockReviewRepository, index *MockIndexer, publisher *MockPublisher) *services.ProductService {
	var indexer services.ProductIndexer
	if index != nil {
		indexer = index
	}
	return services.NewProductService(repo, reviews, indexer, publisherOf(publisher))
}

func TestProductService_GetProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, nil, nil)
	ctx := context.Background()

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Price: 10.0, Category: models.CategoryCars}

	mockRepo.On("GetByID", ctx, "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProduct(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", ctx, "99").Return(nil, notFound("product", "99")).Once()
	product, err = service.GetProduct(ctx, "99")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Nil(t, product)
	assert.Equal(t, "Product not found", err.Error())
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	index := new(MockIndexer)
	publisher := new(MockPublisher)
	service := newProductService(mockRepo, nil, index, publisher)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = "p-1"
	}).Return(nil).Once()
	index.On("Index", ctx, mock.MatchedBy(func(p models.Product) bool { return p.ID == "p-1" })).Return(nil).Once()
	publisher.On("Publish", mock.Anything, eventOf("product.created")).Return(nil).Once()

	product, err := service.CreateProduct(ctx, services.ProductInput{
		Name:     "  Tesla  ",
		Price:    35000,
		Category: models.CategoryCars,
	})
	require.NoError(t, err)
	assert.Equal(t, "Tesla", product.Name)
	assert.NotNil(t, product.Pictures)
	assert.Empty(t, product.Pictures)

	mockRepo.AssertExpectations(t)
	index.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_CreateProductValidation(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, nil, nil)
	ctx := context.Background()

	tests := map[string]services.ProductInput{
		"missing name":     {Price: 1, Category: models.CategoryPets},
		"negative price":   {Name: "Cat", Price: -1, Category: models.CategoryPets},
		"unknown category": {Name: "Cat", Price: 1, Category: "plants"},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := service.CreateProduct(ctx, in)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_CreateProductIndexFailureIsIgnored(t *testing.T) {
	mockRepo := new(MockProductRepository)
	index := new(MockIndexer)
	service := newProductService(mockRepo, nil, index, nil)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	index.On("Index", ctx, mock.Anything).Return(errors.New("cluster down")).Once()

	_, err := service.CreateProduct(ctx, services.ProductInput{Name: "Phone", Price: 300, Category: models.CategoryDevices})
	assert.NoError(t, err)
	index.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, nil, nil)
	ctx := context.Background()

	existing := &models.Product{
		ID:          "1",
		Name:        "Product A",
		Description: "old",
		Price:       10,
		Category:    models.CategoryDevices,
		Pictures:    []string{"a.png"},
	}
	mockRepo.On("GetByID", ctx, "1").Return(existing, nil).Once()
	mockRepo.On("Update", ctx, existing).Return(nil).Once()

	price := 12.0
	product, err := service.UpdateProduct(ctx, "1", services.UpdateProductInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 12.0, product.Price)
	assert.Equal(t, "Product A", product.Name)
	assert.Equal(t, "old", product.Description)
	assert.Equal(t, []string{"a.png"}, product.Pictures)

	negative := -5.0
	mockRepo.On("GetByID", ctx, "1").Return(&models.Product{ID: "1", Name: "A", Category: models.CategoryDevices}, nil).Once()
	_, err = service.UpdateProduct(ctx, "1", services.UpdateProductInput{Price: &negative})
	assert.ErrorIs(t, err, services.ErrValidation)

	mockRepo.On("GetByID", ctx, "99").Return(nil, notFound("product", "99")).Once()
	_, err = service.UpdateProduct(ctx, "99", services.UpdateProductInput{Price: &price})
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	index := new(MockIndexer)
	service := newProductService(mockRepo, nil, index, nil)
	ctx := context.Background()

	existing := &models.Product{ID: "1", Name: "Product A"}
	mockRepo.On("GetByID", ctx, "1").Return(existing, nil).Once()
	mockRepo.On("Delete", ctx, "1").Return(nil).Once()
	index.On("Remove", ctx, "1").Return(nil).Once()

	deleted, err := service.DeleteProduct(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, existing, deleted)

	mockRepo.On("GetByID", ctx, "99").Return(nil, notFound("product", "99")).Once()
	_, err = service.DeleteProduct(ctx, "99")
	assert.ErrorIs(t, err, services.ErrNotFound)

	mockRepo.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestProductService_SearchByName(t *testing.T) {
	ctx := context.Background()
	page := pagination.New(2, 5)
	found := []models.Product{{ID: "1", Name: "Red Car"}}

	t.Run("uses index", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		index := new(MockIndexer)
		service := newProductService(mockRepo, nil, index, nil)

		index.On("SearchByName", ctx, "car", 5, 5).Return(found, int64(6), nil).Once()

		result, err := service.SearchByName(ctx, "car", page)
		require.NoError(t, err)
		assert.Equal(t, found, result.Products)
		assert.Equal(t, int64(6), result.Total)
		assert.Equal(t, page, result.Page)
		mockRepo.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("falls back to store", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		index := new(MockIndexer)
		service := newProductService(mockRepo, nil, index, nil)

		index.On("SearchByName", ctx, "car", 5, 5).Return(nil, int64(0), errors.New("cluster down")).Once()
		mockRepo.On("SearchByName", ctx, "car", 5, 5).Return(found, int64(1), nil).Once()

		result, err := service.SearchByName(ctx, "car", page)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		mockRepo.AssertExpectations(t)
	})

	t.Run("store only", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := newProductService(mockRepo, nil, nil, nil)

		mockRepo.On("SearchByName", ctx, "car", 5, 5).Return(nil, int64(0), errors.New("connection reset")).Once()

		_, err := service.SearchByName(ctx, "car", page)
		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestProductService_SearchByPrice(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, nil, nil)
	ctx := context.Background()

	low, high := 50.0, 10.0
	_, err := service.SearchByPrice(ctx, repositories.PriceRange{Min: &low, Max: &high}, pagination.New(1, 10))
	assert.ErrorIs(t, err, services.ErrValidation)

	prices := repositories.PriceRange{Min: &high, Max: &low}
	mockRepo.On("SearchByPrice", ctx, prices, 0, 10).Return([]models.Product{{ID: "1", Price: 20}}, int64(1), nil).Once()
	result, err := service.SearchByPrice(ctx, prices, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, result.Products, 1)
	mockRepo.AssertExpectations(t)
}

func TestProductService_LatestProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, nil, nil, nil)
	ctx := context.Background()

	mockRepo.On("Latest", ctx, services.LatestProductsLimit).Return([]models.Product{{ID: "2"}, {ID: "1"}}, nil).Once()

	products, err := service.LatestProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	mockRepo.AssertExpectations(t)
}

func TestProductService_RecomputeRatings(t *testing.T) {
	mockRepo := new(MockProductRepository)
	reviews := new(MockReviewRepository)
	service := newProductService(mockRepo, reviews, nil, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "1").Return(&models.Product{ID: "1", Name: "A", NumberOfReviews: 9}, nil).Once()
	reviews.On("Summarize", ctx, "1").Return(models.RatingSummary{Count: 3, Sum: 12}, nil).Once()
	mockRepo.On("Update", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.NumberOfReviews == 3 && p.SumOfRatings == 12
	})).Return(nil).Once()

	product, err := service.RecomputeRatings(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, product.AverageRating())

	mockRepo.On("GetByID", ctx, "2").Return(&models.Product{ID: "2"}, nil).Once()
	reviews.On("Summarize", ctx, "2").Return(models.RatingSummary{}, errors.New("aggregate failed")).Once()
	_, err = service.RecomputeRatings(ctx, "2")
	assert.ErrorContains(t, err, "aggregate failed")

	mockRepo.AssertExpectations(t)
	reviews.AssertExpectations(t)
}
