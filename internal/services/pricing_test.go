package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPricingEngine_EmptyItemList(t *testing.T) {
	mockRepo := new(MockProductRepository)
	engine := services.NewPricingEngine(mockRepo)

	for _, items := range [][]models.LineItem{nil, {}} {
		quote, err := engine.Price(context.Background(), items)
		assert.Nil(t, quote)
		assert.ErrorIs(t, err, services.ErrEmptyItemList)
		assert.ErrorIs(t, err, services.ErrValidation)
	}
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestPricingEngine_InvalidLineItemFailsFast(t *testing.T) {
	tests := []struct {
		name  string
		items []models.LineItem
	}{
		{"missing product", []models.LineItem{{ProductID: "", Quantity: 1}}},
		{"zero quantity", []models.LineItem{{ProductID: "p1", Quantity: 0}}},
		{"negative quantity", []models.LineItem{{ProductID: "p1", Quantity: -2}}},
		{"bad item first", []models.LineItem{{ProductID: "p1", Quantity: 0}, {ProductID: "p2", Quantity: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			engine := services.NewPricingEngine(mockRepo)

			_, err := engine.Price(context.Background(), tt.items)
			assert.ErrorIs(t, err, services.ErrInvalidLineItem)
			assert.Equal(t, "Invalid item details", err.Error())
			mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestPricingEngine_StopsAtFirstBadItem(t *testing.T) {
	mockRepo := new(MockProductRepository)
	engine := services.NewPricingEngine(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1", Price: 10}, nil).Once()

	_, err := engine.Price(ctx, []models.LineItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 0},
		{ProductID: "p3", Quantity: 1},
	})
	assert.ErrorIs(t, err, services.ErrInvalidLineItem)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "GetByID", ctx, "p3")
}

func TestPricingEngine_ProductNotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	engine := services.NewPricingEngine(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "ghost").Return(nil, notFound("product", "ghost")).Once()

	_, err := engine.Price(ctx, []models.LineItem{{ProductID: "ghost", Quantity: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNotFound)

	var pnf *services.ProductNotFoundError
	require.True(t, errors.As(err, &pnf))
	assert.Equal(t, "ghost", pnf.ProductID)
	assert.Equal(t, "Product with ID ghost not found", err.Error())
	mockRepo.AssertExpectations(t)
}

func TestPricingEngine_StoreFailureIsInternal(t *testing.T) {
	mockRepo := new(MockProductRepository)
	engine := services.NewPricingEngine(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "p1").Return(nil, errors.New("connection reset")).Once()

	_, err := engine.Price(ctx, []models.LineItem{{ProductID: "p1", Quantity: 1}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrNotFound)
	assert.NotErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPricingEngine_Total(t *testing.T) {
	mockRepo := new(MockProductRepository)
	engine := services.NewPricingEngine(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1", Price: 10}, nil)
	mockRepo.On("GetByID", ctx, "p2").Return(&models.Product{ID: "p2", Price: 0.1}, nil)

	items := []models.LineItem{{ProductID: "p1", Quantity: 3}, {ProductID: "p2", Quantity: 3}}
	quote, err := engine.Price(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 30.3, quote.Total)
	assert.Equal(t, []float64{10, 0.1}, quote.Prices)
	assert.Equal(t, items, quote.Items)

	quote, err = engine.Price(ctx, []models.LineItem{{ProductID: "p2", Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, 0.3, quote.Total)
}
