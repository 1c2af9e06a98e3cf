package services_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderService(orders *MockOrderRepository, products *MockProductRepository, publisher *MockPublisher) *services.OrderService {
	return services.NewOrderService(orders, products, services.NewPricingEngine(products), publisherOf(publisher))
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:              "order-1",
		UserID:          "user-1",
		Items:           []models.LineItem{{ProductID: "p", Quantity: 2, UnitPrice: 8}},
		TotalPrice:      16,
		Status:          models.OrderStatusPending,
		DeliveryAddress: "1 Main St",
		PaymentMethod:   models.PaymentCreditCard,
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := newOrderService(orders, products, publisher)
	ctx := context.Background()

	products.On("GetByID", ctx, "p").Return(&models.Product{ID: "p", Price: 12.5}, nil)
	orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	publisher.On("Publish", mock.Anything, eventOf("order.created")).Return(nil).Once()

	order, err := service.CreateOrder(ctx, "user-1", services.CreateOrderInput{
		Items:           []models.LineItem{{ProductID: "p", Quantity: 2}},
		DeliveryAddress: "1 Main St",
		PaymentMethod:   models.PaymentCashOnDelivery,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 25.0, order.TotalPrice)
	assert.Equal(t, 12.5, order.Items[0].UnitPrice)
	orders.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrderRequiresDeliveryDetails(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	service := newOrderService(orders, products, nil)
	ctx := context.Background()
	items := []models.LineItem{{ProductID: "p", Quantity: 1}}

	_, err := service.CreateOrder(ctx, "user-1", services.CreateOrderInput{Items: items, PaymentMethod: models.PaymentWishMoney})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = service.CreateOrder(ctx, "user-1", services.CreateOrderInput{Items: items, DeliveryAddress: "x", PaymentMethod: "Bitcoin"})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = service.CreateOrder(ctx, "user-1", services.CreateOrderInput{DeliveryAddress: "x", PaymentMethod: models.PaymentWishMoney})
	assert.ErrorIs(t, err, services.ErrEmptyItemList)

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateKeepsOmittedFieldsAndReprices(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := newOrderService(orders, products, publisher)
	ctx := context.Background()

	// Price went up since the order was placed.
	products.On("GetByID", ctx, "p").Return(&models.Product{ID: "p", Price: 9}, nil)
	orders.On("GetByID", ctx, "order-1").Return(pendingOrder(), nil).Once()
	orders.On("Update", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	publisher.On("Publish", mock.Anything, eventOf("order.updated")).Return(nil).Once()
	publisher.On("Publish", mock.Anything, eventOf("order.status_changed")).Return(nil).Once()

	status := models.OrderStatusProcessing
	order, err := service.UpdateOrder(ctx, "user-1", "order-1", services.UpdateOrderInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, "1 Main St", order.DeliveryAddress)
	assert.Equal(t, models.PaymentCreditCard, order.PaymentMethod)
	assert.Equal(t, 18.0, order.TotalPrice)
	assert.Equal(t, 9.0, order.Items[0].UnitPrice)
	orders.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_UpdateReplacesItems(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	service := newOrderService(orders, products, nil)
	ctx := context.Background()

	products.On("GetByID", ctx, "q").Return(&models.Product{ID: "q", Price: 4}, nil)
	orders.On("GetByID", ctx, "order-1").Return(pendingOrder(), nil).Once()
	orders.On("Update", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()

	address := "2 Side St"
	order, err := service.UpdateOrder(ctx, "user-1", "order-1", services.UpdateOrderInput{
		Items:           []models.LineItem{{ProductID: "q", Quantity: 5}},
		DeliveryAddress: &address,
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, order.TotalPrice)
	assert.Equal(t, "2 Side St", order.DeliveryAddress)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "q", order.Items[0].ProductID)
	products.AssertNotCalled(t, "GetByID", ctx, "p")

	// An explicit empty list is rejected rather than treated as omitted.
	orders.On("GetByID", ctx, "order-1").Return(pendingOrder(), nil).Once()
	_, err = service.UpdateOrder(ctx, "user-1", "order-1", services.UpdateOrderInput{Items: []models.LineItem{}})
	assert.ErrorIs(t, err, services.ErrEmptyItemList)
}

func TestOrderService_StatusTransitions(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		allowed  bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusShipped, true},
		{models.OrderStatusDelivered, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusProcessing, false},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusPending, "Lost", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			orders := new(MockOrderRepository)
			products := new(MockProductRepository)
			service := newOrderService(orders, products, nil)
			ctx := context.Background()

			existing := pendingOrder()
			existing.Status = tt.from
			orders.On("GetByID", ctx, "order-1").Return(existing, nil).Once()
			products.On("GetByID", ctx, "p").Return(&models.Product{ID: "p", Price: 8}, nil).Maybe()
			orders.On("Update", ctx, mock.Anything).Return(nil).Maybe()

			to := tt.to
			order, err := service.UpdateOrder(ctx, "user-1", "order-1", services.UpdateOrderInput{Status: &to})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, order.Status)
				return
			}
			assert.ErrorIs(t, err, services.ErrValidation)
			orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_Ownership(t *testing.T) {
	orders := new(MockOrderRepository)
	service := newOrderService(orders, new(MockProductRepository), nil)
	ctx := context.Background()

	orders.On("GetByID", ctx, "order-1").Return(pendingOrder(), nil)

	_, err := service.GetOrder(ctx, "intruder", "order-1")
	assert.ErrorIs(t, err, services.ErrForbidden)
	err = service.DeleteOrder(ctx, "intruder", "order-1")
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = service.ListUserOrders(ctx, "intruder", "user-1", pagination.New(1, 10))
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestOrderService_DeleteAndList(t *testing.T) {
	orders := new(MockOrderRepository)
	service := newOrderService(orders, new(MockProductRepository), nil)
	ctx := context.Background()

	orders.On("GetByID", ctx, "order-1").Return(pendingOrder(), nil).Once()
	orders.On("Delete", ctx, "order-1").Return(nil).Once()
	require.NoError(t, service.DeleteOrder(ctx, "user-1", "order-1"))

	orders.On("GetByID", ctx, "order-1").Return(nil, notFound("order", "order-1")).Once()
	err := service.DeleteOrder(ctx, "user-1", "order-1")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, "Order not found", err.Error())

	orders.On("ListByUser", ctx, "user-1", 10, 10).Return([]models.Order{*pendingOrder()}, int64(11), nil).Once()
	page, err := service.ListUserOrders(ctx, "user-1", "user-1", pagination.New(2, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Len(t, page.Orders, 1)
	orders.AssertExpectations(t)
}
