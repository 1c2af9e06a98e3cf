package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"
)

// CreateOrderInput describes a new order.
type CreateOrderInput struct {
	Items           []models.LineItem
	DeliveryAddress string
	PaymentMethod   models.PaymentMethod
}

// UpdateOrderInput carries a partial order update. Nil fields keep their stored value.
type UpdateOrderInput struct {
	Items           []models.LineItem // replaces the items when non-nil
	Status          *models.OrderStatus
	DeliveryAddress *string
	PaymentMethod   *models.PaymentMethod
}

// OrderPage is one page of a user's orders.
type OrderPage struct {
	Orders []models.Order
	Total  int64
	Page   pagination.Page
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orders   repositories.OrderRepository
	products ProductLookup
	pricing  *PricingEngine
	events   events.Publisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repositories.OrderRepository, products ProductLookup, pricing *PricingEngine, publisher events.Publisher) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		pricing:  pricing,
		events:   publisher,
	}
}

var errOrderNotFound = notFoundError("Order not found")

func validateDelivery(address string, method models.PaymentMethod) error {
	if strings.TrimSpace(address) == "" {
		return validationError("Delivery address is required")
	}
	if !method.Valid() {
		return validationError("Payment method must be one of Credit Card, Wish Money, Cash on Delivery")
	}
	return nil
}

// snapshot records the unit price each item was charged at.
func snapshot(quote *Quote) []models.LineItem {
	items := models.StripResolved(quote.Items)
	for i := range items {
		items[i].UnitPrice = quote.Prices[i]
	}
	return items
}

func (s *OrderService) load(ctx context.Context, actorID, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	if order.UserID != actorID {
		return nil, ErrForbidden
	}
	return order, nil
}

// CreateOrder prices the items and stores a Pending order for userID.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*models.Order, error) {
	if err := validateDelivery(in.DeliveryAddress, in.PaymentMethod); err != nil {
		return nil, err
	}
	quote, err := s.pricing.Price(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:          userID,
		Items:           snapshot(quote),
		TotalPrice:      quote.Total,
		Status:          models.OrderStatusPending,
		DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		PaymentMethod:   in.PaymentMethod,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logging.FromContext(ctx).Info("order created", "order_id", order.ID, "user_id", userID, "total", order.TotalPrice)
	events.Emit(ctx, s.events, events.Event{Entity: events.EntityOrder, Action: events.ActionCreated, EntityID: order.ID, UserID: userID, Data: order})
	return order, nil
}

// UpdateOrder merges in into the stored order. The total is always recomputed, from the
// replacement items when given and from the stored items otherwise.
func (s *OrderService) UpdateOrder(ctx context.Context, actorID, id string, in UpdateOrderInput) (*models.Order, error) {
	order, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status

	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, validationError("Invalid order status %q", *in.Status)
		}
		if !previous.CanTransitionTo(*in.Status) {
			return nil, validationError("Order status cannot change from %s to %s", previous, *in.Status)
		}
		order.Status = *in.Status
	}
	if in.DeliveryAddress != nil {
		order.DeliveryAddress = strings.TrimSpace(*in.DeliveryAddress)
	}
	if in.PaymentMethod != nil {
		order.PaymentMethod = *in.PaymentMethod
	}
	if err := validateDelivery(order.DeliveryAddress, order.PaymentMethod); err != nil {
		return nil, err
	}

	items := in.Items
	if items == nil {
		items = order.Items
	}
	quote, err := s.pricing.Price(ctx, items)
	if err != nil {
		return nil, err
	}
	order.Items = snapshot(quote)
	order.TotalPrice = quote.Total

	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityOrder, Action: events.ActionUpdated, EntityID: order.ID, UserID: actorID, Data: order})
	if order.Status != previous {
		logging.FromContext(ctx).Info("order status changed", "order_id", order.ID, "from", previous, "to", order.Status)
		events.Emit(ctx, s.events, events.Event{
			Entity:   events.EntityOrder,
			Action:   events.ActionStatusChanged,
			EntityID: order.ID,
			UserID:   actorID,
			Data:     map[string]models.OrderStatus{"from": previous, "to": order.Status},
		})
	}
	return order, nil
}

// DeleteOrder removes an order.
func (s *OrderService) DeleteOrder(ctx context.Context, actorID, id string) error {
	if _, err := s.load(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return errOrderNotFound
		}
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityOrder, Action: events.ActionDeleted, EntityID: id, UserID: actorID})
	return nil
}

// GetOrder loads an order with each line item's product resolved.
func (s *OrderService) GetOrder(ctx context.Context, actorID, id string) (*models.Order, error) {
	order, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if order.Items, err = resolveItems(ctx, s.products, order.Items); err != nil {
		return nil, err
	}
	return order, nil
}

// ListUserOrders returns one page of userID's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, actorID, userID string, page pagination.Page) (*OrderPage, error) {
	if actorID != userID {
		return nil, ErrForbidden
	}
	orders, total, err := s.orders.ListByUser(ctx, userID, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &OrderPage{Orders: orders, Total: total, Page: page}, nil
}
