package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartService manages the cart lifecycle. Every write reprices the whole item list.
type CartService struct {
	carts    repositories.CartRepository
	products ProductLookup
	pricing  *PricingEngine
	events   events.Publisher
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products ProductLookup, pricing *PricingEngine, publisher events.Publisher) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		pricing:  pricing,
		events:   publisher,
	}
}

var errCartNotFound = notFoundError("Cart not found")

func (s *CartService) load(ctx context.Context, actorID, id string) (*models.Cart, error) {
	cart, err := s.carts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart %s: %w", id, err)
	}
	if cart.UserID != actorID {
		return nil, ErrForbidden
	}
	return cart, nil
}

// CreateCart prices items and stores a new cart for userID.
func (s *CartService) CreateCart(ctx context.Context, userID string, items []models.LineItem) (*models.Cart, error) {
	quote, err := s.pricing.Price(ctx, items)
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{
		UserID:     userID,
		Items:      models.StripResolved(quote.Items),
		TotalPrice: quote.Total,
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityCart, Action: events.ActionCreated, EntityID: cart.ID, UserID: userID, Data: cart})
	return cart, nil
}

// UpdateCart replaces the items of an existing cart and recomputes its total.
func (s *CartService) UpdateCart(ctx context.Context, actorID, id string, items []models.LineItem) (*models.Cart, error) {
	cart, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricing.Price(ctx, items)
	if err != nil {
		return nil, err
	}
	cart.Items = models.StripResolved(quote.Items)
	cart.TotalPrice = quote.Total

	if err := s.carts.Update(ctx, cart); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errCartNotFound
		}
		return nil, fmt.Errorf("failed to update cart %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityCart, Action: events.ActionUpdated, EntityID: cart.ID, UserID: actorID, Data: cart})
	return cart, nil
}

// DeleteCart removes a cart and returns what was deleted.
func (s *CartService) DeleteCart(ctx context.Context, actorID, id string) (*models.Cart, error) {
	cart, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errCartNotFound
		}
		return nil, fmt.Errorf("failed to delete cart %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityCart, Action: events.ActionDeleted, EntityID: id, UserID: actorID})
	return cart, nil
}

// GetCart loads a cart with each line item's product resolved.
func (s *CartService) GetCart(ctx context.Context, actorID, id string) (*models.Cart, error) {
	cart, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if cart.Items, err = resolveItems(ctx, s.products, cart.Items); err != nil {
		return nil, err
	}
	return cart, nil
}
