package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MemoryCartRepository is an in-memory implementation of CartRepository.
type MemoryCartRepository struct {
	carts *memoryTable[models.Cart]
}

// NewMemoryCartRepository creates a new instance of MemoryCartRepository.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: newMemoryTable[models.Cart]()}
}

// Create inserts a new cart into the store.
func (r *MemoryCartRepository) Create(_ context.Context, cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	stampCreated(&cart.CreatedAt, &cart.UpdatedAt)
	if err := r.carts.insert(cart.ID, *cart); err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// GetByID retrieves a single cart by its ID from the store.
func (r *MemoryCartRepository) GetByID(_ context.Context, id string) (*models.Cart, error) {
	cart, err := r.carts.get(id)
	if err != nil {
		return nil, fmt.Errorf("cart with ID %s: %w", id, err)
	}
	return &cart, nil
}

// Update saves an existing cart to the store.
func (r *MemoryCartRepository) Update(_ context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	err := r.carts.replace(cart.ID, cart, func(prev models.Cart, next *models.Cart) {
		next.CreatedAt = prev.CreatedAt
	})
	if err != nil {
		return fmt.Errorf("failed to update cart %s: %w", cart.ID, err)
	}
	return nil
}

// Delete removes a cart by its ID from the store.
func (r *MemoryCartRepository) Delete(_ context.Context, id string) error {
	if err := r.carts.remove(id); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, err)
	}
	return nil
}
