package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	orders *memoryTable[models.Order]
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: newMemoryTable[models.Order]()}
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	stampCreated(&order.CreatedAt, &order.UpdatedAt)
	if err := r.orders.insert(order.ID, *order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	order, err := r.orders.get(id)
	if err != nil {
		return nil, fmt.Errorf("order with ID %s: %w", id, err)
	}
	return &order, nil
}

// Update replaces an existing order.
func (r *MemoryOrderRepository) Update(_ context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	err := r.orders.replace(order.ID, order, func(prev models.Order, next *models.Order) {
		next.CreatedAt = prev.CreatedAt
	})
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}
	return nil
}

// Delete removes an order by its ID.
func (r *MemoryOrderRepository) Delete(_ context.Context, id string) error {
	if err := r.orders.remove(id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}

// ListByUser returns one page of the user's orders, newest first.
func (r *MemoryOrderRepository) ListByUser(_ context.Context, userID string, offset, limit int) ([]models.Order, int64, error) {
	matched := r.orders.filter(func(o models.Order) bool {
		return o.UserID == userID
	}, func(o models.Order) time.Time { return o.CreatedAt })
	return paginate(matched, offset, limit), int64(len(matched)), nil
}
