package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create inserts a new order.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", translateGORMError(err))
	}
	return nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, translateGORMError(err))
	}
	return &order, nil
}

// Update overwrites an existing order.
func (r *GORMOrderRepository) Update(ctx context.Context, order *models.Order) error {
	if err := gormUpdate(ctx, r.db, order); err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}
	return nil
}

// Delete removes an order by its ID.
func (r *GORMOrderRepository) Delete(ctx context.Context, id string) error {
	if err := gormDelete[models.Order](ctx, r.db, id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}

// ListByUser returns one page of a user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	orders, total, err := gormPage[models.Order](query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders of user %s: %w", userID, err)
	}
	return orders, total, nil
}
