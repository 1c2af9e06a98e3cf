package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
// Line items are stored as a JSON column on the cart row.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Create inserts a new cart into the database.
func (r *GORMCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", translateGORMError(err))
	}
	return nil
}

// GetByID retrieves a single cart by its ID from the database.
func (r *GORMCartRepository) GetByID(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).First(&cart, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart by ID %s: %w", id, translateGORMError(err))
	}
	return &cart, nil
}

// Update saves an existing cart to the database.
func (r *GORMCartRepository) Update(ctx context.Context, cart *models.Cart) error {
	if err := gormUpdate(ctx, r.db, cart); err != nil {
		return fmt.Errorf("failed to update cart %s: %w", cart.ID, err)
	}
	return nil
}

// Delete removes a cart by its ID from the database.
func (r *GORMCartRepository) Delete(ctx context.Context, id string) error {
	if err := gormDelete[models.Cart](ctx, r.db, id); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, err)
	}
	return nil
}
