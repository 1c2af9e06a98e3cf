package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{db: db}
}

// Create inserts a new like into the database.
func (r *GORMLikeRepository) Create(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return fmt.Errorf("failed to create like: %w", translateGORMError(err))
	}
	return nil
}

// GetByID retrieves a single like by its ID from the database.
func (r *GORMLikeRepository) GetByID(ctx context.Context, id string) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).First(&like, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get like by ID %s: %w", id, translateGORMError(err))
	}
	return &like, nil
}

// Update saves an existing like to the database.
func (r *GORMLikeRepository) Update(ctx context.Context, like *models.Like) error {
	if err := gormUpdate(ctx, r.db, like); err != nil {
		return fmt.Errorf("failed to update like %s: %w", like.ID, err)
	}
	return nil
}

// Delete removes a like by its ID from the database.
func (r *GORMLikeRepository) Delete(ctx context.Context, id string) error {
	if err := gormDelete[models.Like](ctx, r.db, id); err != nil {
		return fmt.Errorf("failed to delete like %s: %w", id, err)
	}
	return nil
}

// ListByUser returns one page of a user's likes, newest first.
func (r *GORMLikeRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Like, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ?", userID)
	likes, total, err := gormPage[models.Like](query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list likes of user %s: %w", userID, err)
	}
	return likes, total, nil
}
