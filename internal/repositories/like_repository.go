package repositories

import (
	"context"

	"storefront/internal/models"
)

// LikeRepository defines the interface for like data access.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	GetByID(ctx context.Context, id string) (*models.Like, error)
	Update(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Like, int64, error)
}
