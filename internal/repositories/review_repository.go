package repositories

import (
	"context"

	"storefront/internal/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
	ListByProduct(ctx context.Context, productID string, offset, limit int) ([]models.Review, int64, error)
	// Summarize counts the reviews of a product and sums their ratings.
	Summarize(ctx context.Context, productID string) (models.RatingSummary, error)
}
