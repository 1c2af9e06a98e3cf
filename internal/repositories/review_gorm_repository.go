package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// Create inserts a new review into the database.
func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", translateGORMError(err))
	}
	return nil
}

// GetByID retrieves a single review by its ID from the database.
func (r *GORMReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, translateGORMError(err))
	}
	return &review, nil
}

// Update saves an existing review to the database.
func (r *GORMReviewRepository) Update(ctx context.Context, review *models.Review) error {
	if err := gormUpdate(ctx, r.db, review); err != nil {
		return fmt.Errorf("failed to update review %s: %w", review.ID, err)
	}
	return nil
}

// Delete removes a review by its ID from the database.
func (r *GORMReviewRepository) Delete(ctx context.Context, id string) error {
	if err := gormDelete[models.Review](ctx, r.db, id); err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	return nil
}

// ListByProduct returns one page of a product's reviews, newest first.
func (r *GORMReviewRepository) ListByProduct(ctx context.Context, productID string, offset, limit int) ([]models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("product_id = ?", productID)
	reviews, total, err := gormPage[models.Review](query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews of product %s: %w", productID, err)
	}
	return reviews, total, nil
}

// Summarize aggregates the ratings of a product in a single query.
func (r *GORMReviewRepository) Summarize(ctx context.Context, productID string) (models.RatingSummary, error) {
	var row struct {
		Count int64
		Sum   float64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to summarize ratings of product %s: %w", productID, err)
	}
	return models.RatingSummary{Count: row.Count, Sum: row.Sum}, nil
}
