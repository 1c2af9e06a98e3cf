package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MemoryReviewRepository is an in-memory implementation of ReviewRepository.
type MemoryReviewRepository struct {
	reviews *memoryTable[models.Review]
}

// NewMemoryReviewRepository creates a new instance of MemoryReviewRepository.
func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{reviews: newMemoryTable[models.Review]()}
}

func reviewCreatedAt(r models.Review) time.Time { return r.CreatedAt }

// Create inserts a new review into the store.
func (r *MemoryReviewRepository) Create(_ context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	stampCreated(&review.CreatedAt, &review.UpdatedAt)
	stored := *review
	stored.User, stored.Product = nil, nil
	if err := r.reviews.insert(review.ID, stored); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a single review by its ID from the store.
func (r *MemoryReviewRepository) GetByID(_ context.Context, id string) (*models.Review, error) {
	review, err := r.reviews.get(id)
	if err != nil {
		return nil, fmt.Errorf("review with ID %s: %w", id, err)
	}
	return &review, nil
}

// Update saves an existing review to the store.
func (r *MemoryReviewRepository) Update(_ context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now()
	stored := *review
	stored.User, stored.Product = nil, nil
	err := r.reviews.replace(review.ID, &stored, func(prev models.Review, next *models.Review) {
		next.CreatedAt = prev.CreatedAt
	})
	if err != nil {
		return fmt.Errorf("failed to update review %s: %w", review.ID, err)
	}
	review.CreatedAt = stored.CreatedAt
	return nil
}

// Delete removes a review by its ID from the store.
func (r *MemoryReviewRepository) Delete(_ context.Context, id string) error {
	if err := r.reviews.remove(id); err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	return nil
}

// ListByProduct returns one page of a product's reviews, newest first.
func (r *MemoryReviewRepository) ListByProduct(_ context.Context, productID string, offset, limit int) ([]models.Review, int64, error) {
	matched := r.reviews.filter(func(rv models.Review) bool {
		return rv.ProductID == productID
	}, reviewCreatedAt)
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

// Summarize counts and sums the ratings of a product.
func (r *MemoryReviewRepository) Summarize(_ context.Context, productID string) (models.RatingSummary, error) {
	var summary models.RatingSummary
	for _, rv := range r.reviews.filter(func(rv models.Review) bool {
		return rv.ProductID == productID
	}, reviewCreatedAt) {
		summary.Count++
		summary.Sum += float64(rv.Rating)
	}
	return summary, nil
}
