package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MemoryLikeRepository is an in-memory implementation of LikeRepository.
type MemoryLikeRepository struct {
	likes *memoryTable[models.Like]
}

// NewMemoryLikeRepository creates a new instance of MemoryLikeRepository.
func NewMemoryLikeRepository() *MemoryLikeRepository {
	return &MemoryLikeRepository{likes: newMemoryTable[models.Like]()}
}

// Create inserts a new like into the store.
func (r *MemoryLikeRepository) Create(_ context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	stampCreated(&like.CreatedAt, &like.UpdatedAt)
	if err := r.likes.insert(like.ID, *like); err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// GetByID retrieves a single like by its ID from the store.
func (r *MemoryLikeRepository) GetByID(_ context.Context, id string) (*models.Like, error) {
	like, err := r.likes.get(id)
	if err != nil {
		return nil, fmt.Errorf("like with ID %s: %w", id, err)
	}
	return &like, nil
}

// Update saves an existing like to the store.
func (r *MemoryLikeRepository) Update(_ context.Context, like *models.Like) error {
	like.UpdatedAt = time.Now()
	err := r.likes.replace(like.ID, like, func(prev models.Like, next *models.Like) {
		next.CreatedAt = prev.CreatedAt
	})
	if err != nil {
		return fmt.Errorf("failed to update like %s: %w", like.ID, err)
	}
	return nil
}

// Delete removes a like by its ID from the store.
func (r *MemoryLikeRepository) Delete(_ context.Context, id string) error {
	if err := r.likes.remove(id); err != nil {
		return fmt.Errorf("failed to delete like %s: %w", id, err)
	}
	return nil
}

// ListByUser returns one page of a user's likes, newest first.
func (r *MemoryLikeRepository) ListByUser(_ context.Context, userID string, offset, limit int) ([]models.Like, int64, error) {
	matched := r.likes.filter(func(l models.Like) bool {
		return l.UserID == userID
	}, func(l models.Like) time.Time { return l.CreatedAt })
	return paginate(matched, offset, limit), int64(len(matched)), nil
}
