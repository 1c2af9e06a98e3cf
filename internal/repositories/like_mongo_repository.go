package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLikeRepository stores likes in the likes collection.
type MongoLikeRepository struct {
	likes mongoCollection[models.Like]
}

// NewMongoLikeRepository creates a new instance of MongoLikeRepository.
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{likes: newMongoCollection[models.Like](db, LikesCollection)}
}

// Create inserts a new like into the collection.
func (r *MongoLikeRepository) Create(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	stampCreated(&like.CreatedAt, &like.UpdatedAt)
	if err := r.likes.insert(ctx, like); err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// GetByID retrieves a single like by its ID from the collection.
func (r *MongoLikeRepository) GetByID(ctx context.Context, id string) (*models.Like, error) {
	like, err := r.likes.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get like by ID %s: %w", id, err)
	}
	return like, nil
}

// Update saves an existing like to the collection.
func (r *MongoLikeRepository) Update(ctx context.Context, like *models.Like) error {
	like.UpdatedAt = time.Now()
	if err := r.likes.replace(ctx, like.ID, like); err != nil {
		return fmt.Errorf("failed to update like %s: %w", like.ID, err)
	}
	return nil
}

// Delete removes a like by its ID from the collection.
func (r *MongoLikeRepository) Delete(ctx context.Context, id string) error {
	if err := r.likes.delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete like %s: %w", id, err)
	}
	return nil
}

// ListByUser returns one page of a user's likes, newest first.
func (r *MongoLikeRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Like, int64, error) {
	likes, total, err := r.likes.page(ctx, bson.M{"user_id": userID}, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list likes of user %s: %w", userID, err)
	}
	return likes, total, nil
}
