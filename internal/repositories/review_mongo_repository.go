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

// MongoReviewRepository stores reviews in the reviews collection.
type MongoReviewRepository struct {
	reviews mongoCollection[models.Review]
}

// NewMongoReviewRepository creates a new instance of MongoReviewRepository.
func NewMongoReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{reviews: newMongoCollection[models.Review](db, ReviewsCollection)}
}

// Create inserts a new review into the collection.
func (r *MongoReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	stampCreated(&review.CreatedAt, &review.UpdatedAt)
	if err := r.reviews.insert(ctx, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a single review by its ID from the collection.
func (r *MongoReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	review, err := r.reviews.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return review, nil
}

// Update saves an existing review to the collection.
func (r *MongoReviewRepository) Update(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now()
	if err := r.reviews.replace(ctx, review.ID, review); err != nil {
		return fmt.Errorf("failed to update review %s: %w", review.ID, err)
	}
	return nil
}

// Delete removes a review by its ID from the collection.
func (r *MongoReviewRepository) Delete(ctx context.Context, id string) error {
	if err := r.reviews.delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	return nil
}

// ListByProduct returns one page of a product's reviews, newest first.
func (r *MongoReviewRepository) ListByProduct(ctx context.Context, productID string, offset, limit int) ([]models.Review, int64, error) {
	reviews, total, err := r.reviews.page(ctx, bson.M{"product_id": productID}, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews of product %s: %w", productID, err)
	}
	return reviews, total, nil
}

// Summarize groups the product's reviews server side.
func (r *MongoReviewRepository) Summarize(ctx context.Context, productID string) (models.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "product_id", Value: productID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "sum", Value: bson.D{{Key: "$sum", Value: "$rating"}}},
		}}},
	}
	cursor, err := r.reviews.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to summarize ratings of product %s: %w", productID, err)
	}
	var rows []struct {
		Count int64 `bson:"count"`
		Sum   int64 `bson:"sum"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to decode rating summary of product %s: %w", productID, err)
	}
	if len(rows) == 0 {
		return models.RatingSummary{}, nil
	}
	return models.RatingSummary{Count: rows[0].Count, Sum: float64(rows[0].Sum)}, nil
}
