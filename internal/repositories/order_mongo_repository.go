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

// MongoOrderRepository stores orders with their line items embedded.
type MongoOrderRepository struct {
	orders mongoCollection[models.Order]
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{orders: newMongoCollection[models.Order](db, OrdersCollection)}
}

// Create inserts a new order into the collection.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	stampCreated(&order.CreatedAt, &order.UpdatedAt)
	if err := r.orders.insert(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order by its ID from the collection.
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := r.orders.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return order, nil
}

// Update saves an existing order to the collection.
func (r *MongoOrderRepository) Update(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	if err := r.orders.replace(ctx, order.ID, order); err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}
	return nil
}

// Delete removes a order by its ID from the collection.
func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	if err := r.orders.delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}

// ListByUser returns one page of a user's orders, newest first.
func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Order, int64, error) {
	orders, total, err := r.orders.page(ctx, bson.M{"user_id": userID}, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders of user %s: %w", userID, err)
	}
	return orders, total, nil
}
