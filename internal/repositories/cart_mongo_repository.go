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

// MongoCartRepository stores carts with their line items embedded.
type MongoCartRepository struct {
	carts mongoCollection[models.Cart]
}

// NewMongoCartRepository creates a new instance of MongoCartRepository.
func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{carts: newMongoCollection[models.Cart](db, CartsCollection)}
}

// Create inserts a new cart into the collection.
func (r *MongoCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	stampCreated(&cart.CreatedAt, &cart.UpdatedAt)
	if err := r.carts.insert(ctx, cart); err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// GetByID retrieves a single cart by its ID from the collection.
func (r *MongoCartRepository) GetByID(ctx context.Context, id string) (*models.Cart, error) {
	cart, err := r.carts.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get cart by ID %s: %w", id, err)
	}
	return cart, nil
}

// Update saves an existing cart to the collection.
func (r *MongoCartRepository) Update(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	if err := r.carts.replace(ctx, cart.ID, cart); err != nil {
		return fmt.Errorf("failed to update cart %s: %w", cart.ID, err)
	}
	return nil
}

// Delete removes a cart by its ID from the collection.
func (r *MongoCartRepository) Delete(ctx context.Context, id string) error {
	if err := r.carts.delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, err)
	}
	return nil
}
