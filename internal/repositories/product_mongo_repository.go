package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository stores products in the products collection.
type MongoProductRepository struct {
	products mongoCollection[models.Product]
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{products: newMongoCollection[models.Product](db, ProductsCollection)}
}

// Create inserts a new product into the collection.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	stampCreated(&product.CreatedAt, &product.UpdatedAt)
	if err := r.products.insert(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a single product by its ID from the collection.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := r.products.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return product, nil
}

// Update saves an existing product to the collection.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	if err := r.products.replace(ctx, product.ID, product); err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}
	return nil
}

// Delete removes a product by its ID from the collection.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.products.delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// SearchByName pages through products whose name contains name, ignoring case.
func (r *MongoProductRepository) SearchByName(ctx context.Context, name string, offset, limit int) ([]models.Product, int64, error) {
	products, total, err := r.products.page(ctx, bson.M{"name": containsPattern(name)}, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products by name: %w", err)
	}
	return products, total, nil
}

// SearchByPrice pages through products priced within prices.
func (r *MongoProductRepository) SearchByPrice(ctx context.Context, prices PriceRange, offset, limit int) ([]models.Product, int64, error) {
	bounds := bson.M{}
	if prices.Min != nil {
		bounds["$gte"] = *prices.Min
	}
	if prices.Max != nil {
		bounds["$lte"] = *prices.Max
	}
	filter := bson.M{}
	if len(bounds) > 0 {
		filter["price"] = bounds
	}
	products, total, err := r.products.page(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products by price: %w", err)
	}
	return products, total, nil
}

// Latest returns the most recently created products.
func (r *MongoProductRepository) Latest(ctx context.Context, limit int) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.products.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest products: %w", err)
	}
	products := make([]models.Product, 0, limit)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode latest products: %w", err)
	}
	return products, nil
}
