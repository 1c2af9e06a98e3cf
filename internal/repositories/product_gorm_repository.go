package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translateGORMError(err))
	}
	return nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, translateGORMError(err))
	}
	return &product, nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := gormUpdate(ctx, r.db, product); err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	if err := gormDelete[models.Product](ctx, r.db, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// SearchByName matches products whose name contains name, ignoring case.
func (r *GORMProductRepository) SearchByName(ctx context.Context, name string, offset, limit int) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(name))
	products, total, err := gormPage[models.Product](query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products by name: %w", err)
	}
	return products, total, nil
}

// SearchByPrice matches products whose price lies inside prices.
func (r *GORMProductRepository) SearchByPrice(ctx context.Context, prices PriceRange, offset, limit int) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if prices.Min != nil {
		query = query.Where("price >= ?", *prices.Min)
	}
	if prices.Max != nil {
		query = query.Where("price <= ?", *prices.Max)
	}
	products, total, err := gormPage[models.Product](query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products by price: %w", err)
	}
	return products, total, nil
}

// Latest returns the most recently created products.
func (r *GORMProductRepository) Latest(ctx context.Context, limit int) ([]models.Product, error) {
	products := make([]models.Product, 0, limit)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get latest products: %w", err)
	}
	return products, nil
}
