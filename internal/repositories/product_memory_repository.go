package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products *memoryTable[models.Product]
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: newMemoryTable[models.Product](),
	}
}

func productCreatedAt(p models.Product) time.Time { return p.CreatedAt }

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	stampCreated(&product.CreatedAt, &product.UpdatedAt)
	if err := r.products.insert(product.ID, *product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	product, err := r.products.get(id)
	if err != nil {
		return nil, fmt.Errorf("product with ID %s: %w", id, err)
	}
	return &product, nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	err := r.products.replace(product.ID, product, func(prev models.Product, next *models.Product) {
		next.CreatedAt = prev.CreatedAt
	})
	if err != nil {
		return fmt.Errorf("product with ID %s not updated: %w", product.ID, err)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	if err := r.products.remove(id); err != nil {
		return fmt.Errorf("product with ID %s not deleted: %w", id, err)
	}
	return nil
}

// SearchByName matches names containing name, ignoring case.
func (r *MemoryProductRepository) SearchByName(_ context.Context, name string, offset, limit int) ([]models.Product, int64, error) {
	matched := r.products.filter(func(p models.Product) bool {
		return containsFold(p.Name, name)
	}, productCreatedAt)
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

// SearchByPrice matches prices inside the range.
func (r *MemoryProductRepository) SearchByPrice(_ context.Context, prices PriceRange, offset, limit int) ([]models.Product, int64, error) {
	matched := r.products.filter(func(p models.Product) bool {
		return prices.Contains(p.Price)
	}, productCreatedAt)
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

// Latest returns the newest products.
func (r *MemoryProductRepository) Latest(_ context.Context, limit int) ([]models.Product, error) {
	return paginate(r.products.filter(nil, productCreatedAt), 0, limit), nil
}
