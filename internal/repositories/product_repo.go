package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
// Listing methods return products newest first together with the total match count.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	SearchByName(ctx context.Context, name string, offset, limit int) ([]models.Product, int64, error)
	SearchByPrice(ctx context.Context, prices PriceRange, offset, limit int) ([]models.Product, int64, error)
	Latest(ctx context.Context, limit int) ([]models.Product, error)
}
