package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"
)

// LatestProductsLimit is how many products the latest listing shows.
const LatestProductsLimit = 20

// ProductIndexer is an external search index kept in step with the catalog.
type ProductIndexer interface {
	Index(ctx context.Context, product models.Product) error
	Remove(ctx context.Context, id string) error
	SearchByName(ctx context.Context, name string, offset, limit int) ([]models.Product, int64, error)
}

// ProductInput describes a new product.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    models.Category
	Pictures    []string
}

// UpdateProductInput carries a partial product update. Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *models.Category
	Pictures    []string // replaces the pictures when non-nil
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []models.Product
	Total    int64
	Page     pagination.Page
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo    repositories.ProductRepository
	reviews repositories.ReviewRepository
	index   ProductIndexer
	events  events.Publisher
}

// NewProductService creates a new ProductService. index may be nil, in which case
// name search runs against the repository.
func NewProductService(repo repositories.ProductRepository, reviews repositories.ReviewRepository, index ProductIndexer, publisher events.Publisher) *ProductService {
	return &ProductService{
		repo:    repo,
		reviews: reviews,
		index:   index,
		events:  publisher,
	}
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return validationError("Product name is required")
	}
	if p.Price < 0 {
		return validationError("Price must not be negative")
	}
	if !p.Category.Valid() {
		return validationError("Category must be one of cars, pets, devices")
	}
	return nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, notFoundError("Product not found")
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return product, nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	pictures := in.Pictures
	if pictures == nil {
		pictures = []string{}
	}
	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Pictures:    pictures,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.syncIndex(ctx, product)
	events.Emit(ctx, s.events, events.Event{Entity: events.EntityProduct, Action: events.ActionCreated, EntityID: product.ID, Data: product})
	return product, nil
}

// UpdateProduct applies a partial update to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Pictures != nil {
		product.Pictures = in.Pictures
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, notFoundError("Product not found")
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}

	s.syncIndex(ctx, product)
	events.Emit(ctx, s.events, events.Event{Entity: events.EntityProduct, Action: events.ActionUpdated, EntityID: product.ID, Data: product})
	return product, nil
}

// DeleteProduct deletes a product by its ID. Carts, orders, likes and reviews
// referencing it are left as they are.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, notFoundError("Product not found")
		}
		return nil, fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	if s.index != nil {
		if err := s.index.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("failed to remove product from search index", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.events, events.Event{Entity: events.EntityProduct, Action: events.ActionDeleted, EntityID: id})
	return product, nil
}

// SearchByName finds products whose name contains name, ignoring case.
func (s *ProductService) SearchByName(ctx context.Context, name string, page pagination.Page) (*ProductPage, error) {
	if s.index != nil {
		products, total, err := s.index.SearchByName(ctx, name, page.Offset(), page.Size)
		if err == nil {
			return &ProductPage{Products: products, Total: total, Page: page}, nil
		}
		logging.FromContext(ctx).Warn("search index unavailable, falling back to store", "error", err)
	}

	products, total, err := s.repo.SearchByName(ctx, name, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return &ProductPage{Products: products, Total: total, Page: page}, nil
}

// SearchByPrice finds products priced inside prices.
func (s *ProductService) SearchByPrice(ctx context.Context, prices repositories.PriceRange, page pagination.Page) (*ProductPage, error) {
	if prices.Min != nil && prices.Max != nil && *prices.Min > *prices.Max {
		return nil, validationError("price_min must not be greater than price_max")
	}
	products, total, err := s.repo.SearchByPrice(ctx, prices, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return &ProductPage{Products: products, Total: total, Page: page}, nil
}

// LatestProducts lists the most recently created products.
func (s *ProductService) LatestProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.Latest(ctx, LatestProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest products: %w", err)
	}
	return products, nil
}

// RecomputeRatings rebuilds number_of_reviews and sum_of_ratings from the stored reviews.
// Review writes never touch the aggregate, so this is the only place it changes.
func (s *ProductService) RecomputeRatings(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviews.Summarize(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize reviews of product %s: %w", id, err)
	}
	product.NumberOfReviews = summary.Count
	product.SumOfRatings = summary.Sum

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, notFoundError("Product not found")
		}
		return nil, fmt.Errorf("failed to store ratings of product %s: %w", id, err)
	}

	s.syncIndex(ctx, product)
	events.Emit(ctx, s.events, events.Event{Entity: events.EntityProduct, Action: events.ActionUpdated, EntityID: id, Data: product})
	return product, nil
}

func (s *ProductService) syncIndex(ctx context.Context, product *models.Product) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, *product); err != nil {
		logging.FromContext(ctx).Warn("failed to index product", "product_id", product.ID, "error", err)
	}
}
