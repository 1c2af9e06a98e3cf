package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// ProductLookup resolves product references. repositories.ProductRepository satisfies it.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// Quote is the result of pricing a list of line items.
type Quote struct {
	Items  []models.LineItem // as requested
	Prices []float64         // unit price of Items[i] at pricing time
	Total  float64
}

// PricingEngine validates line items and totals them at current product prices.
// Carts and orders both price through it so they share one set of rules.
type PricingEngine struct {
	products ProductLookup
}

// NewPricingEngine creates a new PricingEngine.
func NewPricingEngine(products ProductLookup) *PricingEngine {
	return &PricingEngine{products: products}
}

// Price checks items in order and stops at the first bad one. Nothing is written.
func (e *PricingEngine) Price(ctx context.Context, items []models.LineItem) (*Quote, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItemList
	}

	total := decimal.Zero
	prices := make([]float64, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.ProductID) == "" || item.Quantity < 1 {
			return nil, ErrInvalidLineItem
		}

		product, err := e.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrRecordNotFound) {
				return nil, &ProductNotFoundError{ProductID: item.ProductID}
			}
			return nil, fmt.Errorf("failed to resolve product %s: %w", item.ProductID, err)
		}

		prices[i] = product.Price
		total = total.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	sum, _ := total.Float64()
	return &Quote{Items: items, Prices: prices, Total: sum}, nil
}

// resolveItems attaches the current product to each line item for display.
// Products deleted since the write are left unresolved.
func resolveItems(ctx context.Context, products ProductLookup, items []models.LineItem) ([]models.LineItem, error) {
	out := make([]models.LineItem, len(items))
	for i, item := range items {
		product, err := products.GetByID(ctx, item.ProductID)
		switch {
		case err == nil:
			item.Product = product
		case !errors.Is(err, repositories.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to resolve product %s: %w", item.ProductID, err)
		}
		out[i] = item
	}
	return out, nil
}
