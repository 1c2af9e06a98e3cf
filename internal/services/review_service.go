package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"
)

const (
	minRating = 1
	maxRating = 5
)

// UserLookup resolves user references. repositories.UserRepository satisfies it.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ReviewPage is one page of a product's reviews.
type ReviewPage struct {
	Reviews []models.Review
	Total   int64
	Page    pagination.Page
}

// ReviewService manages reviews. It never touches the product rating aggregate;
// see ProductService.RecomputeRatings.
type ReviewService struct {
	reviews  repositories.ReviewRepository
	products ProductLookup
	users    UserLookup
	events   events.Publisher
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repositories.ReviewRepository, products ProductLookup, users UserLookup, publisher events.Publisher) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		users:    users,
		events:   publisher,
	}
}

var errReviewNotFound = notFoundError("Review not found")

func validateRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return validationError("Rating must be between %d and %d", minRating, maxRating)
	}
	return nil
}

func (s *ReviewService) load(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review %s: %w", id, err)
	}
	return review, nil
}

// CreateReview stores a rating of productID by userID.
func (s *ReviewService) CreateReview(ctx context.Context, userID, productID string, rating int) (*models.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := requireProduct(ctx, s.products, productID); err != nil {
		return nil, err
	}

	review := &models.Review{UserID: userID, ProductID: productID, Rating: rating}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityReview, Action: events.ActionCreated, EntityID: review.ID, UserID: userID, Data: review})
	return review, nil
}

// GetReview loads a review with its author and product resolved.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, review.UserID)
	switch {
	case err == nil:
		review.User = user
	case !errors.Is(err, repositories.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to resolve user %s: %w", review.UserID, err)
	}

	product, err := s.products.GetByID(ctx, review.ProductID)
	switch {
	case err == nil:
		review.Product = product
	case !errors.Is(err, repositories.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to resolve product %s: %w", review.ProductID, err)
	}
	return review, nil
}

// UpdateReview changes the rating of the actor's own review.
func (s *ReviewService) UpdateReview(ctx context.Context, actorID, id string, rating int) (*models.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	review, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != actorID {
		return nil, ErrForbidden
	}

	review.Rating = rating
	if err := s.reviews.Update(ctx, review); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityReview, Action: events.ActionUpdated, EntityID: review.ID, UserID: actorID, Data: review})
	return review, nil
}

// DeleteReview removes the actor's own review and returns it.
func (s *ReviewService) DeleteReview(ctx context.Context, actorID, id string) (*models.Review, error) {
	review, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != actorID {
		return nil, ErrForbidden
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errReviewNotFound
		}
		return nil, fmt.Errorf("failed to delete review %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityReview, Action: events.ActionDeleted, EntityID: id, UserID: actorID})
	return review, nil
}

// ListProductReviews returns one page of a product's reviews, newest first.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID string, page pagination.Page) (*ReviewPage, error) {
	reviews, total, err := s.reviews.ListByProduct(ctx, productID, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews of product %s: %w", productID, err)
	}
	return &ReviewPage{Reviews: reviews, Total: total, Page: page}, nil
}
