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

// LikePage is one page of a user's likes.
type LikePage struct {
	Likes []models.Like
	Total int64
	Page  pagination.Page
}

// LikeService records likes. A user may like the same product any number of times;
// every like is kept as its own record.
type LikeService struct {
	likes    repositories.LikeRepository
	products ProductLookup
	events   events.Publisher
}

// NewLikeService creates a new LikeService.
func NewLikeService(likes repositories.LikeRepository, products ProductLookup, publisher events.Publisher) *LikeService {
	return &LikeService{likes: likes, products: products, events: publisher}
}

var errLikeNotFound = notFoundError("Like not found")

// requireProduct fails with ProductNotFoundError when id references no product.
func requireProduct(ctx context.Context, products ProductLookup, id string) error {
	if id == "" {
		return validationError("Product is required")
	}
	if _, err := products.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return &ProductNotFoundError{ProductID: id}
		}
		return fmt.Errorf("failed to resolve product %s: %w", id, err)
	}
	return nil
}

func (s *LikeService) load(ctx context.Context, id string) (*models.Like, error) {
	like, err := s.likes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errLikeNotFound
		}
		return nil, fmt.Errorf("failed to get like %s: %w", id, err)
	}
	return like, nil
}

// CreateLike records that userID likes productID.
func (s *LikeService) CreateLike(ctx context.Context, userID, productID string) (*models.Like, error) {
	if err := requireProduct(ctx, s.products, productID); err != nil {
		return nil, err
	}

	like := &models.Like{UserID: userID, ProductID: productID}
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, fmt.Errorf("failed to create like: %w", err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityLike, Action: events.ActionCreated, EntityID: like.ID, UserID: userID, Data: like})
	return like, nil
}

// GetLike loads a like by id.
func (s *LikeService) GetLike(ctx context.Context, id string) (*models.Like, error) {
	return s.load(ctx, id)
}

// UpdateLike points an existing like at another product.
func (s *LikeService) UpdateLike(ctx context.Context, actorID, id, productID string) (*models.Like, error) {
	like, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if like.UserID != actorID {
		return nil, ErrForbidden
	}
	if err := requireProduct(ctx, s.products, productID); err != nil {
		return nil, err
	}

	like.ProductID = productID
	if err := s.likes.Update(ctx, like); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errLikeNotFound
		}
		return nil, fmt.Errorf("failed to update like %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityLike, Action: events.ActionUpdated, EntityID: like.ID, UserID: actorID, Data: like})
	return like, nil
}

// DeleteLike removes the actor's own like and returns it.
func (s *LikeService) DeleteLike(ctx context.Context, actorID, id string) (*models.Like, error) {
	like, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if like.UserID != actorID {
		return nil, ErrForbidden
	}
	if err := s.likes.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errLikeNotFound
		}
		return nil, fmt.Errorf("failed to delete like %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityLike, Action: events.ActionDeleted, EntityID: id, UserID: actorID})
	return like, nil
}

// ListUserLikes returns one page of a user's likes, newest first.
func (s *LikeService) ListUserLikes(ctx context.Context, userID string, page pagination.Page) (*LikePage, error) {
	likes, total, err := s.likes.ListByUser(ctx, userID, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes of user %s: %w", userID, err)
	}
	return &LikePage{Likes: likes, Total: total, Page: page}, nil
}
