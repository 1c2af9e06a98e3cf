package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// UpdateUserInput carries a partial profile update. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService manages user profiles. Only the user themself may change or remove a profile.
type UserService struct {
	userRepo repositories.UserRepository
	events   events.Publisher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, publisher events.Publisher) *UserService {
	return &UserService{userRepo: userRepo, events: publisher}
}

// GetUser loads a user profile by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return user, nil
}

// UpdateUser applies in to the profile of id, re-validating email and password.
func (s *UserService) UpdateUser(ctx context.Context, actorID, id string, in UpdateUserInput) (*models.User, error) {
	if actorID != id {
		return nil, ErrForbidden
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationError("Name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if in.Password != nil {
		if err := ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, newKindError(ErrDuplicate, "Email %s is already registered", user.Email)
		case errors.Is(err, repositories.ErrRecordNotFound):
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityUser, Action: events.ActionUpdated, EntityID: user.ID, UserID: actorID})
	return user, nil
}

// DeleteUser removes the profile of id and returns it.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) (*models.User, error) {
	if actorID != id {
		return nil, ErrForbidden
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to delete user %s: %w", id, err)
	}

	events.Emit(ctx, s.events, events.Event{Entity: events.EntityUser, Action: events.ActionDeleted, EntityID: id, UserID: actorID})
	return user, nil
}
