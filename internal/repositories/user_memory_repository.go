package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
// Emails are unique, compared case-insensitively.
type MemoryUserRepository struct {
	users   *memoryTable[models.User]
	byEmail map[string]string
	mu      sync.Mutex // serializes writes so the email index stays consistent
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   newMemoryTable[models.User](),
		byEmail: make(map[string]string),
	}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create inserts a new user into the store.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := r.byEmail[key]; taken {
		return fmt.Errorf("failed to create user: %w", ErrDuplicateKey)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	stampCreated(&user.CreatedAt, &user.UpdatedAt)
	if err := r.users.insert(user.ID, *user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.byEmail[key] = user.ID
	return nil
}

// GetByID retrieves a single user by its ID from the store.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	user, err := r.users.get(id)
	if err != nil {
		return nil, fmt.Errorf("user with ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email from the store.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	id, ok := r.byEmail[emailKey(email)]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrRecordNotFound)
	}
	user, err := r.users.get(id)
	if err != nil {
		return nil, fmt.Errorf("user with email %s: %w", email, err)
	}
	return &user, nil
}

// Update saves an existing user to the store.
func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(user.Email)
	if owner, taken := r.byEmail[key]; taken && owner != user.ID {
		return fmt.Errorf("failed to update user %s: %w", user.ID, ErrDuplicateKey)
	}

	var previousKey string
	user.UpdatedAt = time.Now()
	err := r.users.replace(user.ID, user, func(prev models.User, next *models.User) {
		next.CreatedAt = prev.CreatedAt
		previousKey = emailKey(prev.Email)
	})
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if previousKey != key {
		delete(r.byEmail, previousKey)
		r.byEmail[key] = user.ID
	}
	return nil
}

// Delete removes a user by its ID from the store.
func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.users.get(id)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	if err := r.users.remove(id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	delete(r.byEmail, emailKey(user.Email))
	return nil
}
