package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepository stores users in the users collection.
// Email uniqueness is enforced by the index created in EnsureMongoIndexes.
type MongoUserRepository struct {
	users mongoCollection[models.User]
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{users: newMongoCollection[models.User](db, UsersCollection)}
}

// Create inserts a new user into the collection.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	stampCreated(&user.CreatedAt, &user.UpdatedAt)
	if err := r.users.insert(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a single user by its ID from the collection.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.users.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email from the collection.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.users.findOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return user, nil
}

// Update saves an existing user to the collection.
func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	if err := r.users.replace(ctx, user.ID, user); err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

// Delete removes a user by its ID from the collection.
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.users.delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
