package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the Mongo backend.
const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	CartsCollection    = "carts"
	OrdersCollection   = "orders"
	LikesCollection    = "likes"
	ReviewsCollection  = "reviews"
)

// NewMongoSet builds every repository on top of one Mongo database.
func NewMongoSet(db *mongo.Database) *Set {
	return &Set{
		Users:    NewMongoUserRepository(db),
		Products: NewMongoProductRepository(db),
		Carts:    NewMongoCartRepository(db),
		Orders:   NewMongoOrderRepository(db),
		Likes:    NewMongoLikeRepository(db),
		Reviews:  NewMongoReviewRepository(db),
	}
}

// EnsureMongoIndexes creates the indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users.email index: %w", err)
	}

	byCreated := bson.D{{Key: "created_at", Value: -1}}
	for name, keys := range map[string]bson.D{
		ProductsCollection: byCreated,
		OrdersCollection:   {{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		LikesCollection:    {{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		ReviewsCollection:  {{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}},
	} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys}); err != nil {
			return fmt.Errorf("failed to create %s index: %w", name, err)
		}
	}
	return nil
}

// mongoCollection wraps a collection whose documents decode into T.
type mongoCollection[T any] struct {
	coll *mongo.Collection
}

func newMongoCollection[T any](db *mongo.Database, name string) mongoCollection[T] {
	return mongoCollection[T]{coll: db.Collection(name)}
}

func translateMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrRecordNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	}
	return err
}

func (c mongoCollection[T]) insert(ctx context.Context, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return translateMongoError(err)
	}
	return nil
}

func (c mongoCollection[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	return &doc, nil
}

// replace overwrites the document with the given id, keeping its created_at.
func (c mongoCollection[T]) replace(ctx context.Context, id string, doc *T) error {
	var prev struct {
		CreatedAt time.Time `bson:"created_at"`
	}
	err := c.coll.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"created_at": 1})).Decode(&prev)
	if err != nil {
		return translateMongoError(err)
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return err
	}
	fields["created_at"] = prev.CreatedAt

	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, fields)
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (c mongoCollection[T]) delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// page counts the documents matching filter and loads one page of them, newest first.
func (c mongoCollection[T]) page(ctx context.Context, filter bson.M, offset, limit int) ([]T, int64, error) {
	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		return make([]T, 0), total, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// containsPattern builds a case-insensitive substring match for a literal string.
func containsPattern(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}
