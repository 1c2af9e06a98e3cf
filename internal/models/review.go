package models

import "time"

// Review is a user's rating of a product.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index" bson:"user_id"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);index" bson:"product_id"`
	Rating    int       `json:"rating" bson:"rating"`
	CreatedAt time.Time `json:"created_at" gorm:"index" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// Resolved on reads.
	User    *User    `json:"user,omitempty" gorm:"-" bson:"-"`
	Product *Product `json:"product,omitempty" gorm:"-" bson:"-"`
}

// RatingSummary aggregates the reviews of one product.
type RatingSummary struct {
	Count int64
	Sum   float64
}
