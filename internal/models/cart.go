package models

import "time"

// Cart is a user's shopping cart. TotalPrice is derived from Items at the time of the last write.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID     string     `json:"user_id" gorm:"type:varchar(36);index" bson:"user_id"`
	Items      []LineItem `json:"items" gorm:"serializer:json;type:text" bson:"items"`
	TotalPrice float64    `json:"total_price" bson:"total_price"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
}
