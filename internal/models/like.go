package models

import "time"

// Like records that a user liked a product. The same pair may be recorded more than once.
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index" bson:"user_id"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);index" bson:"product_id"`
	CreatedAt time.Time `json:"created_at" gorm:"index" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
