package models

import "time"

// Category is the fixed set of catalog sections a product can belong to.
type Category string

const (
	CategoryCars    Category = "cars"
	CategoryPets    Category = "pets"
	CategoryDevices Category = "devices"
)

// Categories lists every accepted category.
var Categories = []Category{CategoryCars, CategoryPets, CategoryDevices}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a product in the store.
type Product struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name            string    `json:"name" gorm:"type:varchar(255);index" bson:"name"`
	Description     string    `json:"description" gorm:"type:text" bson:"description"`
	Price           float64   `json:"price" bson:"price"`
	Pictures        []string  `json:"pictures" gorm:"serializer:json;type:text" bson:"pictures"`
	Category        Category  `json:"category" gorm:"type:varchar(32);index" bson:"category"`
	NumberOfReviews int64     `json:"number_of_reviews" bson:"number_of_reviews"`
	SumOfRatings    float64   `json:"sum_of_ratings" bson:"sum_of_ratings"`
	CreatedAt       time.Time `json:"created_at" gorm:"index" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// AverageRating derives the mean rating from the stored aggregate.
func (p *Product) AverageRating() float64 {
	if p.NumberOfReviews == 0 {
		return 0
	}
	return p.SumOfRatings / float64(p.NumberOfReviews)
}
