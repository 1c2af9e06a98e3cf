package repositories

import (
	"errors"
	"strings"
)

var (
	// ErrRecordNotFound is returned when a lookup, update or delete matches no record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Set groups the repositories of every entity behind one backend.
type Set struct {
	Users    UserRepository
	Products ProductRepository
	Carts    CartRepository
	Orders   OrderRepository
	Likes    LikeRepository
	Reviews  ReviewRepository
}

// PriceRange bounds a price search. A nil bound is open.
type PriceRange struct {
	Min *float64
	Max *float64
}

// Contains reports whether price falls inside the range, bounds included.
func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// paginate returns the window [offset, offset+limit) of a slice already in result order.
func paginate[T any](rows []T, offset, limit int) []T {
	if offset < 0 || offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
