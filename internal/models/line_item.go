package models

// LineItem is a (product reference, quantity) pair embedded in a cart or an order.
type LineItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price,omitempty" bson:"unit_price,omitempty"` // captured on orders only

	// Product is filled in on reads and never persisted.
	Product *Product `json:"product,omitempty" bson:"-"`
}

// StripResolved drops resolved products so only references get persisted.
func StripResolved(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		item.Product = nil
		out[i] = item
	}
	return out
}
