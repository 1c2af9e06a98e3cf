package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// orderTransitions lists the statuses reachable from each status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  nil,
	OrderStatusCancelled:  nil,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether an order in status s may move to next.
// Staying in the same status is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "Credit Card"
	PaymentWishMoney      PaymentMethod = "Wish Money"
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
)

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentWishMoney, PaymentCashOnDelivery:
		return true
	}
	return false
}

// Order represents a customer order.
type Order struct {
	ID              string        `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID          string        `json:"user_id" gorm:"type:varchar(36);index" bson:"user_id"`
	Items           []LineItem    `json:"items" gorm:"serializer:json;type:text" bson:"items"`
	TotalPrice      float64       `json:"total_price" bson:"total_price"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(32)" bson:"status"`
	DeliveryAddress string        `json:"delivery_address" gorm:"type:text" bson:"delivery_address"`
	PaymentMethod   PaymentMethod `json:"payment_method" gorm:"type:varchar(32)" bson:"payment_method"`
	CreatedAt       time.Time     `json:"created_at" gorm:"index" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}
