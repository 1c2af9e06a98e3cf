// Package events publishes domain events after successful writes.
// Publishing is best effort: failures are logged and never reach the caller.
package events

import (
	"context"
	"time"

	"storefront/internal/logging"
)

// Entities that emit events.
const (
	EntityUser    = "user"
	EntityProduct = "product"
	EntityCart    = "cart"
	EntityOrder   = "order"
	EntityReview  = "review"
	EntityLike    = "like"
)

// Actions recorded by events.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
)

const publishTimeout = 5 * time.Second

// Event describes a change to one entity.
type Event struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id"`
	UserID     string    `json:"user_id,omitempty"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Type is the dotted event name, e.g. "order.created".
func (e Event) Type() string {
	return e.Entity + "." + e.Action
}

// Topic is the stream the event belongs to, e.g. "order_events".
func (e Event) Topic() string {
	return e.Entity + "_events"
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Emit publishes event through p. A nil publisher disables publishing.
func Emit(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	log := logging.FromContext(ctx)
	if err := p.Publish(ctx, event); err != nil {
		log.Warn("failed to publish event", "type", event.Type(), "entity_id", event.EntityID, "error", err)
		return
	}
	log.Debug("event published", "type", event.Type(), "entity_id", event.EntityID)
}
