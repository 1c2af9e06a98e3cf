package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// RoutingPublisher is satisfied by the RabbitMQ client.
type RoutingPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// TopicPublisher is satisfied by the Kafka producer.
type TopicPublisher interface {
	Publish(ctx context.Context, topic string, key, body []byte) error
}

// RabbitMQPublisher routes each event by its type, e.g. "order.created".
type RabbitMQPublisher struct {
	client RoutingPublisher
}

// NewRabbitMQPublisher wraps a RabbitMQ client.
func NewRabbitMQPublisher(client RoutingPublisher) *RabbitMQPublisher {
	return &RabbitMQPublisher{client: client}
}

// Publish encodes event and sends it with its type as the routing key.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type(), err)
	}
	return p.client.Publish(ctx, event.Type(), body)
}

// KafkaPublisher writes each event to its entity topic keyed by entity id,
// so events of one entity stay ordered within a partition.
type KafkaPublisher struct {
	producer TopicPublisher
}

// NewKafkaPublisher wraps a Kafka producer.
func NewKafkaPublisher(producer TopicPublisher) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// Publish encodes event and writes it to the entity topic.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type(), err)
	}
	return p.producer.Publish(ctx, event.Topic(), []byte(event.EntityID), body)
}
