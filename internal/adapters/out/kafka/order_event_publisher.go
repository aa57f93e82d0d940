// Package kafka publishes order lifecycle events to the event stream. Events
// are emitted best-effort after a successful commit; consumers downstream
// (analytics, customer-facing trackers) tolerate gaps.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// OrderChangedEvent is the wire form of an order lifecycle change.
type OrderChangedEvent struct {
	OrderID      string  `json:"order_id"`
	Status       string  `json:"status"`
	CustomerID   *string `json:"customer_id,omitempty"`
	CourierID    *string `json:"courier_id,omitempty"`
	RestaurantID *string `json:"restaurant_id,omitempty"`
	IncidentKind *string `json:"incident_kind,omitempty"`
	OccurredAt   string  `json:"occurred_at"`
}

// OrderEventPublisher writes order-changed events to a Kafka topic, keyed by
// order id so per-order ordering is preserved within a partition.
type OrderEventPublisher struct {
	writer *kafka.Writer
}

// NewOrderEventPublisher creates a publisher over the given brokers and topic.
func NewOrderEventPublisher(brokers []string, topic string) *OrderEventPublisher {
	return &OrderEventPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// PublishOrderChanged emits a single order-changed event.
func (p *OrderEventPublisher) PublishOrderChanged(ctx context.Context, o *order.Order) error {
	event := OrderChangedEvent{
		OrderID:      o.ID().String(),
		Status:       o.Status().String(),
		CustomerID:   optionalIDString(o.CustomerID()),
		CourierID:    optionalIDString(o.CourierID()),
		RestaurantID: optionalIDString(o.RestaurantID()),
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if incident := o.Incident(); incident != nil {
		kind := incident.Kind().String()
		event.IncidentKind = &kind
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
}

// Close releases the underlying writer.
func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}

func optionalIDString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
