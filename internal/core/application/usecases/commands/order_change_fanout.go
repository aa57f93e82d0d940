package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// OrderChangeFanout propagates a committed order write to the interested
// parties outside the transaction: the dispatch queue re-checks eligibility
// and the event stream receives an order-changed event.
//
// Both effects are post-commit and best effort. A publish failure is logged
// and swallowed; the write itself has already succeeded.
type OrderChangeFanout struct {
	queue     *services.DispatchQueue
	publisher ports.OrderEventPublisher
	logger    *slog.Logger
}

// NewOrderChangeFanout wires the fanout. Queue and publisher may each be nil
// when the corresponding effect is not configured.
func NewOrderChangeFanout(
	queue *services.DispatchQueue,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) *OrderChangeFanout {
	return &OrderChangeFanout{
		queue:     queue,
		publisher: publisher,
		logger:    logger.With("component", "order_change_fanout"),
	}
}

// OrderChanged must be called after every committed order write. The
// restaurant may be nil when unknown; the queue then judges eligibility
// without the courier-pool restriction.
func (f *OrderChangeFanout) OrderChanged(ctx context.Context, o *order.Order, r *restaurant.Restaurant) {
	if f == nil {
		return
	}

	if f.queue != nil {
		f.queue.OnOrderChanged(o, r)
	}

	if f.publisher != nil {
		if err := f.publisher.PublishOrderChanged(ctx, o); err != nil {
			f.logger.WarnContext(ctx, "order-changed publish failed",
				"order_id", o.ID().String(),
				"status", o.Status().String(),
				"error", err,
			)
		}
	}
}
