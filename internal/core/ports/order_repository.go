// Package ports defines the contracts between the dispatch core and its
// collaborators: repositories, the identity service, the geocoder, the
// notification channel and the event stream. The core never reaches past
// these interfaces.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns an error unwrapping to errs.ErrObjectNotFound when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllUnassigned retrieves orders without a courier in a claimable
	// status (ACCEPTED or PREPARING). Backs the queue-repair job, which
	// re-feeds the dispatch queue after restarts or missed notifications.
	GetAllUnassigned(ctx context.Context) ([]*order.Order, error)
}
