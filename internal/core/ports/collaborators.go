package ports

import (
	"context"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// IdentityProvider resolves the role behind an account id. Resolution happens
// once per operation and is never cached by the core. Unknown or absent
// accounts resolve to account.Invalid rather than an error; the error return
// is reserved for transport failures of the identity service itself.
type IdentityProvider interface {
	RoleOf(ctx context.Context, accountID kernel.UUID) (account.Role, error)
}

// Notifier delivers side-effect messages for the incident escalation chain.
// Both calls are fire-and-forget from the core's perspective: the core logs
// failures but never retries them (retry policy belongs to the adapter).
type Notifier interface {
	// Notify sends a message to a single account (customer, courier or vendor).
	Notify(ctx context.Context, accountID kernel.UUID, message string) error

	// Escalate contacts the helpline with the order and incident context.
	Escalate(ctx context.Context, o *order.Order, details string) error
}

// Geocoder turns a textual delivery address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}

// OrderEventPublisher emits order-changed events to the event stream after a
// successful status write. Best effort: publish failures are logged, never
// propagated to the caller.
type OrderEventPublisher interface {
	PublishOrderChanged(ctx context.Context, o *order.Order) error
}
