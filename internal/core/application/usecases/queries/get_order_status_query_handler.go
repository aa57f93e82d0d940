package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// GetOrderStatusQueryHandler reads an order's status with the shared
// participant gates: invalid roles are unauthenticated, non-participant
// non-admins are forbidden.
type GetOrderStatusQueryHandler struct {
	orders   ports.OrderRepository
	identity ports.IdentityProvider
	policy   services.AccessPolicy
}

// NewGetOrderStatusQueryHandler creates a handler for status reads.
func NewGetOrderStatusQueryHandler(
	orders ports.OrderRepository,
	identity ports.IdentityProvider,
) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{
		orders:   orders,
		identity: identity,
		policy:   services.NewAccessPolicy(),
	}
}

// Handle executes the status query.
func (h GetOrderStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatusQuery,
) (GetOrderStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	role, err := h.identity.RoleOf(ctx, query.ActorID())
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	if err = h.policy.Authorize(role, query.ActorID(), o); err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	return GetOrderStatusQueryResponse{
		OrderID: o.ID(),
		Status:  o.Status().String(),
	}, nil
}
