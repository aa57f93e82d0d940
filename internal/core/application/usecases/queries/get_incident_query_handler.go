package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GetIncidentQueryHandler reads the incident recorded against an order.
// An order without an incident is a not-found outcome, distinct from the
// order itself being unknown.
type GetIncidentQueryHandler struct {
	orders   ports.OrderRepository
	identity ports.IdentityProvider
	policy   services.AccessPolicy
}

// NewGetIncidentQueryHandler creates a handler for incident reads.
func NewGetIncidentQueryHandler(
	orders ports.OrderRepository,
	identity ports.IdentityProvider,
) GetIncidentQueryHandler {
	return GetIncidentQueryHandler{
		orders:   orders,
		identity: identity,
		policy:   services.NewAccessPolicy(),
	}
}

// Handle executes the incident query.
func (h GetIncidentQueryHandler) Handle(
	ctx context.Context,
	query GetIncidentQuery,
) (GetIncidentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetIncidentQueryResponse{}, err
	}

	role, err := h.identity.RoleOf(ctx, query.ActorID())
	if err != nil {
		return GetIncidentQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetIncidentQueryResponse{}, err
	}

	if err = h.policy.Authorize(role, query.ActorID(), o); err != nil {
		return GetIncidentQueryResponse{}, err
	}

	incident := o.Incident()
	if incident == nil {
		return GetIncidentQueryResponse{}, errs.NewObjectNotFoundError("incident", query.OrderID())
	}

	return GetIncidentQueryResponse{
		OrderID: o.ID(),
		Kind:    incident.Kind().String(),
		Reason:  incident.Reason(),
		Value:   incident.Value(),
	}, nil
}
