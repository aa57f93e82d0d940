package queries

import (
	"context"

	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// GetDeliveryETAQueryHandler computes an order's delivery estimate through the
// ETA calculator. Terminal orders fail the estimate: a DELIVERED order has no
// future and a REJECTED one never ships.
type GetDeliveryETAQueryHandler struct {
	orders      ports.OrderRepository
	restaurants ports.RestaurantRepository
	identity    ports.IdentityProvider
	policy      services.AccessPolicy
	calculator  services.ETACalculator
}

// NewGetDeliveryETAQueryHandler creates a handler for delivery estimates.
func NewGetDeliveryETAQueryHandler(
	orders ports.OrderRepository,
	restaurants ports.RestaurantRepository,
	identity ports.IdentityProvider,
	calculator services.ETACalculator,
) GetDeliveryETAQueryHandler {
	return GetDeliveryETAQueryHandler{
		orders:      orders,
		restaurants: restaurants,
		identity:    identity,
		policy:      services.NewAccessPolicy(),
		calculator:  calculator,
	}
}

// Handle executes the estimate query.
func (h GetDeliveryETAQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryETAQuery,
) (GetDeliveryETAQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryETAQueryResponse{}, err
	}

	role, err := h.identity.RoleOf(ctx, query.ActorID())
	if err != nil {
		return GetDeliveryETAQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetDeliveryETAQueryResponse{}, err
	}

	if err = h.policy.Authorize(role, query.ActorID(), o); err != nil {
		return GetDeliveryETAQueryResponse{}, err
	}

	var rest *restaurant.Restaurant
	if restID := o.RestaurantID(); restID != nil {
		rest, err = h.restaurants.Get(ctx, *restID)
		if err != nil {
			return GetDeliveryETAQueryResponse{}, err
		}
	}

	eta, err := h.calculator.EstimatedDeliveryTime(o, rest)
	if err != nil {
		return GetDeliveryETAQueryResponse{}, err
	}

	return GetDeliveryETAQueryResponse{
		OrderID:              o.ID(),
		EstimatedDeliveryAt:  eta,
		IncidentDelayMinutes: o.Incident().DelayMinutes(),
	}, nil
}
