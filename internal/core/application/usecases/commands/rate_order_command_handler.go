package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// RateOrderCommandHandler stores the customer's ratings for a delivered order.
// Only the ordering client (or an admin) may rate.
type RateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	identity   ports.IdentityProvider
	policy     services.AccessPolicy
}

// NewRateOrderCommandHandler creates a handler for order rating.
func NewRateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	identity ports.IdentityProvider,
) RateOrderCommandHandler {
	return RateOrderCommandHandler{
		uowFactory: uowFactory,
		identity:   identity,
		policy:     services.NewAccessPolicy(),
	}
}

// Handle processes the rating command.
func (h RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	role, err := h.identity.RoleOf(ctx, cmd.ActorID())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.policy.Authorize(role, cmd.ActorID(), o); err != nil {
		return err
	}
	if role != account.Client && role != account.Admin {
		return fmt.Errorf("%w: role %s may not rate orders", services.ErrForbidden, role)
	}

	if err = o.Rate(cmd.CourierRating(), cmd.RestaurantRating()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
