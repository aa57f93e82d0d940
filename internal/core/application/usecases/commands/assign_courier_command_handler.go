package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// AssignCourierCommandHandler binds a shared-pool courier to an order.
//
// The acting account must resolve to the courier role (ErrBadCourier). A
// courier sitting in any restaurant's private pool may not take shared-pool
// work, and an order that already has a courier cannot be taken again; both
// cases surface as permission failures.
type AssignCourierCommandHandler struct {
	uowFactory UoWFactory
	identity   ports.IdentityProvider
	fanout     *OrderChangeFanout
	now        func() time.Time
}

// NewAssignCourierCommandHandler creates a handler for direct courier assignment.
func NewAssignCourierCommandHandler(
	uowFactory UoWFactory,
	identity ports.IdentityProvider,
	fanout *OrderChangeFanout,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		identity:   identity,
		fanout:     fanout,
		now:        time.Now,
	}
}

// Handle processes the assignment command. On success the order carries the
// courier, its status moves to GIVEN_TO_COURIER and the pickup time is
// stamped; the fanout then drops the order from the dispatch queue.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	role, err := h.identity.RoleOf(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if role != account.Courier {
		return fmt.Errorf("%w: account %s resolves to role %s", ErrBadCourier, cmd.CourierID(), role)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pooled, err := uow.RestaurantRepository().IsPreferredCourier(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if pooled {
		return fmt.Errorf("%w: courier %s belongs to a restaurant's own pool",
			services.ErrForbidden, cmd.CourierID())
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	rest, err := h.lookupRestaurant(ctx, uow, o)
	if err != nil {
		return err
	}
	if rest != nil && rest.UsesOwnCouriers() {
		return fmt.Errorf("%w: restaurant %s dispatches its own couriers",
			services.ErrForbidden, rest.ID())
	}

	if err = o.AssignCourier(cmd.CourierID()); err != nil {
		if errors.Is(err, order.ErrCourierAlreadyAssigned) {
			return fmt.Errorf("%w: %s", services.ErrForbidden, err)
		}
		return err
	}

	// Taking the order implies the handover; chronology still applies.
	if o.Status() == order.Preparing {
		if err = o.ChangeStatus(order.GivenToCourier, h.now()); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanout.OrderChanged(ctx, o, rest)
	return nil
}

func (h AssignCourierCommandHandler) lookupRestaurant(
	ctx context.Context,
	uow UoW,
	o *order.Order,
) (*restaurant.Restaurant, error) {
	restID := o.RestaurantID()
	if restID == nil {
		return nil, nil
	}
	return uow.RestaurantRepository().Get(ctx, *restID)
}
