package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ChangeOrderStatusCommandHandler applies a role-gated, chronologically
// ordered status transition.
//
// The gates run in a fixed order: unparseable status text fails first, an
// invalid role fails as unauthenticated, then participation and the
// role-permission table. Admins bypass both the permission table and the
// chronology check; for everyone else a transition whose predecessor does not
// match the current status is a permission failure, not a validation one.
type ChangeOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	identity   ports.IdentityProvider
	policy     services.AccessPolicy
	fanout     *OrderChangeFanout
	now        func() time.Time
}

// NewChangeOrderStatusCommandHandler creates a handler for status transitions.
func NewChangeOrderStatusCommandHandler(
	uowFactory UoWFactory,
	identity ports.IdentityProvider,
	fanout *OrderChangeFanout,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		identity:   identity,
		policy:     services.NewAccessPolicy(),
		fanout:     fanout,
		now:        time.Now,
	}
}

// Handle processes the status change command.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	target, err := order.StatusFromString(cmd.StatusText())
	if err != nil {
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

	if err = h.policy.AuthorizeStatusWrite(role, cmd.ActorID(), o, target); err != nil {
		return err
	}

	if role == account.Admin {
		err = o.ForceStatus(target, h.now())
	} else {
		err = o.ChangeStatus(target, h.now())
		if errors.Is(err, order.ErrStatusNotChronological) {
			err = fmt.Errorf("%w: %s", services.ErrForbidden, err)
		}
	}
	if err != nil {
		return err
	}

	rest, err := h.lookupRestaurant(ctx, uow, o.RestaurantID())
	if err != nil {
		return err
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

// lookupRestaurant fetches the restaurant for queue-eligibility purposes.
// Orders restored without a restaurant reference pass a nil restaurant
// through, which the queue treats as shared pool.
func (h ChangeOrderStatusCommandHandler) lookupRestaurant(
	ctx context.Context,
	uow UoW,
	restaurantID *kernel.UUID,
) (*restaurant.Restaurant, error) {
	if restaurantID == nil {
		return nil, nil
	}
	return uow.RestaurantRepository().Get(ctx, *restaurantID)
}
