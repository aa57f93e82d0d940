package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ReportLocationCommandHandler records a courier's position against an order
// in transit. Only the order's own courier (or an admin) may report, and only
// while the order is ON_TRANSIT.
type ReportLocationCommandHandler struct {
	uowFactory OrderUoWFactory
	identity   ports.IdentityProvider
	policy     services.AccessPolicy
}

// NewReportLocationCommandHandler creates a handler for position reports.
func NewReportLocationCommandHandler(
	uowFactory OrderUoWFactory,
	identity ports.IdentityProvider,
) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		uowFactory: uowFactory,
		identity:   identity,
		policy:     services.NewAccessPolicy(),
	}
}

// Handle processes the position report.
func (h ReportLocationCommandHandler) Handle(ctx context.Context, cmd ReportLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	role, err := h.identity.RoleOf(ctx, cmd.CourierID())
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

	if err = h.policy.Authorize(role, cmd.CourierID(), o); err != nil {
		return err
	}
	if role != account.Courier && role != account.Admin {
		return fmt.Errorf("%w: role %s may not report positions", services.ErrForbidden, role)
	}

	if err = o.ReportLocation(cmd.Position()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
