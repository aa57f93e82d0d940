package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ClaimNextOrderCommandHandler pops the next eligible order off the dispatch
// queue and hands it to the acting courier. The claim itself happens inside
// the queue's revalidating pop; the actual binding reuses the assignment path
// so both entry points apply the same gates.
type ClaimNextOrderCommandHandler struct {
	queue  *services.DispatchQueue
	assign AssignCourierCommandHandler
}

// NewClaimNextOrderCommandHandler creates a handler for queue-driven claiming.
func NewClaimNextOrderCommandHandler(
	queue *services.DispatchQueue,
	uowFactory UoWFactory,
	identity ports.IdentityProvider,
	fanout *OrderChangeFanout,
) ClaimNextOrderCommandHandler {
	return ClaimNextOrderCommandHandler{
		queue:  queue,
		assign: NewAssignCourierCommandHandler(uowFactory, identity, fanout),
	}
}

// Handle claims the next available order for the courier and returns its id.
// Fails with services.ErrNoneAvailable when the queue holds nothing claimable.
func (h ClaimNextOrderCommandHandler) Handle(
	ctx context.Context,
	cmd ClaimNextOrderCommand,
) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	orderID, err := h.queue.ClaimNext(ctx)
	if err != nil {
		return kernel.UUID{}, err
	}

	assignCmd, err := NewAssignCourierCommand(orderID, cmd.CourierID())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = h.assign.Handle(ctx, assignCmd); err != nil {
		return kernel.UUID{}, err
	}

	return orderID, nil
}
