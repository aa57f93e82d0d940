package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// RecordIncidentCommandHandler records an incident against an order and runs
// the escalation chain after the write has been committed.
//
// The incident's identifier is forced to the order's identifier: an order
// carries at most one incident and a later write replaces the earlier one.
// A DELIVERED order rejects incident writes for every role.
type RecordIncidentCommandHandler struct {
	uowFactory OrderUoWFactory
	identity   ports.IdentityProvider
	policy     services.AccessPolicy
	chain      *services.EscalationChain
}

// NewRecordIncidentCommandHandler creates a handler for incident recording.
func NewRecordIncidentCommandHandler(
	uowFactory OrderUoWFactory,
	identity ports.IdentityProvider,
	chain *services.EscalationChain,
) RecordIncidentCommandHandler {
	return RecordIncidentCommandHandler{
		uowFactory: uowFactory,
		identity:   identity,
		policy:     services.NewAccessPolicy(),
		chain:      chain,
	}
}

// Handle processes the incident command. Escalation runs only after a
// successful commit; notification failures never undo the recorded incident.
func (h RecordIncidentCommandHandler) Handle(ctx context.Context, cmd RecordIncidentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	kind, err := order.IncidentKindFromString(cmd.KindText())
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

	if err = h.policy.Authorize(role, cmd.ActorID(), o); err != nil {
		return err
	}

	incident, err := order.NewIncident(o.ID(), kind, cmd.Reason(), cmd.Value())
	if err != nil {
		return err
	}

	if err = o.AttachIncident(incident); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.chain.Run(ctx, o, incident)
	return nil
}
