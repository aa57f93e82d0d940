package services

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// EscalationNotifier is the side-effect surface of the escalation chain.
// ports.Notifier satisfies it.
type EscalationNotifier interface {
	Notify(ctx context.Context, accountID kernel.UUID, message string) error
	Escalate(ctx context.Context, o *order.Order, details string) error
}

// escalationRule pairs a predicate on the incident kind with the side effect
// to run. Rules are NOT mutually exclusive: every rule whose predicate matches
// fires, in table order, with no short-circuit.
type escalationRule struct {
	name    string
	matches func(kind order.IncidentKind) bool
	act     func(ctx context.Context, c *EscalationChain, o *order.Order, inc *order.Incident) error
}

// EscalationChain fans out notifications after an incident write.
//
// Rule table (a kind can hit several rows):
//
//	CANCELLED_BY_CLIENT      -> notify restaurant, notify courier
//	CANCELLED_BY_RESTAURANT  -> notify customer, contact helpline
//	DELIVERY_UNSUCCESSFUL    -> notify customer, contact helpline
//	DELIVERY_DELAYED         -> notify customer
//	OTHER                    -> contact helpline
//
// NONE and the unattributed CANCELLED match no rule and fire nothing. That gap
// is preserved from the observed behavior rather than papered over.
//
// Notification failures are logged and counted but never propagated and never
// retried here; retry policy belongs to the notifier adapter.
type EscalationChain struct {
	notifier EscalationNotifier
	logger   *slog.Logger

	// notifications counts successfully delivered escalation side effects.
	// May be nil.
	notifications counter
}

// NewEscalationChain creates the chain around a notifier.
func NewEscalationChain(notifier EscalationNotifier, logger *slog.Logger, notifications counter) *EscalationChain {
	return &EscalationChain{
		notifier:      notifier,
		logger:        logger.With("component", "escalation_chain"),
		notifications: notifications,
	}
}

// Run evaluates the full rule table against the incident and executes every
// matching action. Returns the number of rules that fired.
func (c *EscalationChain) Run(ctx context.Context, o *order.Order, incident *order.Incident) int {
	fired := 0
	for _, rule := range getEscalationRules() {
		if !rule.matches(incident.Kind()) {
			continue
		}
		fired++

		if err := rule.act(ctx, c, o, incident); err != nil {
			c.logger.WarnContext(ctx, "escalation action failed",
				"rule", rule.name,
				"order_id", o.ID().String(),
				"incident_kind", incident.Kind().String(),
				"error", err,
			)
			continue
		}
		inc(c.notifications)
	}
	return fired
}

func getEscalationRules() []escalationRule {
	return []escalationRule{
		{
			name:    "cancelled_by_client_notify_restaurant",
			matches: kindIs(order.IncidentCancelledByClient),
			act: func(ctx context.Context, c *EscalationChain, o *order.Order, inc *order.Incident) error {
				return c.notifyParticipant(ctx, o.RestaurantID(),
					fmt.Sprintf("order %s was cancelled by the client: %s", o.ID(), inc.Reason()))
			},
		},
		{
			name:    "cancelled_by_client_notify_courier",
			matches: kindIs(order.IncidentCancelledByClient),
			act: func(ctx context.Context, c *EscalationChain, o *order.Order, inc *order.Incident) error {
				return c.notifyParticipant(ctx, o.CourierID(),
					fmt.Sprintf("delivery %s was cancelled by the client", o.ID()))
			},
		},
		{
			name:    "cancelled_by_restaurant_notify_customer",
			matches: kindIs(order.IncidentCancelledByRestaurant),
			act: func(ctx context.Context, c *EscalationChain, o *order.Order, inc *order.Incident) error {
				return c.notifyParticipant(ctx, o.CustomerID(),
					fmt.Sprintf("order %s was cancelled by the restaurant: %s", o.ID(), inc.Reason()))
			},
		},
		{
			name:    "cancelled_by_restaurant_contact_helpline",
			matches: kindIs(order.IncidentCancelledByRestaurant),
			act: func(ctx context.Context, c *EscalationChain, o *order.Order, inc *order.Incident) error {
				return c.notifier.Escalate(ctx, o, inc.Reason())
			},
		},
		{
			name:    "delivery_unsuccessful_notify_customer",
			matches: kindIs(order.IncidentDeliveryUnsuccessful),
			act: func(ctx context.Context, c *EscalationChain, o *order.Order, inc *order.Incident) error {
				return c.notifyParticipant(ctx, o.CustomerID(),
					fmt.Sprintf("delivery of order %s was unsuccessful: %s", o.ID(), inc.Reason()))
			},
		},
		{
			name:    "delivery_unsuccessful_contact_helpline",
			matches: kindIs(order.IncidentDeliveryUnsuccessful),
			act: func(ctx context.Context, c *EscalationChain, o *order.Order, inc *order.Incident) error {
				return c.notifier.Escalate(ctx, o, inc.Reason())
			},
		},
		{
			name:    "delivery_delayed_notify_customer",
			matches: kindIs(order.IncidentDeliveryDelayed),
			act: func(ctx context.Context, c *EscalationChain, o *order.Order, inc *order.Incident) error {
				return c.notifyParticipant(ctx, o.CustomerID(),
					fmt.Sprintf("order %s is delayed by %d minutes", o.ID(), inc.DelayMinutes()))
			},
		},
		{
			name:    "other_contact_helpline",
			matches: kindIs(order.IncidentOther),
			act: func(ctx context.Context, c *EscalationChain, o *order.Order, inc *order.Incident) error {
				return c.notifier.Escalate(ctx, o, inc.Reason())
			},
		},
	}
}

func kindIs(kind order.IncidentKind) func(order.IncidentKind) bool {
	return func(k order.IncidentKind) bool { return k == kind }
}

// notifyParticipant sends to the given participant, skipping silently when the
// order has none in that position (e.g. cancelling before a courier exists).
func (c *EscalationChain) notifyParticipant(ctx context.Context, id *kernel.UUID, message string) error {
	if id == nil {
		return nil
	}
	return c.notifier.Notify(ctx, *id, message)
}
