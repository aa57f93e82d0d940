package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// IncidentKind classifies the exceptional event recorded against an order.
type IncidentKind int

const (
	// IncidentNone is the neutral kind; it fires no escalation rule.
	IncidentNone IncidentKind = iota

	// IncidentDeliveryDelayed marks a late delivery; Value carries extra minutes.
	IncidentDeliveryDelayed

	// IncidentCancelled is a generic cancellation with no attributed side.
	// No escalation rule matches it; only the attributed variants below do.
	IncidentCancelled

	// IncidentCancelledByClient marks a customer-initiated cancellation.
	IncidentCancelledByClient

	// IncidentCancelledByRestaurant marks a restaurant-initiated cancellation.
	IncidentCancelledByRestaurant

	// IncidentDeliveryUnsuccessful marks a delivery attempt that failed.
	IncidentDeliveryUnsuccessful

	// IncidentOther covers everything else; it goes straight to the helpline.
	IncidentOther
)

var (
	// ErrInvalidIncidentKind is returned when parsing unrecognized incident kind text.
	ErrInvalidIncidentKind = errs.NewValueIsInvalidError("incident kind")

	// ErrIncidentIsNotConstructed is returned when an Incident was not created
	// through NewIncident or RestoreIncident.
	ErrIncidentIsNotConstructed = errors.New("Incident must be created via NewIncident constructor")
)

func getIncidentKindStrings() map[IncidentKind]string {
	return map[IncidentKind]string{
		IncidentNone:                  "NONE",
		IncidentDeliveryDelayed:       "DELIVERY_DELAYED",
		IncidentCancelled:             "CANCELLED",
		IncidentCancelledByClient:     "CANCELLED_BY_CLIENT",
		IncidentCancelledByRestaurant: "CANCELLED_BY_RESTAURANT",
		IncidentDeliveryUnsuccessful:  "DELIVERY_UNSUCCESSFUL",
		IncidentOther:                 "OTHER",
	}
}

// IncidentKindFromString parses the wire form of an incident kind.
func IncidentKindFromString(s string) (IncidentKind, error) {
	for kind, str := range getIncidentKindStrings() {
		if str == s {
			return kind, nil
		}
	}
	return IncidentNone, fmt.Errorf("%w: %q", ErrInvalidIncidentKind, s)
}

// Validate checks the kind is one of the registered values.
func (k IncidentKind) Validate() error {
	if _, ok := getIncidentKindStrings()[k]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidIncidentKind, k)
	}
	return nil
}

// String returns the wire form of the kind. Implements fmt.Stringer.
func (k IncidentKind) String() string {
	if str, ok := getIncidentKindStrings()[k]; ok {
		return str
	}
	return "NONE"
}

// Incident is the 1:1 side record of an exceptional event on an order.
// Its identifier always equals the owning order's identifier; recording an
// incident for an order replaces any previous one. An incident may not be
// created or modified once the order is DELIVERED — that guard lives on the
// Order aggregate, which owns the incident.
type Incident struct {
	// id equals the owning order's id (1:1 enforcement).
	id kernel.UUID

	kind   IncidentKind
	reason string

	// value is an optional integer attached to the incident,
	// e.g. extra delay minutes for DELIVERY_DELAYED.
	value *int

	guard guard.ConstructorGuard
}

// NewIncident creates an Incident owned by the order identified by orderID.
func NewIncident(orderID kernel.UUID, kind IncidentKind, reason string, value *int) (*Incident, error) {
	if err := errors.Join(orderID.Validate(), kind.Validate()); err != nil {
		return nil, err
	}

	return &Incident{
		id:     orderID,
		kind:   kind,
		reason: reason,
		value:  value,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// RestoreIncident reconstructs an Incident from persistent storage.
func RestoreIncident(orderID kernel.UUID, kind IncidentKind, reason string, value *int) (*Incident, error) {
	return NewIncident(orderID, kind, reason, value)
}

// Validate ensures the Incident was created through a constructor.
func (i *Incident) Validate() error {
	if i == nil {
		return ErrIncidentIsNotConstructed
	}
	return i.guard.Validate(ErrIncidentIsNotConstructed)
}

// ID returns the incident's identifier, equal to the owning order's id.
func (i *Incident) ID() kernel.UUID {
	return i.id
}

// Kind returns the incident classification.
func (i *Incident) Kind() IncidentKind {
	return i.kind
}

// Reason returns the free-text explanation.
func (i *Incident) Reason() string {
	return i.reason
}

// Value returns the optional integer payload, nil when absent.
func (i *Incident) Value() *int {
	return i.value
}

// DelayMinutes returns the integer payload, defaulting to 0 when absent.
// The ETA engine folds this into every estimate.
func (i *Incident) DelayMinutes() int {
	if i == nil || i.value == nil {
		return 0
	}
	return *i.value
}
