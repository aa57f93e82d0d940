package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRecordIncidentCommandIsNotConstructed = errors.New(
	"RecordIncidentCommand must be created via NewRecordIncidentCommand constructor",
)

// RecordIncidentCommand represents a request to record an exceptional event
// against an order. The kind arrives in wire form; value is an optional
// integer payload (extra delay minutes for DELIVERY_DELAYED).
type RecordIncidentCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actorID  kernel.UUID
	kindText string
	reason   string
	value    *int

	guard guard.ConstructorGuard
}

// NewRecordIncidentCommand creates a command to record an incident.
func NewRecordIncidentCommand(
	orderID kernel.UUID,
	actorID kernel.UUID,
	kindText string,
	reason string,
	value *int,
) (RecordIncidentCommand, error) {
	cmd := RecordIncidentCommand{
		kindText: kindText,
		reason:   reason,
		value:    value,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
	); err != nil {
		return RecordIncidentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordIncidentCommand) Validate() error {
	return c.guard.Validate(ErrRecordIncidentCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c RecordIncidentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the acting account's identifier.
func (c RecordIncidentCommand) ActorID() kernel.UUID {
	return c.actorID
}

// KindText returns the incident kind in wire form.
func (c RecordIncidentCommand) KindText() string {
	return c.kindText
}

// Reason returns the free-text explanation.
func (c RecordIncidentCommand) Reason() string {
	return c.reason
}

// Value returns the optional integer payload.
func (c RecordIncidentCommand) Value() *int {
	return c.value
}

func (c *RecordIncidentCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *RecordIncidentCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.actorID = id
	return nil
}
