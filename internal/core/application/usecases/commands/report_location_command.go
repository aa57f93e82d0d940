package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReportLocationCommandIsNotConstructed = errors.New(
	"ReportLocationCommand must be created via NewReportLocationCommand constructor",
)

// ReportLocationCommand represents a courier reporting their current position
// while delivering an order.
type ReportLocationCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	position  kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewReportLocationCommand creates a command to report a courier position.
func NewReportLocationCommand(
	orderID kernel.UUID,
	courierID kernel.UUID,
	position kernel.GeoPoint,
) (ReportLocationCommand, error) {
	cmd := ReportLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCourierID(courierID),
		cmd.setPosition(position),
	); err != nil {
		return ReportLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c ReportLocationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the acting courier's identifier.
func (c ReportLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Position returns the reported coordinates.
func (c ReportLocationCommand) Position() kernel.GeoPoint {
	return c.position
}

func (c *ReportLocationCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *ReportLocationCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}

func (c *ReportLocationCommand) setPosition(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.position = p
	return nil
}
