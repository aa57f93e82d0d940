package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrClaimNextOrderCommandIsNotConstructed = errors.New(
	"ClaimNextOrderCommand must be created via NewClaimNextOrderCommand constructor",
)

// ClaimNextOrderCommand represents a courier's request to take the next
// available delivery from the shared queue.
type ClaimNextOrderCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimNextOrderCommand creates a command to claim the next queued order.
func NewClaimNextOrderCommand(courierID kernel.UUID) (ClaimNextOrderCommand, error) {
	cmd := ClaimNextOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setCourierID(courierID); err != nil {
		return ClaimNextOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimNextOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimNextOrderCommandIsNotConstructed)
}

// CourierID returns the acting courier's identifier.
func (c ClaimNextOrderCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *ClaimNextOrderCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}
