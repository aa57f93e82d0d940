package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RateOrderCommand represents the customer rating a delivered order. Either
// rating may be nil to leave that side unrated; range checks belong to the
// aggregate.
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	actorID          kernel.UUID
	courierRating    *int
	restaurantRating *int

	guard guard.ConstructorGuard
}

// NewRateOrderCommand creates a command to rate a delivered order.
func NewRateOrderCommand(
	orderID kernel.UUID,
	actorID kernel.UUID,
	courierRating *int,
	restaurantRating *int,
) (RateOrderCommand, error) {
	cmd := RateOrderCommand{
		courierRating:    courierRating,
		restaurantRating: restaurantRating,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
	); err != nil {
		return RateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c RateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the acting account's identifier.
func (c RateOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// CourierRating returns the courier rating, nil when unrated.
func (c RateOrderCommand) CourierRating() *int {
	return c.courierRating
}

// RestaurantRating returns the restaurant rating, nil when unrated.
func (c RateOrderCommand) RestaurantRating() *int {
	return c.restaurantRating
}

func (c *RateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *RateOrderCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.actorID = id
	return nil
}
