package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateRestaurantCommandIsNotConstructed = errors.New(
	"CreateRestaurantCommand must be created via NewCreateRestaurantCommand constructor",
)

// CreateRestaurantCommand represents a request to register a restaurant with
// its location, delivery zone and optional private courier pool.
type CreateRestaurantCommand struct { //nolint:recvcheck //using for validation
	restaurantID      kernel.UUID
	location          kernel.GeoPoint
	deliveryZoneKm    float64
	preferredCouriers []kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateRestaurantCommand creates a command to register a restaurant.
func NewCreateRestaurantCommand(
	restaurantID kernel.UUID,
	location kernel.GeoPoint,
	deliveryZoneKm float64,
	preferredCouriers []kernel.UUID,
) (CreateRestaurantCommand, error) {
	cmd := CreateRestaurantCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRestaurantID(restaurantID),
		cmd.setLocation(location),
		cmd.setDeliveryZoneKm(deliveryZoneKm),
		cmd.setPreferredCouriers(preferredCouriers),
	); err != nil {
		return CreateRestaurantCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateRestaurantCommand) Validate() error {
	return c.guard.Validate(ErrCreateRestaurantCommandIsNotConstructed)
}

// RestaurantID returns the identifier for the new restaurant.
func (c CreateRestaurantCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Location returns the restaurant's coordinates.
func (c CreateRestaurantCommand) Location() kernel.GeoPoint {
	return c.location
}

// DeliveryZoneKm returns the delivery radius in kilometers.
func (c CreateRestaurantCommand) DeliveryZoneKm() float64 {
	return c.deliveryZoneKm
}

// PreferredCouriers returns the restaurant's own courier pool; empty means
// the shared pool.
func (c CreateRestaurantCommand) PreferredCouriers() []kernel.UUID {
	return c.preferredCouriers
}

func (c *CreateRestaurantCommand) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.restaurantID = id
	return nil
}

func (c *CreateRestaurantCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

func (c *CreateRestaurantCommand) setDeliveryZoneKm(km float64) error {
	if km <= 0 {
		return errs.NewValueIsInvalidError("deliveryZoneKm")
	}
	c.deliveryZoneKm = km
	return nil
}

func (c *CreateRestaurantCommand) setPreferredCouriers(couriers []kernel.UUID) error {
	for _, id := range couriers {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	c.preferredCouriers = couriers
	return nil
}
