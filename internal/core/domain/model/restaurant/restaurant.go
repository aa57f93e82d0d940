// Package restaurant contains the Restaurant aggregate: the vendor's location,
// its delivery zone and its courier-pool policy. A restaurant with a non-empty
// preferred courier list handles dispatch itself; its orders never enter the
// shared assignment queue.
package restaurant

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrRestaurantIsNotConstructed is returned when a Restaurant instance was not
// created through NewRestaurant or RestoreRestaurant.
var ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant constructor")

// Restaurant is the vendor-side aggregate. It is deliberately small: the
// dispatch core only needs its location (ETA origin), its delivery zone radius
// and whether it restricts dispatch to its own couriers.
type Restaurant struct {
	id       kernel.UUID
	location kernel.GeoPoint

	// deliveryZoneKm is the radius, in kilometers, the restaurant delivers to.
	deliveryZoneKm float64

	// preferredCouriers restricts the restaurant to its own courier pool.
	// Empty means the restaurant uses the shared pool.
	preferredCouriers []kernel.UUID

	guard guard.ConstructorGuard
}

// NewRestaurant creates a Restaurant with validation.
func NewRestaurant(
	id kernel.UUID,
	location kernel.GeoPoint,
	deliveryZoneKm float64,
	preferredCouriers []kernel.UUID,
) (*Restaurant, error) {
	r := &Restaurant{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setLocation(location),
		r.setDeliveryZoneKm(deliveryZoneKm),
		r.setPreferredCouriers(preferredCouriers),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRestaurant reconstructs a Restaurant from persistent storage.
func RestoreRestaurant(
	id kernel.UUID,
	location kernel.GeoPoint,
	deliveryZoneKm float64,
	preferredCouriers []kernel.UUID,
) (*Restaurant, error) {
	return NewRestaurant(id, location, deliveryZoneKm, preferredCouriers)
}

// Validate ensures the Restaurant was created through a constructor.
func (r *Restaurant) Validate() error {
	if r == nil {
		return ErrRestaurantIsNotConstructed
	}
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

// IsEqual compares two restaurants by identifier.
func (r *Restaurant) IsEqual(other *Restaurant) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the restaurant's unique identifier.
func (r *Restaurant) ID() kernel.UUID {
	return r.id
}

// Location returns the restaurant's coordinates, the origin for pre-pickup ETAs.
func (r *Restaurant) Location() kernel.GeoPoint {
	return r.location
}

// DeliveryZoneKm returns the delivery radius in kilometers.
func (r *Restaurant) DeliveryZoneKm() float64 {
	return r.deliveryZoneKm
}

// PreferredCouriers returns a copy of the restaurant's own courier pool.
func (r *Restaurant) PreferredCouriers() []kernel.UUID {
	out := make([]kernel.UUID, len(r.preferredCouriers))
	copy(out, r.preferredCouriers)
	return out
}

// UsesOwnCouriers reports whether the restaurant restricts dispatch to its own
// courier pool. Orders of such restaurants never enter the shared queue.
func (r *Restaurant) UsesOwnCouriers() bool {
	return len(r.preferredCouriers) > 0
}

// HasPreferredCourier reports whether the courier belongs to this restaurant's pool.
func (r *Restaurant) HasPreferredCourier(courierID kernel.UUID) bool {
	for _, id := range r.preferredCouriers {
		if id.IsEqual(courierID) {
			return true
		}
	}
	return false
}

// Delivers reports whether the address falls inside the delivery zone.
func (r *Restaurant) Delivers(address kernel.GeoPoint) (bool, error) {
	km, err := r.location.DistanceKm(address)
	if err != nil {
		return false, err
	}
	return km <= r.deliveryZoneKm, nil
}

func (r *Restaurant) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Restaurant) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	r.location = location
	return nil
}

func (r *Restaurant) setDeliveryZoneKm(km float64) error {
	if km <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("deliveryZoneKm",
			fmt.Errorf("%f is not greater than 0", km))
	}
	r.deliveryZoneKm = km
	return nil
}

func (r *Restaurant) setPreferredCouriers(couriers []kernel.UUID) error {
	for _, id := range couriers {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	r.preferredCouriers = make([]kernel.UUID, len(couriers))
	copy(r.preferredCouriers, couriers)
	return nil
}
