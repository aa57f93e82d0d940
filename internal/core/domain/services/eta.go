package services

import (
	"fmt"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/pkg/errs"
)

// AverageCourierSpeedKmh is the fixed average road speed the transit-time
// estimate assumes.
const AverageCourierSpeedKmh = 30.0

// TransitMinutes estimates the courier travel time between two points:
// round(60 * haversineKm / AverageCourierSpeedKmh).
func TransitMinutes(from, to kernel.GeoPoint) (int, error) {
	km, err := from.DistanceKm(to)
	if err != nil {
		return 0, err
	}
	return int(math.Round(60 * km / AverageCourierSpeedKmh)), nil
}

// ETACalculator derives a delivery-time estimate from the order's status,
// geodesic distance and accumulated incident delay. It is read-only and never
// mutates state.
//
// The estimate branches on status:
//   - PENDING/ACCEPTED/PREPARING: orderTime + prep estimate + transit from the
//     restaurant to the delivery address (prep defaults to 30 minutes when unset)
//   - GIVEN_TO_COURIER: pickupTime + transit from the restaurant
//   - ON_TRANSIT: now + transit from the courier's reported position
//   - DELIVERED fails with order.ErrAlreadyDelivered, REJECTED with
//     order.ErrOrderRejected, anything else with order.ErrInvalidStatus
//
// Whatever the branch, the incident's delay minutes (0 when absent) are added
// to the final result.
type ETACalculator struct {
	now func() time.Time
}

// NewETACalculator creates a calculator using the wall clock.
func NewETACalculator() ETACalculator {
	return NewETACalculatorWithClock(time.Now)
}

// NewETACalculatorWithClock creates a calculator with an injected clock.
func NewETACalculatorWithClock(now func() time.Time) ETACalculator {
	return ETACalculator{now: now}
}

// EstimatedDeliveryTime computes the estimate for the order. The restaurant is
// required for every pre-transit branch (it is the travel origin).
func (c ETACalculator) EstimatedDeliveryTime(
	o *order.Order,
	r *restaurant.Restaurant,
) (time.Time, error) {
	if err := o.Validate(); err != nil {
		return time.Time{}, err
	}

	base, err := c.baseEstimate(o, r)
	if err != nil {
		return time.Time{}, err
	}

	return base.Add(time.Duration(o.Incident().DelayMinutes()) * time.Minute), nil
}

func (c ETACalculator) baseEstimate(o *order.Order, r *restaurant.Restaurant) (time.Time, error) {
	switch o.Status() {
	case order.Pending, order.Accepted, order.Preparing:
		transit, err := c.transitFromRestaurant(o, r)
		if err != nil {
			return time.Time{}, err
		}
		return o.OrderTime().
			Add(time.Duration(o.EffectivePrepMinutes()) * time.Minute).
			Add(time.Duration(transit) * time.Minute), nil

	case order.GivenToCourier:
		pickup := o.PickupTime()
		if pickup == nil {
			return time.Time{}, errs.NewValueIsRequiredError("pickupTime")
		}
		transit, err := c.transitFromRestaurant(o, r)
		if err != nil {
			return time.Time{}, err
		}
		return pickup.Add(time.Duration(transit) * time.Minute), nil

	case order.OnTransit:
		loc := o.CurrentLocation()
		if loc == nil {
			return time.Time{}, errs.NewValueIsRequiredError("currentLocation")
		}
		transit, err := TransitMinutes(*loc, o.DeliveryAddress())
		if err != nil {
			return time.Time{}, err
		}
		return c.now().Add(time.Duration(transit) * time.Minute), nil

	case order.Delivered:
		return time.Time{}, order.ErrAlreadyDelivered

	case order.Rejected:
		return time.Time{}, order.ErrOrderRejected

	default:
		return time.Time{}, fmt.Errorf("%w: %d", order.ErrInvalidStatus, o.Status())
	}
}

func (ETACalculator) transitFromRestaurant(o *order.Order, r *restaurant.Restaurant) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return TransitMinutes(r.Location(), o.DeliveryAddress())
}
