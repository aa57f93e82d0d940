package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// DefaultPrepMinutes is assumed when a restaurant never supplied an estimate.
const DefaultPrepMinutes = 30

const (
	ratingMin = 1
	ratingMax = 5
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrStatusNotChronological is returned by ChangeStatus when the target
	// status's registered predecessor is not the order's current status.
	ErrStatusNotChronological = errors.New("status transition is not chronological")

	// ErrAlreadyDelivered is the terminal-state conflict: the order has reached
	// DELIVERED and the requested operation (incident write, ETA) is meaningless.
	ErrAlreadyDelivered = errors.New("order is already delivered")

	// ErrOrderRejected is returned by the ETA engine for rejected orders.
	ErrOrderRejected = errors.New("order was rejected")

	// ErrCourierAlreadyAssigned is returned when assigning a courier to an order
	// that already has one.
	ErrCourierAlreadyAssigned = errors.New("order already has a courier assigned")

	// ErrOrderNotInTransit is returned when reporting a courier location for an
	// order that is not ON_TRANSIT.
	ErrOrderNotInTransit = errors.New("order is not on transit")

	// ErrOrderNotDelivered is returned when rating an order before delivery.
	ErrOrderNotDelivered = errors.New("order is not delivered yet")

	// ErrIncidentMismatch is returned when attaching an incident whose id does
	// not equal the order's id.
	ErrIncidentMismatch = errors.New("incident id must equal order id")
)

// Order is the aggregate root of a delivery. It owns the chronological status
// machine, the participant identifiers, the delivery timestamps and the 1:1
// incident record.
//
// Invariants:
//   - courierID is non-nil only once a courier has been assigned
//   - deliveredTime is set exactly when status transitions to Delivered, never before
//   - pickupTime is stamped on the GivenToCourier transition
//   - currentLocation is set only while the order is OnTransit
//   - at most one incident exists, and its id equals the order id
//   - can only be created through NewOrder / RestoreOrder
type Order struct {
	id     kernel.UUID
	status Status

	customerID   *kernel.UUID
	courierID    *kernel.UUID
	restaurantID *kernel.UUID

	deliveryAddress kernel.GeoPoint
	currentLocation *kernel.GeoPoint

	orderTime     time.Time
	pickupTime    *time.Time
	deliveredTime *time.Time

	// prepMinutes is the restaurant's preparation estimate; zero means
	// "unset" and is read as DefaultPrepMinutes by EffectivePrepMinutes.
	prepMinutes int

	ratingCourier    *int
	ratingRestaurant *int

	incident *Incident

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order with validation. The order starts without a
// courier, with the supplied initial status (callers normally pass Pending)
// and with orderTime as its placement timestamp.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	deliveryAddress kernel.GeoPoint,
	prepMinutes int,
	orderTime time.Time,
	initial Status,
) (*Order, error) {
	o := &Order{
		orderTime: orderTime,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setDeliveryAddress(deliveryAddress),
		o.setPrepMinutes(prepMinutes),
		o.setStatus(initial),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistent storage, including state
// that NewOrder never produces: assigned courier, stamped timestamps, in-transit
// location, ratings and the attached incident.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	customerID *kernel.UUID,
	courierID *kernel.UUID,
	restaurantID *kernel.UUID,
	deliveryAddress kernel.GeoPoint,
	currentLocation *kernel.GeoPoint,
	orderTime time.Time,
	pickupTime *time.Time,
	deliveredTime *time.Time,
	prepMinutes int,
	ratingCourier *int,
	ratingRestaurant *int,
	incident *Incident,
) (*Order, error) {
	o := &Order{
		customerID:       customerID,
		courierID:        courierID,
		restaurantID:     restaurantID,
		currentLocation:  currentLocation,
		orderTime:        orderTime,
		pickupTime:       pickupTime,
		deliveredTime:    deliveredTime,
		ratingCourier:    ratingCourier,
		ratingRestaurant: ratingRestaurant,
		incident:         incident,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setDeliveryAddress(deliveryAddress),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	// Persisted prep estimates may legitimately be zero (unset).
	o.prepMinutes = prepMinutes

	if incident != nil {
		if err := incident.Validate(); err != nil {
			return nil, err
		}
		if !incident.ID().IsEqual(id) {
			return nil, ErrIncidentMismatch
		}
	}

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// CustomerID returns the ordering customer's id, nil when unknown.
func (o *Order) CustomerID() *kernel.UUID {
	return o.customerID
}

// CourierID returns the assigned courier's id, nil while unassigned.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// RestaurantID returns the preparing restaurant's id, nil when unknown.
func (o *Order) RestaurantID() *kernel.UUID {
	return o.restaurantID
}

// DeliveryAddress returns the destination coordinates.
func (o *Order) DeliveryAddress() kernel.GeoPoint {
	return o.deliveryAddress
}

// CurrentLocation returns the courier's last reported position,
// nil unless the order is (or was) on transit.
func (o *Order) CurrentLocation() *kernel.GeoPoint {
	return o.currentLocation
}

// OrderTime returns the placement timestamp.
func (o *Order) OrderTime() time.Time {
	return o.orderTime
}

// PickupTime returns when the courier took the order, nil until then.
func (o *Order) PickupTime() *time.Time {
	return o.pickupTime
}

// DeliveredTime returns when the order was delivered, nil until then.
func (o *Order) DeliveredTime() *time.Time {
	return o.deliveredTime
}

// PrepMinutes returns the raw preparation estimate; zero means unset.
func (o *Order) PrepMinutes() int {
	return o.prepMinutes
}

// EffectivePrepMinutes returns the preparation estimate the ETA engine uses:
// the stored value, or DefaultPrepMinutes when unset/zero.
func (o *Order) EffectivePrepMinutes() int {
	if o.prepMinutes <= 0 {
		return DefaultPrepMinutes
	}
	return o.prepMinutes
}

// RatingCourier returns the customer's courier rating, nil until rated.
func (o *Order) RatingCourier() *int {
	return o.ratingCourier
}

// RatingRestaurant returns the customer's restaurant rating, nil until rated.
func (o *Order) RatingRestaurant() *int {
	return o.ratingRestaurant
}

// Incident returns the attached incident, nil when none was recorded.
func (o *Order) Incident() *Incident {
	return o.incident
}

// IsParticipant reports whether the given account takes part in this order
// as its customer, courier or restaurant vendor.
func (o *Order) IsParticipant(accountID kernel.UUID) bool {
	for _, id := range []*kernel.UUID{o.customerID, o.courierID, o.restaurantID} {
		if id != nil && id.IsEqual(accountID) {
			return true
		}
	}
	return false
}

// ChangeStatus applies a chronological status transition: next's registered
// predecessor must equal the current status, otherwise ErrStatusNotChronological
// is returned. Timestamps are stamped as a side effect: pickupTime on
// GivenToCourier, deliveredTime on Delivered.
func (o *Order) ChangeStatus(next Status, at time.Time) error {
	if err := next.Validate(); err != nil {
		return err
	}

	if !next.CanFollow(o.status) {
		return fmt.Errorf("%w: %s cannot follow %s", ErrStatusNotChronological, next, o.status)
	}

	o.applyStatus(next, at)
	return nil
}

// ForceStatus applies any recognized status regardless of chronology.
// This is the admin override path; it still stamps timestamps.
func (o *Order) ForceStatus(next Status, at time.Time) error {
	if err := next.Validate(); err != nil {
		return err
	}

	o.applyStatus(next, at)
	return nil
}

func (o *Order) applyStatus(next Status, at time.Time) {
	o.status = next

	switch next {
	case GivenToCourier:
		t := at
		o.pickupTime = &t
	case Delivered:
		t := at
		o.deliveredTime = &t
	}
}

// AssignCourier binds a courier to the order. Fails with
// ErrCourierAlreadyAssigned when a courier is already bound.
func (o *Order) AssignCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.courierID != nil {
		return ErrCourierAlreadyAssigned
	}

	o.courierID = &courierID
	return nil
}

// ReportLocation records the courier's current position. Only legal while the
// order is OnTransit.
func (o *Order) ReportLocation(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if o.status != OnTransit {
		return ErrOrderNotInTransit
	}

	o.currentLocation = &p
	return nil
}

// AttachIncident records the incident against the order, replacing any previous
// one. Fails with ErrAlreadyDelivered once the order is terminal and with
// ErrIncidentMismatch when the incident id differs from the order id.
func (o *Order) AttachIncident(incident *Incident) error {
	if err := incident.Validate(); err != nil {
		return err
	}

	if o.status.IsTerminal() {
		return ErrAlreadyDelivered
	}

	if !incident.ID().IsEqual(o.id) {
		return ErrIncidentMismatch
	}

	o.incident = incident
	return nil
}

// Rate stores the customer's ratings. Only delivered orders can be rated;
// either rating may be nil to leave it unset.
func (o *Order) Rate(courierRating, restaurantRating *int) error {
	if o.status != Delivered {
		return ErrOrderNotDelivered
	}

	if err := errors.Join(
		validateRating("courierRating", courierRating),
		validateRating("restaurantRating", restaurantRating),
	); err != nil {
		return err
	}

	if courierRating != nil {
		o.ratingCourier = courierRating
	}
	if restaurantRating != nil {
		o.ratingRestaurant = restaurantRating
	}
	return nil
}

func validateRating(name string, r *int) error {
	if r == nil {
		return nil
	}
	if *r < ratingMin || *r > ratingMax {
		return errs.NewValueIsOutOfRangeError(name, *r, ratingMin, ratingMax)
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = &id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.restaurantID = &id
	return nil
}

func (o *Order) setDeliveryAddress(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.deliveryAddress = p
	return nil
}

func (o *Order) setPrepMinutes(minutes int) error {
	if minutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("prepMinutes",
			fmt.Errorf("%d is negative", minutes))
	}
	o.prepMinutes = minutes
	return nil
}

func (o *Order) setStatus(s Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	o.status = s
	return nil
}
