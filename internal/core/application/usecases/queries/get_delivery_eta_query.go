package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDeliveryETAQueryIsNotConstructed = errors.New(
	"GetDeliveryETAQuery must be created via NewGetDeliveryETAQuery constructor",
)

// GetDeliveryETAQuery estimates when an order will reach its delivery address.
type GetDeliveryETAQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveryETAQuery creates a query for an order's delivery estimate.
func NewGetDeliveryETAQuery(orderID, actorID kernel.UUID) (GetDeliveryETAQuery, error) {
	q := GetDeliveryETAQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setOrderID(orderID),
		q.setActorID(actorID),
	); err != nil {
		return GetDeliveryETAQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryETAQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryETAQueryIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (q GetDeliveryETAQuery) OrderID() kernel.UUID {
	return q.orderID
}

// ActorID returns the acting account's identifier.
func (q GetDeliveryETAQuery) ActorID() kernel.UUID {
	return q.actorID
}

func (q *GetDeliveryETAQuery) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.orderID = id
	return nil
}

func (q *GetDeliveryETAQuery) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.actorID = id
	return nil
}

// GetDeliveryETAQueryResponse carries the estimated delivery time.
type GetDeliveryETAQueryResponse struct {
	OrderID              kernel.UUID
	EstimatedDeliveryAt  time.Time
	IncidentDelayMinutes int
}
