// Package queries contains the read operations of the dispatch core. Queries
// never mutate state; they apply the same participant gating as the writes
// and return thin response values rather than aggregates.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderStatusQueryIsNotConstructed = errors.New(
	"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
)

// GetOrderStatusQuery retrieves the current lifecycle status of an order on
// behalf of an acting account.
type GetOrderStatusQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderStatusQuery creates a query for an order's status.
func NewGetOrderStatusQuery(orderID, actorID kernel.UUID) (GetOrderStatusQuery, error) {
	q := GetOrderStatusQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setOrderID(orderID),
		q.setActorID(actorID),
	); err != nil {
		return GetOrderStatusQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (q GetOrderStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

// ActorID returns the acting account's identifier.
func (q GetOrderStatusQuery) ActorID() kernel.UUID {
	return q.actorID
}

func (q *GetOrderStatusQuery) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.orderID = id
	return nil
}

func (q *GetOrderStatusQuery) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.actorID = id
	return nil
}

// GetOrderStatusQueryResponse carries the status in wire form.
type GetOrderStatusQueryResponse struct {
	OrderID kernel.UUID
	Status  string
}
