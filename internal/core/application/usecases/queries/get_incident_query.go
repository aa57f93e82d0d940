package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetIncidentQueryIsNotConstructed = errors.New(
	"GetIncidentQuery must be created via NewGetIncidentQuery constructor",
)

// GetIncidentQuery retrieves the incident recorded against an order, if any.
type GetIncidentQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetIncidentQuery creates a query for an order's incident.
func NewGetIncidentQuery(orderID, actorID kernel.UUID) (GetIncidentQuery, error) {
	q := GetIncidentQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setOrderID(orderID),
		q.setActorID(actorID),
	); err != nil {
		return GetIncidentQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetIncidentQuery) Validate() error {
	return q.guard.Validate(ErrGetIncidentQueryIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (q GetIncidentQuery) OrderID() kernel.UUID {
	return q.orderID
}

// ActorID returns the acting account's identifier.
func (q GetIncidentQuery) ActorID() kernel.UUID {
	return q.actorID
}

func (q *GetIncidentQuery) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.orderID = id
	return nil
}

func (q *GetIncidentQuery) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.actorID = id
	return nil
}

// GetIncidentQueryResponse carries the incident in wire form.
// Value is nil when the incident has no integer payload.
type GetIncidentQueryResponse struct {
	OrderID kernel.UUID
	Kind    string
	Reason  string
	Value   *int
}
