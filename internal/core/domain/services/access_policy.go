package services

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

var (
	// ErrUnauthenticated is returned when the acting account resolves to an
	// invalid role, i.e. the identity collaborator does not know it.
	ErrUnauthenticated = errors.New("account is not authenticated")

	// ErrForbidden is returned when an authenticated account lacks permission:
	// it is not a participant of the order, its role may not write the target
	// status, or the transition violates chronology.
	ErrForbidden = errors.New("operation is forbidden for this account")
)

// AccessPolicy gates order operations by role and participation. It is
// stateless; the role is resolved per call by the caller and passed in,
// never cached across operations.
type AccessPolicy struct{}

// NewAccessPolicy creates an AccessPolicy.
func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

// Authorize applies the two gates shared by every read and write:
// an invalid role fails with ErrUnauthenticated, and a non-admin account
// that is not the order's customer, courier or vendor fails with ErrForbidden.
func (AccessPolicy) Authorize(role account.Role, actorID kernel.UUID, o *order.Order) error {
	if !role.IsValid() {
		return ErrUnauthenticated
	}

	if role == account.Admin {
		return nil
	}

	if !o.IsParticipant(actorID) {
		return fmt.Errorf("%w: account %s is not a participant of order %s",
			ErrForbidden, actorID, o.ID())
	}

	return nil
}

// AuthorizeStatusWrite applies the status-write gates on top of Authorize:
// the target status must be in the role's permission table. Admin bypasses
// the table (and, by the caller using ForceStatus, the chronology check too).
func (p AccessPolicy) AuthorizeStatusWrite(
	role account.Role,
	actorID kernel.UUID,
	o *order.Order,
	target order.Status,
) error {
	if err := p.Authorize(role, actorID, o); err != nil {
		return err
	}

	if role == account.Admin {
		return nil
	}

	if !target.WritableBy(role) {
		return fmt.Errorf("%w: role %s may not set status %s", ErrForbidden, role, target)
	}

	return nil
}
