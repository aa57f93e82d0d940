package order

import (
	"fmt"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a strictly chronological state machine: every non-initial
// status has exactly one registered predecessor, and a non-admin transition
// is legal only when the target's predecessor equals the current status.
//
// State transitions:
//
//	PENDING ──┬──> ACCEPTED ──> PREPARING ──> GIVEN_TO_COURIER ──> ON_TRANSIT ──> DELIVERED
//	          │
//	          └──> REJECTED
//
// DELIVERED is terminal: no transition leaves it and no incident may be
// recorded once it is reached.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first placed.
	Pending

	// Accepted indicates the restaurant has taken the order.
	Accepted

	// Rejected indicates the restaurant has declined the order.
	Rejected

	// Preparing indicates the restaurant is cooking.
	Preparing

	// GivenToCourier indicates the courier has picked the order up.
	GivenToCourier

	// OnTransit indicates the courier is under way to the delivery address.
	OnTransit

	// Delivered indicates the order reached the customer. Terminal.
	Delivered
)

// ErrInvalidStatus is returned when parsing unrecognized status text or when an
// operation receives a status value outside the registered set.
var ErrInvalidStatus = errs.NewValueIsInvalidError("delivery status")

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Accepted:       "ACCEPTED",
		Rejected:       "REJECTED",
		Preparing:      "PREPARING",
		GivenToCourier: "GIVEN_TO_COURIER",
		OnTransit:      "ON_TRANSIT",
		Delivered:      "DELIVERED",
	}
}

// getStatusPredecessors returns the chronological predecessor of every
// non-initial status. Pending is the initial status and has no entry.
func getStatusPredecessors() map[Status]Status {
	return map[Status]Status{
		Accepted:       Pending,
		Rejected:       Pending,
		Preparing:      Accepted,
		GivenToCourier: Preparing,
		OnTransit:      GivenToCourier,
		Delivered:      OnTransit,
	}
}

// getRolePermissions returns the status values each role may write.
// Clients never write statuses; admins bypass this table entirely.
func getRolePermissions() map[account.Role][]Status {
	return map[account.Role][]Status{
		account.Vendor:  {Accepted, Rejected, Preparing},
		account.Courier: {OnTransit, Delivered},
		account.Client:  {},
	}
}

// StatusFromString parses the wire form of a status ("PENDING", "ON_TRANSIT", ...).
// Returns ErrInvalidStatus for unrecognized text. "UNKNOWN" is not parseable:
// it exists only to flag uninitialized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Validate checks the status is one of the registered lifecycle values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, s)
	}
	return nil
}

// String returns the wire form of the status. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Predecessor returns the registered chronological predecessor of the status.
// The second result is false for Pending (initial) and unregistered values.
func (s Status) Predecessor() (Status, bool) {
	prev, ok := getStatusPredecessors()[s]
	return prev, ok
}

// CanFollow reports whether a non-admin transition from current to s is
// chronologically legal: s must have current as its registered predecessor.
func (s Status) CanFollow(current Status) bool {
	prev, ok := s.Predecessor()
	return ok && prev == current
}

// WritableBy reports whether the role's permission table allows writing s.
// Admin is not consulted here; admin bypass is the caller's decision.
func (s Status) WritableBy(role account.Role) bool {
	for _, allowed := range getRolePermissions()[role] {
		if allowed == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the order lifecycle.
func (s Status) IsTerminal() bool {
	return s == Delivered
}
