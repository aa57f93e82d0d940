package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrAddressIsRequired = errors.New("delivery address is required")
)

// CreateOrderCommand represents a request to place a new delivery order.
// The delivery address arrives as text and is geocoded by the handler;
// prepMinutes zero means the restaurant gave no estimate. statusText is
// optional and defaults to PENDING when empty.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	address      string
	prepMinutes  int
	statusText   string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new delivery order.
// Validates the identifiers, the address text and the preparation estimate.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	address string,
	prepMinutes int,
	statusText string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		statusText: statusText,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setRestaurantID(restaurantID),
		cmd.setAddress(address),
		cmd.setPrepMinutes(prepMinutes),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// RestaurantID returns the preparing restaurant's identifier.
func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Address returns the textual delivery address.
func (c CreateOrderCommand) Address() string {
	return c.address
}

// PrepMinutes returns the preparation estimate; zero means unset.
func (c CreateOrderCommand) PrepMinutes() int {
	return c.prepMinutes
}

// StatusText returns the requested initial status; empty means PENDING.
func (c CreateOrderCommand) StatusText() string {
	return c.statusText
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.restaurantID = id
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}
	c.address = address
	return nil
}

func (c *CreateOrderCommand) setPrepMinutes(minutes int) error {
	if minutes < 0 {
		return errs.NewValueIsInvalidError("prepMinutes")
	}
	c.prepMinutes = minutes
	return nil
}

// initialStatus resolves the requested initial status, defaulting to Pending.
func (c CreateOrderCommand) initialStatus() (order.Status, error) {
	if c.statusText == "" {
		return order.Pending, nil
	}
	return order.StatusFromString(c.statusText)
}
