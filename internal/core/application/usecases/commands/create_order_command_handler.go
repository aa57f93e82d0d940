package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// CreateOrderCommandHandler places a new order: geocodes the textual delivery
// address, verifies the restaurant exists, persists the aggregate and feeds
// the post-commit fanout (queue + event stream).
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	geocoder   ports.Geocoder
	fanout     *OrderChangeFanout
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	geocoder ports.Geocoder,
	fanout *OrderChangeFanout,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		fanout:     fanout,
		now:        time.Now,
	}
}

// Handle processes the order placement command. The requested initial status
// (default PENDING) is applied as-is; chronology only constrains later writes.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	initial, err := cmd.initialStatus()
	if err != nil {
		return err
	}

	address, err := h.geocoder.Geocode(ctx, cmd.Address())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	rest, err := uow.RestaurantRepository().Get(ctx, cmd.RestaurantID())
	if err != nil {
		return err
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.RestaurantID(),
		address,
		cmd.PrepMinutes(),
		h.now(),
		initial,
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanout.OrderChanged(ctx, o, rest)
	return nil
}
