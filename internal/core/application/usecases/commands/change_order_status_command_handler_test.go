package commands_test

import (
	"io"
	"log/slog"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardFanout() *commands.OrderChangeFanout {
	return commands.NewOrderChangeFanout(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestChangeOrderStatusCommandHandler_Handle_VendorAccepts(t *testing.T) {
	ctx := t.Context()

	testOrder := makeOrder(t, order.Pending)
	vendorID := *testOrder.RestaurantID()
	rest := makeRestaurant(t, vendorID)
	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), vendorID, "ACCEPTED")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	restRepo := new(MockRestaurantRepository)
	uow := new(MockUoW)
	identity := new(MockIdentityProvider)

	identity.On("RoleOf", ctx, vendorID).Return(account.Vendor, nil).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("RestaurantRepository").Return(restRepo).Once(),
		restRepo.On("Get", ctx, vendorID).Return(rest, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(factory, identity, discardFanout())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Accepted, testOrder.Status())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_InvalidStatusText(t *testing.T) {
	ctx := t.Context()

	testOrder := makeOrder(t, order.Pending)
	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), *testOrder.RestaurantID(), "COOKED")
	require.NoError(t, err)

	factory := new(MockUoWFactory)
	identity := new(MockIdentityProvider)

	handler := commands.NewChangeOrderStatusCommandHandler(factory, identity, discardFanout())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrInvalidStatus)
	factory.AssertNotCalled(t, "Create")
}

func TestChangeOrderStatusCommandHandler_Handle_UnknownActorIsUnauthenticated(t *testing.T) {
	ctx := t.Context()

	testOrder := makeOrder(t, order.Pending)
	strangerID := kernel.NewUUID()
	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), strangerID, "ACCEPTED")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	identity := new(MockIdentityProvider)

	identity.On("RoleOf", ctx, strangerID).Return(account.Invalid, nil).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(factory, identity, discardFanout())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, services.ErrUnauthenticated)
	assert.Equal(t, order.Pending, testOrder.Status())
}

func TestChangeOrderStatusCommandHandler_Handle_ClientMayNotWrite(t *testing.T) {
	ctx := t.Context()

	testOrder := makeOrder(t, order.Pending)
	clientID := *testOrder.CustomerID()
	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), clientID, "ACCEPTED")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	identity := new(MockIdentityProvider)

	identity.On("RoleOf", ctx, clientID).Return(account.Client, nil).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(factory, identity, discardFanout())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, services.ErrForbidden)
	assert.Equal(t, order.Pending, testOrder.Status())
}

func TestChangeOrderStatusCommandHandler_Handle_ChronologyViolationIsForbidden(t *testing.T) {
	ctx := t.Context()

	// PREPARING cannot follow PENDING, even for the vendor who may write it.
	testOrder := makeOrder(t, order.Pending)
	vendorID := *testOrder.RestaurantID()
	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), vendorID, "PREPARING")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	identity := new(MockIdentityProvider)

	identity.On("RoleOf", ctx, vendorID).Return(account.Vendor, nil).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(factory, identity, discardFanout())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, services.ErrForbidden)
	assert.Equal(t, order.Pending, testOrder.Status())
}

func TestChangeOrderStatusCommandHandler_Handle_AdminBypassesChronology(t *testing.T) {
	ctx := t.Context()

	testOrder := makeOrder(t, order.Pending)
	adminID := kernel.NewUUID()
	rest := makeRestaurant(t, *testOrder.RestaurantID())
	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), adminID, "DELIVERED")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	restRepo := new(MockRestaurantRepository)
	uow := new(MockUoW)
	identity := new(MockIdentityProvider)

	identity.On("RoleOf", ctx, adminID).Return(account.Admin, nil).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("RestaurantRepository").Return(restRepo).Once(),
		restRepo.On("Get", ctx, *testOrder.RestaurantID()).Return(rest, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(factory, identity, discardFanout())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, testOrder.Status())
	assert.NotNil(t, testOrder.DeliveredTime())
}

func TestChangeOrderStatusCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()

	orderID := kernel.NewUUID()
	vendorID := kernel.NewUUID()
	cmd, err := commands.NewChangeOrderStatusCommand(orderID, vendorID, "ACCEPTED")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	identity := new(MockIdentityProvider)

	identity.On("RoleOf", ctx, vendorID).Return(account.Vendor, nil).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("order", orderID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(factory, identity, discardFanout())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestChangeOrderStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()

	factory := new(MockUoWFactory)
	identity := new(MockIdentityProvider)
	handler := commands.NewChangeOrderStatusCommandHandler(factory, identity, discardFanout())

	err := handler.Handle(ctx, commands.ChangeOrderStatusCommand{})

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
