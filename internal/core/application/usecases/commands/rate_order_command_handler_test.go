package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRateOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	testOrder := makeOrder(t, order.Delivered)
	clientID := *testOrder.CustomerID()
	courierRating, restaurantRating := 5, 4
	cmd, err := commands.NewRateOrderCommand(testOrder.ID(), clientID, &courierRating, &restaurantRating)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	identity := new(MockIdentityProvider)

	identity.On("RoleOf", ctx, clientID).Return(account.Client, nil).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRateOrderCommandHandler(factory, identity)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, testOrder.RatingCourier())
	require.NotNil(t, testOrder.RatingRestaurant())
	assert.Equal(t, 5, *testOrder.RatingCourier())
	assert.Equal(t, 4, *testOrder.RatingRestaurant())
	uow.AssertExpectations(t)
}

func TestRateOrderCommandHandler_Handle_UndeliveredOrderCannotBeRated(t *testing.T) {
	ctx := t.Context()

	testOrder := makeOrder(t, order.OnTransit)
	clientID := *testOrder.CustomerID()
	rating := 5
	cmd, err := commands.NewRateOrderCommand(testOrder.ID(), clientID, &rating, nil)
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

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRateOrderCommandHandler(factory, identity)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrOrderNotDelivered)
	assert.Nil(t, testOrder.RatingCourier())
}

func TestRateOrderCommandHandler_Handle_CourierMayNotRate(t *testing.T) {
	ctx := t.Context()

	courierID := kernel.NewUUID()
	testOrder := makeOrder(t, order.Delivered)
	require.NoError(t, testOrder.AssignCourier(courierID))
	rating := 3
	cmd, err := commands.NewRateOrderCommand(testOrder.ID(), courierID, &rating, nil)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	identity := new(MockIdentityProvider)

	identity.On("RoleOf", ctx, courierID).Return(account.Courier, nil).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRateOrderCommandHandler(factory, identity)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, services.ErrForbidden)
}
