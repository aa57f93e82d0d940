// Package http exposes the dispatch operations over a JSON API. The acting
// account is carried in the X-Account-ID header; the core resolves its role
// and applies the permission gates, so the transport stays authorization-free.
package http

import (
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// AccountHeader names the header carrying the acting account's id.
const AccountHeader = "X-Account-ID"

// Server wires the HTTP routes to the command and query handlers.
type Server struct {
	createOrderHandler      commands.CreateOrderCommandHandler
	createRestaurantHandler commands.CreateRestaurantCommandHandler
	changeStatusHandler     commands.ChangeOrderStatusCommandHandler
	assignCourierHandler    commands.AssignCourierCommandHandler
	claimNextHandler        commands.ClaimNextOrderCommandHandler
	recordIncidentHandler   commands.RecordIncidentCommandHandler
	reportLocationHandler   commands.ReportLocationCommandHandler
	rateOrderHandler        commands.RateOrderCommandHandler

	getStatusHandler   queries.GetOrderStatusQueryHandler
	getIncidentHandler queries.GetIncidentQueryHandler
	getETAHandler      queries.GetDeliveryETAQueryHandler
}

// NewServer creates the HTTP server over the given handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	createRestaurantHandler commands.CreateRestaurantCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	assignCourierHandler commands.AssignCourierCommandHandler,
	claimNextHandler commands.ClaimNextOrderCommandHandler,
	recordIncidentHandler commands.RecordIncidentCommandHandler,
	reportLocationHandler commands.ReportLocationCommandHandler,
	rateOrderHandler commands.RateOrderCommandHandler,
	getStatusHandler queries.GetOrderStatusQueryHandler,
	getIncidentHandler queries.GetIncidentQueryHandler,
	getETAHandler queries.GetDeliveryETAQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		createRestaurantHandler: createRestaurantHandler,
		changeStatusHandler:     changeStatusHandler,
		assignCourierHandler:    assignCourierHandler,
		claimNextHandler:        claimNextHandler,
		recordIncidentHandler:   recordIncidentHandler,
		reportLocationHandler:   reportLocationHandler,
		rateOrderHandler:        rateOrderHandler,
		getStatusHandler:        getStatusHandler,
		getIncidentHandler:      getIncidentHandler,
		getETAHandler:           getETAHandler,
	}
}

// RegisterRoutes binds all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/restaurants", s.CreateRestaurant)
	api.POST("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/courier", s.AssignCourier)
	api.POST("/deliveries/claim", s.ClaimNextOrder)
	api.POST("/orders/:id/incident", s.RecordIncident)
	api.POST("/orders/:id/location", s.ReportLocation)
	api.POST("/orders/:id/rating", s.RateOrder)

	api.GET("/orders/:id/status", s.GetOrderStatus)
	api.GET("/orders/:id/incident", s.GetIncident)
	api.GET("/orders/:id/eta", s.GetDeliveryETA)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "invalid customer_id")
	}
	restaurantID, err := kernel.UUIDFromString(req.Restaurant)
	if err != nil {
		return badRequest(ctx, "invalid restaurant_id")
	}

	cmd, err := commands.NewCreateOrderCommand(
		orderID, customerID, restaurantID, req.Address, req.PrepMinutes, req.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// CreateRestaurant handles POST /api/v1/restaurants.
func (s *Server) CreateRestaurant(ctx echo.Context) error {
	var req NewRestaurantRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return badRequest(ctx, "invalid restaurant_id")
	}

	location, err := kernel.NewGeoPoint(req.Lat, req.Lon)
	if err != nil {
		return writeError(ctx, err)
	}

	pool := make([]kernel.UUID, 0, len(req.PreferredCouriers))
	for _, raw := range req.PreferredCouriers {
		courierID, poolErr := kernel.UUIDFromString(raw)
		if poolErr != nil {
			return badRequest(ctx, "invalid preferred_couriers entry")
		}
		pool = append(pool, courierID)
	}

	cmd, err := commands.NewCreateRestaurantCommand(restaurantID, location, req.DeliveryZoneKm, pool)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.createRestaurantHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// ChangeOrderStatus handles POST /api/v1/orders/:id/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, actorID, err := s.orderAndActor(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req ChangeStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actorID, req.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignCourier handles POST /api/v1/orders/:id/courier. The acting account is
// the courier taking the order.
func (s *Server) AssignCourier(ctx echo.Context) error {
	orderID, actorID, err := s.orderAndActor(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, actorID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.assignCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ClaimNextOrder handles POST /api/v1/deliveries/claim.
func (s *Server) ClaimNextOrder(ctx echo.Context) error {
	actorID, err := s.actor(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewClaimNextOrderCommand(actorID)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := s.claimNextHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ClaimResponse{OrderID: orderID.String()})
}

// RecordIncident handles POST /api/v1/orders/:id/incident.
func (s *Server) RecordIncident(ctx echo.Context) error {
	orderID, actorID, err := s.orderAndActor(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req IncidentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewRecordIncidentCommand(orderID, actorID, req.Kind, req.Reason, req.Value)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.recordIncidentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportLocation handles POST /api/v1/orders/:id/location.
func (s *Server) ReportLocation(ctx echo.Context) error {
	orderID, actorID, err := s.orderAndActor(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req LocationRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	position, err := kernel.NewGeoPoint(req.Lat, req.Lon)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewReportLocationCommand(orderID, actorID, position)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.reportLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RateOrder handles POST /api/v1/orders/:id/rating.
func (s *Server) RateOrder(ctx echo.Context) error {
	orderID, actorID, err := s.orderAndActor(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req RatingRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewRateOrderCommand(orderID, actorID, req.CourierRating, req.RestaurantRating)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.rateOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderStatus handles GET /api/v1/orders/:id/status.
func (s *Server) GetOrderStatus(ctx echo.Context) error {
	orderID, actorID, err := s.orderAndActor(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrderStatusQuery(orderID, actorID)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.getStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderStatusResponse{
		OrderID: resp.OrderID.String(),
		Status:  resp.Status,
	})
}

// GetIncident handles GET /api/v1/orders/:id/incident.
func (s *Server) GetIncident(ctx echo.Context) error {
	orderID, actorID, err := s.orderAndActor(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetIncidentQuery(orderID, actorID)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.getIncidentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, IncidentResponse{
		OrderID: resp.OrderID.String(),
		Kind:    resp.Kind,
		Reason:  resp.Reason,
		Value:   resp.Value,
	})
}

// GetDeliveryETA handles GET /api/v1/orders/:id/eta.
func (s *Server) GetDeliveryETA(ctx echo.Context) error {
	orderID, actorID, err := s.orderAndActor(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetDeliveryETAQuery(orderID, actorID)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.getETAHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ETAResponse{
		OrderID:              resp.OrderID.String(),
		EstimatedDeliveryAt:  resp.EstimatedDeliveryAt.UTC().Format(time.RFC3339),
		IncidentDelayMinutes: resp.IncidentDelayMinutes,
	})
}

func (s *Server) actor(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Request().Header.Get(AccountHeader))
}

func (s *Server) orderAndActor(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	actorID, err := s.actor(ctx)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	return orderID, actorID, nil
}
