package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFromError maps a core error to an HTTP status code. The permission
// surface is deliberately coarse: every gate failure is 403, every empty or
// missing target 404, and lifecycle conflicts 409.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, commands.ErrBadCourier):
		return http.StatusForbidden

	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, services.ErrNoneAvailable):
		return http.StatusNotFound

	case errors.Is(err, order.ErrAlreadyDelivered),
		errors.Is(err, order.ErrOrderRejected),
		errors.Is(err, order.ErrCourierAlreadyAssigned),
		errors.Is(err, order.ErrOrderNotInTransit),
		errors.Is(err, order.ErrOrderNotDelivered):
		return http.StatusConflict

	case errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidIncidentKind),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// writeError renders the uniform error payload for a core error.
func writeError(ctx echo.Context, err error) error {
	code := statusFromError(err)
	return ctx.JSON(code, Error{
		Code:    code,
		Message: err.Error(),
	})
}

// badRequest renders a 400 with a fixed message, used for malformed payloads
// before any core code runs.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
