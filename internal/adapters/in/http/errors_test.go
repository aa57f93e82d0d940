package http

import (
	"fmt"
	"net/http"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", services.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"wrapped forbidden", fmt.Errorf("%w: not yours", services.ErrForbidden), http.StatusForbidden},
		{"bad courier", commands.ErrBadCourier, http.StatusForbidden},
		{"not found", errs.NewObjectNotFoundError("order", "x"), http.StatusNotFound},
		{"queue empty", services.ErrNoneAvailable, http.StatusNotFound},
		{"already delivered", order.ErrAlreadyDelivered, http.StatusConflict},
		{"order rejected", order.ErrOrderRejected, http.StatusConflict},
		{"courier taken", order.ErrCourierAlreadyAssigned, http.StatusConflict},
		{"not in transit", order.ErrOrderNotInTransit, http.StatusConflict},
		{"not delivered", order.ErrOrderNotDelivered, http.StatusConflict},
		{"unknown status text", order.ErrInvalidStatus, http.StatusBadRequest},
		{"unknown incident kind", order.ErrInvalidIncidentKind, http.StatusBadRequest},
		{"missing value", errs.NewValueIsRequiredError("address"), http.StatusBadRequest},
		{"anything else", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
