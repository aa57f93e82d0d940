package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"

	"github.com/stretchr/testify/require"
)

var baseOrderTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func geoPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func newTestOrder(t *testing.T, prepMinutes int) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		geoPoint(t, 3.3, 4.4),
		prepMinutes,
		baseOrderTime,
		order.Pending,
	)
	require.NoError(t, err)
	return o
}

// orderInStatus walks a fresh order through the chronological chain up to target.
func orderInStatus(t *testing.T, target order.Status, prepMinutes int) *order.Order {
	t.Helper()
	o := newTestOrder(t, prepMinutes)
	if target == order.Pending {
		return o
	}
	if target == order.Rejected {
		require.NoError(t, o.ChangeStatus(order.Rejected, baseOrderTime.Add(time.Minute)))
		return o
	}

	chain := []order.Status{
		order.Accepted, order.Preparing, order.GivenToCourier, order.OnTransit, order.Delivered,
	}
	at := baseOrderTime
	for _, s := range chain {
		at = at.Add(5 * time.Minute)
		require.NoError(t, o.ChangeStatus(s, at))
		if s == target {
			return o
		}
	}
	t.Fatalf("status %s is not reachable", target)
	return nil
}

func testRestaurantAt(t *testing.T, lat, lon float64, couriers ...kernel.UUID) *restaurant.Restaurant {
	t.Helper()
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), geoPoint(t, lat, lon), 500, couriers)
	require.NoError(t, err)
	return r
}
