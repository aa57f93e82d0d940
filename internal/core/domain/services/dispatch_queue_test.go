package services_test

import (
	"context"
	"sync"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCandidateSource is an in-memory stand-in for the repositories the queue
// revalidates against.
type fakeCandidateSource struct {
	mu          sync.Mutex
	orders      map[kernel.UUID]*order.Order
	restaurants map[kernel.UUID]*restaurant.Restaurant
}

func newFakeCandidateSource() *fakeCandidateSource {
	return &fakeCandidateSource{
		orders:      make(map[kernel.UUID]*order.Order),
		restaurants: make(map[kernel.UUID]*restaurant.Restaurant),
	}
}

func (f *fakeCandidateSource) put(o *order.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID()] = o
}

func (f *fakeCandidateSource) putRestaurant(r *restaurant.Restaurant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restaurants[r.ID()] = r
}

func (f *fakeCandidateSource) Order(_ context.Context, id kernel.UUID) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return o, nil
}

func (f *fakeCandidateSource) Restaurant(_ context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.restaurants[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("restaurant", id)
	}
	return r, nil
}

// acceptedOrder builds an ACCEPTED, unassigned order registered with the source
// together with its shared-pool restaurant.
func acceptedOrder(t *testing.T, source *fakeCandidateSource) *order.Order {
	t.Helper()
	o := orderInStatus(t, order.Accepted, 0)
	r, err := restaurant.RestoreRestaurant(*o.RestaurantID(), geoPoint(t, 1.1, 2.2), 500, nil)
	require.NoError(t, err)
	source.put(o)
	source.putRestaurant(r)
	return o
}

func TestEligible(t *testing.T) {
	t.Run("should accept ACCEPTED and PREPARING unassigned orders", func(t *testing.T) {
		for _, s := range []order.Status{order.Accepted, order.Preparing} {
			o := orderInStatus(t, s, 0)
			assert.True(t, services.Eligible(o, nil), "status %s should be eligible", s)
		}
	})

	t.Run("should reject every other status", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Pending, order.Rejected, order.GivenToCourier, order.OnTransit, order.Delivered,
		} {
			o := orderInStatus(t, s, 0)
			assert.False(t, services.Eligible(o, nil), "status %s should not be eligible", s)
		}
	})

	t.Run("should reject an order with a courier already assigned", func(t *testing.T) {
		o := orderInStatus(t, order.Accepted, 0)
		require.NoError(t, o.AssignCourier(kernel.NewUUID()))

		assert.False(t, services.Eligible(o, nil))
	})

	t.Run("should reject an order of a restaurant with its own couriers", func(t *testing.T) {
		o := orderInStatus(t, order.Accepted, 0)
		r := testRestaurantAt(t, 1.1, 2.2, kernel.NewUUID())

		assert.False(t, services.Eligible(o, r))
	})
}

func TestDispatchQueue_OnOrderChanged(t *testing.T) {
	t.Run("should enqueue an eligible order once", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})
		o := acceptedOrder(t, source)

		q.OnOrderChanged(o, nil)
		q.OnOrderChanged(o, nil)

		assert.Equal(t, 1, q.Len())
	})

	t.Run("should not enqueue an ineligible order", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})
		o := orderInStatus(t, order.Pending, 0)

		q.OnOrderChanged(o, nil)

		assert.Equal(t, 0, q.Len())
	})

	t.Run("should remove an order that turned ineligible", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})
		o := acceptedOrder(t, source)
		q.OnOrderChanged(o, nil)

		require.NoError(t, o.AssignCourier(kernel.NewUUID()))
		q.OnOrderChanged(o, nil)

		assert.Equal(t, 0, q.Len())
	})
}

func TestDispatchQueue_ClaimNext(t *testing.T) {
	ctx := context.Background()

	t.Run("should claim orders in FIFO order", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})
		first := acceptedOrder(t, source)
		second := acceptedOrder(t, source)
		q.OnOrderChanged(first, nil)
		q.OnOrderChanged(second, nil)

		id, err := q.ClaimNext(ctx)
		require.NoError(t, err)
		assert.True(t, id.IsEqual(first.ID()))

		id, err = q.ClaimNext(ctx)
		require.NoError(t, err)
		assert.True(t, id.IsEqual(second.ID()))
	})

	t.Run("should fail with ErrNoneAvailable on an empty queue", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})

		_, err := q.ClaimNext(ctx)

		require.Error(t, err)
		require.ErrorIs(t, err, services.ErrNoneAvailable)
	})

	t.Run("should skip an entry that turned stale after enqueue", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})
		stale := acceptedOrder(t, source)
		fresh := acceptedOrder(t, source)
		q.OnOrderChanged(stale, nil)
		q.OnOrderChanged(fresh, nil)

		// The write happened behind the queue's back: only the store knows.
		require.NoError(t, stale.AssignCourier(kernel.NewUUID()))

		id, err := q.ClaimNext(ctx)

		require.NoError(t, err)
		assert.True(t, id.IsEqual(fresh.ID()))
	})

	t.Run("should fail when every entry is stale", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})
		o := acceptedOrder(t, source)
		q.OnOrderChanged(o, nil)

		require.NoError(t, o.ChangeStatus(order.Preparing, baseOrderTime))
		require.NoError(t, o.ChangeStatus(order.GivenToCourier, baseOrderTime))

		_, err := q.ClaimNext(ctx)

		require.Error(t, err)
		require.ErrorIs(t, err, services.ErrNoneAvailable)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("should drop an entry whose order vanished from the store", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})
		o := orderInStatus(t, order.Accepted, 0) // never put into the source

		q.OnOrderChanged(o, nil)

		_, err := q.ClaimNext(ctx)

		require.Error(t, err)
		require.ErrorIs(t, err, services.ErrNoneAvailable)
	})

	t.Run("should drop an order whose restaurant switched to its own couriers", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})
		o := acceptedOrder(t, source)
		q.OnOrderChanged(o, nil)

		pooled, err := restaurant.RestoreRestaurant(
			*o.RestaurantID(), geoPoint(t, 1.1, 2.2), 500, []kernel.UUID{kernel.NewUUID()})
		require.NoError(t, err)
		source.putRestaurant(pooled)

		_, err = q.ClaimNext(ctx)

		require.Error(t, err)
		require.ErrorIs(t, err, services.ErrNoneAvailable)
	})

	t.Run("should hand each order to at most one concurrent claimer", func(t *testing.T) {
		source := newFakeCandidateSource()
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{})

		const orders = 20
		const claimers = 50

		for range orders {
			o := acceptedOrder(t, source)
			q.OnOrderChanged(o, nil)
		}

		var mu sync.Mutex
		claimed := make(map[kernel.UUID]int)
		var wg sync.WaitGroup

		for range claimers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := q.ClaimNext(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				claimed[id]++
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, claimed, orders)
		for id, n := range claimed {
			assert.Equal(t, 1, n, "order %s claimed %d times", id, n)
		}
	})
}

type testCounter struct {
	mu sync.Mutex
	n  int
}

func (c *testCounter) Inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *testCounter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestDispatchQueue_Metrics(t *testing.T) {
	ctx := context.Background()

	t.Run("should count claims, stale drops and empty claims", func(t *testing.T) {
		source := newFakeCandidateSource()
		claims := &testCounter{}
		staleDrops := &testCounter{}
		emptyClaims := &testCounter{}
		q := services.NewDispatchQueue(source, services.DispatchQueueMetrics{
			Claims:      claims,
			StaleDrops:  staleDrops,
			EmptyClaims: emptyClaims,
		})

		stale := acceptedOrder(t, source)
		fresh := acceptedOrder(t, source)
		q.OnOrderChanged(stale, nil)
		q.OnOrderChanged(fresh, nil)
		require.NoError(t, stale.AssignCourier(kernel.NewUUID()))

		_, err := q.ClaimNext(ctx)
		require.NoError(t, err)
		_, err = q.ClaimNext(ctx)
		require.ErrorIs(t, err, services.ErrNoneAvailable)

		assert.Equal(t, 1, claims.value())
		assert.Equal(t, 1, staleDrops.value())
		assert.Equal(t, 1, emptyClaims.value())
	})
}
