package services

import (
	"context"
	"errors"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
)

// ErrNoneAvailable is returned by ClaimNext when the queue holds no order that
// is still eligible at pop time.
var ErrNoneAvailable = errors.New("no deliveries available")

// CandidateSource re-fetches the persisted state of a queued candidate so that
// eligibility can be re-checked at claim time. It is a narrow view of the
// repositories; the composition root adapts them to it.
type CandidateSource interface {
	Order(ctx context.Context, id kernel.UUID) (*order.Order, error)
	Restaurant(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error)
}

// counter is the minimal metrics surface the queue needs.
// prometheus.Counter satisfies it; a nil counter is a no-op.
type counter interface {
	Inc()
}

// DispatchQueueMetrics carries the optional instrumentation of the queue.
// Any field may be nil.
type DispatchQueueMetrics struct {
	// Claims counts successful ClaimNext results.
	Claims counter
	// StaleDrops counts queued entries discarded at pop time because a later
	// write made them ineligible.
	StaleDrops counter
	// EmptyClaims counts ClaimNext calls that exhausted the queue.
	EmptyClaims counter
}

// DispatchQueue is the shared "available deliveries" index: a process-scoped
// FIFO of order ids layered over the externally owned order store.
//
// It is a lazy-invalidation queue. Writes that make a queued order ineligible
// are reflected through OnOrderChanged, but a claim never trusts the queue
// alone: every popped id is re-fetched and re-checked against the store, and
// stale entries are discarded at pop time. This trades a bounded amount of
// wasted dequeue work for not having to synchronize the queue with every
// unrelated field write.
//
// A single mutex covers membership checks, enqueue, and the whole
// pop-and-revalidate loop, so that concurrent ClaimNext calls can never hand
// the same order to two couriers.
type DispatchQueue struct {
	source  CandidateSource
	metrics DispatchQueueMetrics

	mu     sync.Mutex
	ids    []kernel.UUID
	member map[kernel.UUID]struct{}
}

// NewDispatchQueue creates an empty queue over the given candidate source.
func NewDispatchQueue(source CandidateSource, metrics DispatchQueueMetrics) *DispatchQueue {
	return &DispatchQueue{
		source:  source,
		metrics: metrics,
		member:  make(map[kernel.UUID]struct{}),
	}
}

// Eligible reports whether the order is a valid candidate for shared-pool
// claiming: status ACCEPTED or PREPARING, no courier assigned, and the
// restaurant (when known) does not restrict itself to its own couriers.
func Eligible(o *order.Order, r *restaurant.Restaurant) bool {
	if o.Status() != order.Accepted && o.Status() != order.Preparing {
		return false
	}
	if o.CourierID() != nil {
		return false
	}
	if r != nil && r.UsesOwnCouriers() {
		return false
	}
	return true
}

// OnOrderChanged is the queue's single mutation point and must be called after
// every persisted write to an order. An eligible, unqueued order is enqueued
// at the tail; a queued order that is no longer eligible is removed.
func (q *DispatchQueue) OnOrderChanged(o *order.Order, r *restaurant.Restaurant) {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, queued := q.member[o.ID()]

	switch {
	case Eligible(o, r) && !queued:
		q.ids = append(q.ids, o.ID())
		q.member[o.ID()] = struct{}{}
	case !Eligible(o, r) && queued:
		q.remove(o.ID())
	}
}

// ClaimNext pops candidates from the head until one survives revalidation
// against the store, and returns its id. Entries invalidated by writes that
// happened between enqueue and claim are silently discarded. Fails with
// ErrNoneAvailable when the queue empties without a hit.
func (q *DispatchQueue) ClaimNext(ctx context.Context) (kernel.UUID, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.ids) > 0 {
		id := q.ids[0]
		q.ids = q.ids[1:]
		delete(q.member, id)

		o, err := q.source.Order(ctx, id)
		if err != nil {
			inc(q.metrics.StaleDrops)
			continue
		}

		var rest *restaurant.Restaurant
		if restID := o.RestaurantID(); restID != nil {
			rest, err = q.source.Restaurant(ctx, *restID)
			if err != nil {
				inc(q.metrics.StaleDrops)
				continue
			}
		}

		if !Eligible(o, rest) {
			inc(q.metrics.StaleDrops)
			continue
		}

		inc(q.metrics.Claims)
		return id, nil
	}

	inc(q.metrics.EmptyClaims)
	return kernel.UUID{}, ErrNoneAvailable
}

// Len returns the number of queued ids, stale entries included.
func (q *DispatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}

// remove deletes id from both the FIFO and the membership set.
// Caller must hold q.mu.
func (q *DispatchQueue) remove(id kernel.UUID) {
	for i, queued := range q.ids {
		if queued.IsEqual(id) {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			break
		}
	}
	delete(q.member, id)
}

func inc(c counter) {
	if c != nil {
		c.Inc()
	}
}
