package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// QueueRepairJob periodically re-feeds claimable, courier-less orders into the
// dispatch queue. OnOrderChanged deduplicates, so repairing an already queued
// order is a no-op.
type QueueRepairJob struct {
	queue       *services.DispatchQueue
	orders      ports.OrderRepository
	restaurants ports.RestaurantRepository
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewQueueRepairJob creates the repair job over the given queue and repositories.
func NewQueueRepairJob(
	queue *services.DispatchQueue,
	orders ports.OrderRepository,
	restaurants ports.RestaurantRepository,
	logger *slog.Logger,
) *QueueRepairJob {
	return &QueueRepairJob{
		queue:       queue,
		orders:      orders,
		restaurants: restaurants,
		cron:        cron.New(),
		logger:      logger.With("component", "queue_repair_job"),
	}
}

// Start schedules the repair pass to run every 30 seconds.
func (j *QueueRepairJob) Start() error {
	_, err := j.cron.AddFunc("@every 30s", func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "queue repair job started")
	return nil
}

// Stop stops the scheduled repair passes.
func (j *QueueRepairJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "queue repair job stopped")
}

// Run executes a single repair pass. Exposed so the composition root can prime
// the queue at startup before the first scheduled tick.
func (j *QueueRepairJob) Run(ctx context.Context) {
	orders, err := j.orders.GetAllUnassigned(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "queue repair pass failed", "error", err)
		return
	}

	requeued := 0
	for _, o := range orders {
		var rest *restaurant.Restaurant
		if restID := o.RestaurantID(); restID != nil {
			rest, err = j.restaurants.Get(ctx, *restID)
			if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
				j.logger.WarnContext(ctx, "skipping order during repair",
					"order_id", o.ID().String(), "error", err)
				continue
			}
		}

		j.queue.OnOrderChanged(o, rest)
		requeued++
	}

	j.logger.InfoContext(ctx, "queue repair pass finished",
		"candidates", len(orders), "requeued", requeued)
}
