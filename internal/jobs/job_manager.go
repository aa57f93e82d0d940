package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	queueRepairJob *QueueRepairJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	queue *services.DispatchQueue,
	orders ports.OrderRepository,
	restaurants ports.RestaurantRepository,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		queueRepairJob: NewQueueRepairJob(queue, orders, restaurants, logger),
	}
}

// QueueRepairJob exposes the repair job so the composition root can run an
// immediate pass at startup.
func (jm *JobManager) QueueRepairJob() *QueueRepairJob {
	return jm.queueRepairJob
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.queueRepairJob.Start(); err != nil {
		return fmt.Errorf("failed to start queue repair job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.queueRepairJob.Stop()
}
