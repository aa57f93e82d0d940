// Package jobs provides the scheduled background tasks of the dispatch
// service, implemented with github.com/robfig/cron/v3.
//
// QueueRepairJob periodically reloads every claimable, courier-less order from
// storage and re-feeds it into the in-process dispatch queue. The queue is
// process-scoped and lazily invalidated, so a restart (or a write that missed
// its queue notification) can leave eligible orders unqueued; the repair pass
// closes that gap.
//
// Jobs are coordinated through JobManager:
//
//	jobManager := jobs.NewJobManager(queue, orders, restaurants, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
