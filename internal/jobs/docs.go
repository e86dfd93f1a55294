// Package jobs runs the engine's background work outside the request path.
//
// # Jobs
//
//  1. ExpirationReaperJob retires expired offers and orders on a fixed interval
//     (robfig/cron, "@every <REAPER_INTERVAL>"). Overlapping runs are skipped.
//  2. DispatchWorker is the asynchronous dispatch queue. CreateOrder and Redispatch
//     enqueue order IDs; a pool of workers runs a dispatch round for each one and
//     retries transient failures with exponential backoff.
//
// # Usage
//
//	worker := jobs.NewDispatchWorker(dispatchHandler, jobs.DispatchConfig{Workers: 4}, logger)
//	reaper := jobs.NewExpirationReaperJob(reapHandler, 10*time.Second, logger)
//
//	jobManager := jobs.NewJobManager(reaper, worker)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - A dispatch round that ends in ErrOrderNotPending or ErrNoCandidatesFound is final
//     and is not retried. Other non-transient errors are logged and dropped.
//   - An order whose dispatch is abandoned stays pending until the reaper expires it.
//   - Reaper failures are logged; the next tick tries again.
package jobs
