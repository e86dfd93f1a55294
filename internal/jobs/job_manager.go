package jobs

import (
	"fmt"
)

// JobManager starts and stops the background jobs together.
type JobManager struct {
	reaper   *ExpirationReaperJob
	dispatch *DispatchWorker
}

// NewJobManager takes the worker that CreateOrder and Redispatch already enqueue to.
func NewJobManager(reaper *ExpirationReaperJob, dispatch *DispatchWorker) *JobManager {
	return &JobManager{
		reaper:   reaper,
		dispatch: dispatch,
	}
}

// StartAll starts all jobs. Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatch.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch worker: %w", err)
	}

	if err := jm.reaper.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.dispatch.Stop()
		return fmt.Errorf("failed to start expiration reaper: %w", err)
	}

	return nil
}

// StopAll stops the reaper first so no sweep races the last dispatch rounds.
func (jm *JobManager) StopAll() {
	jm.reaper.Stop()
	jm.dispatch.Stop()
}
