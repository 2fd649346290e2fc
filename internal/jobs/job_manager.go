package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	reportJob *OrderStatusReportJob
}

// NewJobManager creates a job manager running the order status report on schedule.
func NewJobManager(lister OrderLister, schedule string, logger *slog.Logger) *JobManager {
	return &JobManager{
		reportJob: NewOrderStatusReportJob(lister, schedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.reportJob.Start(); err != nil {
		return fmt.Errorf("failed to start order status report job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reportJob.Stop()
}
