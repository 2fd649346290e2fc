// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level precision.
//
// # Available Jobs
//
// OrderStatusReportJob logs the diagnostic listing of every order, in the
// form Order{orderId=1001, status=WAIT_DELIVER},... on a configurable schedule.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(listOrdersHandler, "0 * * * * *", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
