package jobs

import (
	"context"
	"log/slog"

	"orderstate/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// DefaultReportSchedule runs the status report once a minute.
const DefaultReportSchedule = "0 * * * * *"

// OrderLister is the query the report job runs on every tick.
type OrderLister interface {
	Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.ListOrdersQueryResponse, error)
}

// OrderStatusReportJob periodically logs the diagnostic listing of all orders.
type OrderStatusReportJob struct {
	lister   OrderLister
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOrderStatusReportJob creates a report job. schedule is a six-field cron
// expression (seconds first); an empty schedule means DefaultReportSchedule.
func NewOrderStatusReportJob(lister OrderLister, schedule string, logger *slog.Logger) *OrderStatusReportJob {
	if schedule == "" {
		schedule = DefaultReportSchedule
	}
	return &OrderStatusReportJob{
		lister:   lister,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "order_status_report_job"),
	}
}

// Start registers the report on the configured schedule and starts the scheduler.
func (j *OrderStatusReportJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Order status report job started", "schedule", j.schedule)
	return nil
}

// Run produces one report.
func (j *OrderStatusReportJob) Run(ctx context.Context) {
	orders, err := j.lister.Handle(ctx, queries.NewListOrdersQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Order status report failed", "error", err)
		return
	}

	j.logger.InfoContext(ctx, "Order status report", "count", len(orders), "orders", queries.FormatOrders(orders))
}

// Stop stops the scheduler and waits for a running report to finish.
func (j *OrderStatusReportJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Order status report job stopped")
}
