package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	orderhttp "orderstate/internal/adapters/in/http"
	"orderstate/internal/adapters/in/transitionconfig"
	"orderstate/internal/adapters/out/broker"
	"orderstate/internal/adapters/out/memory"
	"orderstate/internal/adapters/out/metrics"
	"orderstate/internal/adapters/out/postgres"
	"orderstate/internal/adapters/out/postgres/orderrepo"
	"orderstate/internal/core/application/listeners"
	"orderstate/internal/core/application/usecases/commands"
	"orderstate/internal/core/application/usecases/queries"
	"orderstate/internal/core/domain/services"
	"orderstate/internal/core/domain/statemachine"
	"orderstate/internal/core/ports"
	"orderstate/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived component of the service.
type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	table      *statemachine.Table
	handler    *services.PersistStateHandler
	uowFactory ports.UnitOfWorkFactory
	reader     queries.OrderReader
	registry   *prometheus.Registry
	gormDB     *gorm.DB
	publisher  *broker.StatusChangedPublisher
	tracer     *sdktrace.TracerProvider
}

// NewCompositionRoot loads the transition table, opens the configured store and
// registers the persist-state listeners.
//
// Listeners run last-registered first, so the order listener is registered last:
// the order row is written before metrics, audit and kafka observe the change.
//
// On failure everything opened so far is released and the previous global
// tracer provider is restored.
func NewCompositionRoot(cfg Config, logger *slog.Logger) (_ *CompositionRoot, err error) {
	c := &CompositionRoot{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	previousTracer := otel.GetTracerProvider()
	tp, err := NewTracerProvider(cfg.TracingExporter, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	c.tracer = tp
	defer func() {
		if err == nil {
			return
		}
		otel.SetTracerProvider(previousTracer)
		if closeErr := c.Close(context.Background()); closeErr != nil {
			logger.Warn("release after failed start-up", "error", closeErr)
		}
	}()

	definition, err := loadDefinition(cfg.TransitionsFile)
	if err != nil {
		return nil, err
	}
	primary, additional, err := definition.Tables()
	if err != nil {
		return nil, err
	}
	c.table = primary

	engine, err := statemachine.NewEngine(primary, additional...)
	if err != nil {
		return nil, err
	}
	if c.handler, err = services.NewPersistStateHandler(engine, logger); err != nil {
		return nil, err
	}

	if err = c.openStore(); err != nil {
		return nil, err
	}

	c.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	transitionMetrics, err := metrics.NewTransitionMetrics(c.registry)
	if err != nil {
		return nil, err
	}

	if cfg.KafkaEnabled() {
		c.publisher = broker.NewStatusChangedPublisher(broker.NewWriter(cfg.KafkaBrokers, cfg.KafkaOrderChangedTopic))
		c.handler.AddPersistStateChangeListener(c.publisher)
	}
	c.handler.AddPersistStateChangeListener(transitionMetrics)
	c.handler.AddPersistStateChangeListener(listeners.NewAuditListener(logger))
	c.handler.AddPersistStateChangeListener(listeners.NewOrderPersistStateChangeListener(c.orderUoWFactory()))

	return c, nil
}

func loadDefinition(path string) (transitionconfig.Definition, error) {
	if path == "" {
		return transitionconfig.Default()
	}
	return transitionconfig.LoadFile(path)
}

func (c *CompositionRoot) openStore() error {
	switch c.config.Store {
	case StorePostgres:
		db, err := postgres.Open(c.config.DSN())
		if err != nil {
			return err
		}
		c.gormDB = db
		if err = postgres.Migrate(db); err != nil {
			return err
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.reader = orderrepo.NewGormOrderRepository(db)
	default:
		store := memory.NewStore()
		c.uowFactory = store
		c.reader = store
	}
	return nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

// Config returns the configuration the root was built from.
func (c *CompositionRoot) Config() Config {
	return c.config
}

// Table returns the primary transition table.
func (c *CompositionRoot) Table() *statemachine.Table {
	return c.table
}

// Registry returns the prometheus registry served on /metrics.
func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

// PersistStateHandler returns the shared handler, for registering extra listeners.
func (c *CompositionRoot) PersistStateHandler() *services.PersistStateHandler {
	return c.handler
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.table)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.handler)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateListOrdersQueryHandler(), c.config.ReportSchedule, c.logger)
}

// CreateHTTPRouter builds the echo instance serving the API, /metrics and /swagger.
func (c *CompositionRoot) CreateHTTPRouter(ctx context.Context) (*echo.Echo, error) {
	spec, err := orderhttp.LoadSpec(ctx)
	if err != nil {
		return nil, err
	}

	server := orderhttp.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateListOrdersQueryHandler(),
		c.logger,
	)
	return orderhttp.NewRouter(server, spec, c.registry, c.logger)
}

// Close releases the kafka writer, the database pool and the tracer provider.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var closeErrs []error
	if c.publisher != nil {
		closeErrs = append(closeErrs, c.publisher.Close())
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			closeErrs = append(closeErrs, sqlDB.Close())
		}
	}
	closeErrs = append(closeErrs, shutdownTracer(ctx, c.tracer))
	return errors.Join(closeErrs...)
}

// NewLogger builds the process logger at level ("debug", "info", "warn" or "error").
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
