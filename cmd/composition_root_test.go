package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"orderstate/internal/core/application/usecases/commands"
	"orderstate/internal/core/application/usecases/queries"
	"orderstate/internal/core/domain/model/kernel"
	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newMemoryRoot(t *testing.T, cfg Config) *CompositionRoot {
	t.Helper()
	cfg.Store = StoreMemory
	cfg.TracingExporter = "none"

	root, err := NewCompositionRoot(cfg, NewLogger(io.Discard, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close(t.Context()) })
	return root
}

func listing(t *testing.T, root *CompositionRoot) string {
	t.Helper()
	orders, err := root.CreateListOrdersQueryHandler().Handle(t.Context(), queries.NewListOrdersQuery())
	require.NoError(t, err)
	return queries.FormatOrders(orders)
}

func change(t *testing.T, root *CompositionRoot, key order.BusinessKey, event order.Event) (bool, error) {
	t.Helper()
	cmd, err := commands.NewChangeOrderStatusCommand(key, event)
	require.NoError(t, err)
	return root.CreateChangeOrderStatusCommandHandler().Handle(t.Context(), cmd)
}

func TestCompositionRoot_OrderLifecycle(t *testing.T) {
	root := newMemoryRoot(t, Config{})
	ctx := t.Context()

	create, err := commands.NewCreateOrderCommand(kernel.NewUUID(), 1001, order.Unknown)
	require.NoError(t, err)
	require.NoError(t, root.CreateCreateOrderCommandHandler().Handle(ctx, create))
	assert.Equal(t, "Order{orderId=1001, status=WAIT_PAYMENT}", listing(t, root))

	accepted, err := change(t, root, 1001, order.Payed)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "Order{orderId=1001, status=WAIT_DELIVER}", listing(t, root))

	accepted, err = change(t, root, 1001, order.Received)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, "Order{orderId=1001, status=WAIT_DELIVER}", listing(t, root))

	accepted, err = change(t, root, 1001, order.Delivery)
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = change(t, root, 1001, order.Received)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "Order{orderId=1001, status=FINISH}", listing(t, root))

	series, err := testutil.GatherAndCount(root.Registry(), "orderstate_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 3, series)
}

func TestCompositionRoot_UnknownOrder(t *testing.T) {
	root := newMemoryRoot(t, Config{})

	accepted, err := change(t, root, 9999, order.Payed)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.False(t, accepted)
}

func TestCompositionRoot_TransitionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transitions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
initial: WAIT_DELIVER
states: [WAIT_DELIVER, FINISH]
transitions:
  - { source: WAIT_DELIVER, event: RECEIVED, target: FINISH }
`), 0o600))

	root := newMemoryRoot(t, Config{TransitionsFile: path})
	ctx := t.Context()

	create, err := commands.NewCreateOrderCommand(kernel.NewUUID(), 7, order.Unknown)
	require.NoError(t, err)
	require.NoError(t, root.CreateCreateOrderCommandHandler().Handle(ctx, create))

	accepted, err := change(t, root, 7, order.Delivery)
	require.NoError(t, err)
	assert.False(t, accepted)

	accepted, err = change(t, root, 7, order.Received)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "Order{orderId=7, status=FINISH}", listing(t, root))
}

func TestCompositionRoot_InvalidTransitionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transitions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial: SHIPPED\n"), 0o600))
	installed := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(installed)
	t.Cleanup(func() { _ = installed.Shutdown(context.Background()) })

	_, err := NewCompositionRoot(Config{Store: StoreMemory, TransitionsFile: path}, NewLogger(io.Discard, "error"))

	require.ErrorIs(t, err, errs.ErrConfigurationIsInvalid)
	assert.Same(t, installed, otel.GetTracerProvider())
}

func TestCompositionRoot_Close(t *testing.T) {
	root, err := NewCompositionRoot(Config{Store: StoreMemory}, NewLogger(io.Discard, "error"))
	require.NoError(t, err)

	require.NoError(t, root.Close(t.Context()))
}

func TestCompositionRoot_HTTPRouter(t *testing.T) {
	root := newMemoryRoot(t, Config{})

	router, err := root.CreateHTTPRouter(t.Context())

	require.NoError(t, err)
	assert.NotEmpty(t, router.Routes())
}
