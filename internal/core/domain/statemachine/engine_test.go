package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/core/domain/statemachine"
	"orderstate/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultEngine(t *testing.T) *statemachine.Engine {
	t.Helper()
	engine, err := statemachine.NewEngine(statemachine.MustNewTable(statemachine.DefaultConfig()))
	require.NoError(t, err)
	return engine
}

func restart(t *testing.T, engine *statemachine.Engine, status order.Status) {
	t.Helper()
	require.NoError(t, engine.Stop())
	require.NoError(t, engine.Reset(status))
	require.NoError(t, engine.Start())
}

func TestNewEngine(t *testing.T) {
	t.Run("should start stopped at the initial status", func(t *testing.T) {
		engine := newDefaultEngine(t)

		assert.Equal(t, statemachine.Stopped, engine.Lifecycle())
		assert.Equal(t, order.WaitPayment, engine.State())
		assert.Equal(t, 1, engine.Regions())
	})

	t.Run("should reject a nil region table", func(t *testing.T) {
		_, err := statemachine.NewEngine(statemachine.MustNewTable(statemachine.DefaultConfig()), nil)

		require.ErrorIs(t, err, errs.ErrConfigurationIsInvalid)
	})
}

func TestEngine_Lifecycle(t *testing.T) {
	t.Run("should follow stop reset start", func(t *testing.T) {
		engine := newDefaultEngine(t)

		require.NoError(t, engine.Stop())
		assert.Equal(t, statemachine.Stopped, engine.Lifecycle())
		require.NoError(t, engine.Reset(order.WaitReceive))
		assert.Equal(t, statemachine.Resetting, engine.Lifecycle())
		require.NoError(t, engine.Start())
		assert.Equal(t, statemachine.Running, engine.Lifecycle())
		assert.Equal(t, order.WaitReceive, engine.State())
	})

	t.Run("should refuse events while stopped", func(t *testing.T) {
		engine := newDefaultEngine(t)

		accepted, err := engine.Send(context.Background(), statemachine.EventRequest{Event: order.Payed, BusinessKey: 1})

		require.ErrorIs(t, err, statemachine.ErrEngineNotRunning)
		assert.False(t, accepted)
		assert.Equal(t, order.WaitPayment, engine.State())
	})

	t.Run("should refuse events while resetting", func(t *testing.T) {
		engine := newDefaultEngine(t)
		require.NoError(t, engine.Reset(order.WaitPayment))

		_, err := engine.Send(context.Background(), statemachine.EventRequest{Event: order.Payed, BusinessKey: 1})

		require.ErrorIs(t, err, statemachine.ErrEngineNotRunning)
	})

	t.Run("should refuse reset while running", func(t *testing.T) {
		engine := newDefaultEngine(t)
		require.NoError(t, engine.Start())

		err := engine.Reset(order.Finish)

		require.ErrorIs(t, err, statemachine.ErrEngineNotStopped)
		assert.Equal(t, order.WaitPayment, engine.State())
	})

	t.Run("should not change state when cycling without events", func(t *testing.T) {
		engine := newDefaultEngine(t)
		restart(t, engine, order.WaitDeliver)

		require.NoError(t, engine.Stop())
		require.NoError(t, engine.Start())
		require.NoError(t, engine.Stop())
		require.NoError(t, engine.Start())

		assert.Equal(t, order.WaitDeliver, engine.State())
	})

	t.Run("should render lifecycle names", func(t *testing.T) {
		assert.Equal(t, "stopped", statemachine.Stopped.String())
		assert.Equal(t, "resetting", statemachine.Resetting.String())
		assert.Equal(t, "running", statemachine.Running.String())
		assert.Equal(t, "invalid", statemachine.Lifecycle(9).String())
	})
}

func TestEngine_Reset_Failures(t *testing.T) {
	t.Run("should reject statuses outside the enumeration", func(t *testing.T) {
		engine := newDefaultEngine(t)

		err := engine.Reset(order.Unknown)

		var resetErr *statemachine.ResetError
		require.ErrorAs(t, err, &resetErr)
		require.ErrorIs(t, err, statemachine.ErrResetFailed)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, 0, resetErr.Region)
		assert.Equal(t, statemachine.Stopped, engine.Lifecycle())
	})

	t.Run("should leave every region untouched when one region refuses", func(t *testing.T) {
		partial := statemachine.MustNewTable(statemachine.Config{
			Initial: order.WaitPayment,
			States:  []order.Status{order.WaitPayment, order.WaitDeliver},
			Rules:   []statemachine.Rule{{Source: order.WaitPayment, Event: order.Payed, Target: order.WaitDeliver}},
		})
		engine, err := statemachine.NewEngine(statemachine.MustNewTable(statemachine.DefaultConfig()), partial)
		require.NoError(t, err)

		err = engine.Reset(order.Finish)

		var resetErr *statemachine.ResetError
		require.ErrorAs(t, err, &resetErr)
		require.ErrorIs(t, err, statemachine.ErrStatusNotDeclared)
		assert.Equal(t, 1, resetErr.Region)
		assert.Equal(t, []order.Status{order.WaitPayment, order.WaitPayment}, engine.States())
		assert.Equal(t, statemachine.Stopped, engine.Lifecycle())
		assert.Contains(t, err.Error(), "region 1 cannot be set to FINISH")
	})
}

func TestEngine_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("should accept every declared rule", func(t *testing.T) {
		engine := newDefaultEngine(t)

		for _, r := range statemachine.DefaultConfig().Rules {
			restart(t, engine, r.Source)

			accepted, err := engine.Send(ctx, statemachine.EventRequest{Event: r.Event, BusinessKey: 1001})

			require.NoError(t, err)
			assert.True(t, accepted, r.String())
			assert.Equal(t, r.Target, engine.State())
		}
	})

	t.Run("should reject pairs without a rule and keep the state", func(t *testing.T) {
		engine := newDefaultEngine(t)
		restart(t, engine, order.WaitDeliver)

		accepted, err := engine.Send(ctx, statemachine.EventRequest{Event: order.Received, BusinessKey: 1001})

		require.NoError(t, err)
		assert.False(t, accepted)
		assert.Equal(t, order.WaitDeliver, engine.State())
	})

	t.Run("should fire interceptors once before committing", func(t *testing.T) {
		engine := newDefaultEngine(t)
		var seen []statemachine.StateContext
		var stateDuringCallback order.Status
		engine.AddInterceptor(statemachine.InterceptorFunc(func(_ context.Context, sc statemachine.StateContext) error {
			seen = append(seen, sc)
			stateDuringCallback = sc.Engine.State()
			return nil
		}))
		restart(t, engine, order.WaitPayment)

		accepted, err := engine.Send(ctx, statemachine.EventRequest{Event: order.Payed, BusinessKey: 1001})

		require.NoError(t, err)
		assert.True(t, accepted)
		require.Len(t, seen, 1)
		assert.Equal(t, order.BusinessKey(1001), seen[0].Request.BusinessKey)
		assert.Equal(t, order.WaitPayment, seen[0].Transition.Source)
		assert.Equal(t, order.WaitDeliver, seen[0].Transition.Target)
		assert.Equal(t, order.WaitPayment, stateDuringCallback)
	})

	t.Run("should not fire interceptors for rejected events", func(t *testing.T) {
		engine := newDefaultEngine(t)
		calls := 0
		engine.AddInterceptor(statemachine.InterceptorFunc(func(context.Context, statemachine.StateContext) error {
			calls++
			return nil
		}))
		restart(t, engine, order.Finish)

		accepted, err := engine.Send(ctx, statemachine.EventRequest{Event: order.Received, BusinessKey: 1001})

		require.NoError(t, err)
		assert.False(t, accepted)
		assert.Zero(t, calls)
	})

	t.Run("should keep the source state when an interceptor vetoes", func(t *testing.T) {
		engine := newDefaultEngine(t)
		veto := errors.New("disk full")
		engine.AddInterceptor(statemachine.InterceptorFunc(func(context.Context, statemachine.StateContext) error {
			return veto
		}))
		restart(t, engine, order.WaitPayment)

		accepted, err := engine.Send(ctx, statemachine.EventRequest{Event: order.Payed, BusinessKey: 1001})

		require.ErrorIs(t, err, veto)
		assert.False(t, accepted)
		assert.Equal(t, order.WaitPayment, engine.State())
		assert.Contains(t, err.Error(), "WAIT_PAYMENT---PAYED--->WAIT_DELIVER vetoed")
	})

	t.Run("should refuse lifecycle calls from inside an interceptor", func(t *testing.T) {
		engine := newDefaultEngine(t)
		var stopErr, resetErr, startErr error
		engine.AddInterceptor(statemachine.InterceptorFunc(func(context.Context, statemachine.StateContext) error {
			stopErr = engine.Stop()
			resetErr = engine.Reset(order.Finish)
			startErr = engine.Start()
			return nil
		}))
		restart(t, engine, order.WaitPayment)

		accepted, err := engine.Send(ctx, statemachine.EventRequest{Event: order.Payed, BusinessKey: 1001})

		require.NoError(t, err)
		assert.True(t, accepted)
		require.ErrorIs(t, stopErr, statemachine.ErrEngineBusy)
		require.ErrorIs(t, resetErr, statemachine.ErrEngineBusy)
		require.ErrorIs(t, startErr, statemachine.ErrEngineBusy)
		assert.Equal(t, statemachine.Running, engine.Lifecycle())
	})

	t.Run("should fire once per region that transitions", func(t *testing.T) {
		deliveryOnly := statemachine.MustNewTable(statemachine.Config{
			Initial: order.WaitPayment,
			States:  order.AllStatuses(),
			Rules:   []statemachine.Rule{{Source: order.WaitDeliver, Event: order.Delivery, Target: order.WaitReceive}},
		})
		engine, err := statemachine.NewEngine(statemachine.MustNewTable(statemachine.DefaultConfig()), deliveryOnly)
		require.NoError(t, err)
		var regions []int
		engine.AddInterceptor(statemachine.InterceptorFunc(func(_ context.Context, sc statemachine.StateContext) error {
			regions = append(regions, sc.Transition.Region)
			return nil
		}))
		restart(t, engine, order.WaitPayment)

		accepted, err := engine.Send(ctx, statemachine.EventRequest{Event: order.Payed, BusinessKey: 1})

		require.NoError(t, err)
		assert.True(t, accepted)
		assert.Equal(t, []int{0}, regions)
		assert.Equal(t, []order.Status{order.WaitDeliver, order.WaitPayment}, engine.States())
	})
}

func TestEngine_Send_VetoInLaterRegion(t *testing.T) {
	ctx := t.Context()
	engine, err := statemachine.NewEngine(
		statemachine.MustNewTable(statemachine.DefaultConfig()),
		statemachine.MustNewTable(statemachine.DefaultConfig()),
	)
	require.NoError(t, err)

	veto := errors.New("boom")
	var seen []int
	engine.AddInterceptor(statemachine.InterceptorFunc(func(_ context.Context, sc statemachine.StateContext) error {
		seen = append(seen, sc.Transition.Region)
		assert.Equal(t, []order.Status{order.WaitPayment, order.WaitPayment}, sc.Engine.States())
		if sc.Transition.Region == 1 {
			return veto
		}
		return nil
	}))
	restart(t, engine, order.WaitPayment)

	accepted, err := engine.Send(ctx, statemachine.EventRequest{Event: order.Payed, BusinessKey: 1001})

	require.ErrorIs(t, err, veto)
	assert.False(t, accepted)
	assert.Equal(t, []int{0, 1}, seen)
	assert.Equal(t, []order.Status{order.WaitPayment, order.WaitPayment}, engine.States())
}

func TestEngine_CanAccept(t *testing.T) {
	engine := newDefaultEngine(t)

	target, ok := engine.CanAccept(order.WaitReceive, order.Received)
	assert.True(t, ok)
	assert.Equal(t, order.Finish, target)

	_, ok = engine.CanAccept(order.WaitReceive, order.Payed)
	assert.False(t, ok)
	assert.Equal(t, statemachine.Stopped, engine.Lifecycle())
}
