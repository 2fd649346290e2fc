package statemachine

import (
	"context"
	"fmt"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/pkg/errs"
)

// EventRequest is an event addressed to one order. The business key travels
// with the event so interceptors and listeners know which entity is changing.
type EventRequest struct {
	Event       order.Event
	BusinessKey order.BusinessKey
}

// Transition describes a transition that is about to happen in one region.
type Transition struct {
	Region int
	Rule
}

// Handle is the read-only view of an Engine passed to interceptors.
type Handle interface {
	State() order.Status
	States() []order.Status
	Lifecycle() Lifecycle
	CanAccept(current order.Status, event order.Event) (order.Status, bool)
}

// StateContext is what an Interceptor receives for every accepted transition.
type StateContext struct {
	Request    EventRequest
	Transition Transition
	Engine     Handle
}

// Interceptor is called synchronously before a transition is committed.
// Returning an error vetoes the transition: the region keeps its source state
// and Send returns the error.
type Interceptor interface {
	PreStateChange(ctx context.Context, sc StateContext) error
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(ctx context.Context, sc StateContext) error

// PreStateChange calls f.
func (f InterceptorFunc) PreStateChange(ctx context.Context, sc StateContext) error {
	return f(ctx, sc)
}

type region struct {
	table *Table
	state order.Status
}

// Engine evaluates events against one or more transition tables (regions).
//
// An Engine holds in-memory state only and is not safe for concurrent use:
// callers serialize the whole Stop, Reset, Start, Send sequence.
type Engine struct {
	regions      []*region
	interceptors []Interceptor
	lifecycle    Lifecycle
	dispatching  bool
}

// NewEngine creates a stopped engine with one region per table. Every region
// starts at its table's initial status.
func NewEngine(primary *Table, additional ...*Table) (*Engine, error) {
	tables := append([]*Table{primary}, additional...)
	e := &Engine{
		regions:   make([]*region, 0, len(tables)),
		lifecycle: Stopped,
	}
	for i, t := range tables {
		if t == nil {
			return nil, errs.NewConfigurationIsInvalidError(fmt.Sprintf("region %d has no transition table", i))
		}
		e.regions = append(e.regions, &region{table: t, state: t.Initial()})
	}
	return e, nil
}

// AddInterceptor registers i for transitions in every region.
func (e *Engine) AddInterceptor(i Interceptor) {
	e.interceptors = append(e.interceptors, i)
}

// Regions returns the number of regions.
func (e *Engine) Regions() int {
	return len(e.regions)
}

// Lifecycle returns the current run state.
func (e *Engine) Lifecycle() Lifecycle {
	return e.lifecycle
}

// State returns the status of the first region.
func (e *Engine) State() order.Status {
	return e.regions[0].state
}

// States returns the status of every region, in region order.
func (e *Engine) States() []order.Status {
	out := make([]order.Status, len(e.regions))
	for i, r := range e.regions {
		out[i] = r.state
	}
	return out
}

// CanAccept looks up the first region's table. It never changes state.
func (e *Engine) CanAccept(current order.Status, event order.Event) (order.Status, bool) {
	return e.regions[0].table.Target(current, event)
}

// Stop halts event processing. Stopping a stopped engine is a no-op.
func (e *Engine) Stop() error {
	if e.dispatching {
		return ErrEngineBusy
	}
	e.lifecycle = Stopped
	return nil
}

// Reset forces every region to status. All regions are checked before any is
// changed, so a failed reset leaves the engine exactly as it was.
func (e *Engine) Reset(status order.Status) error {
	if e.dispatching {
		return ErrEngineBusy
	}
	if e.lifecycle == Running {
		return ErrEngineNotStopped
	}

	for i, r := range e.regions {
		if err := status.Validate(); err != nil {
			return &ResetError{Region: i, Status: status, Cause: err}
		}
		if !r.table.Declares(status) {
			return &ResetError{Region: i, Status: status, Cause: ErrStatusNotDeclared}
		}
	}

	for _, r := range e.regions {
		r.state = status
	}
	e.lifecycle = Resetting
	return nil
}

// Start resumes event processing from whatever status the regions hold.
func (e *Engine) Start() error {
	if e.dispatching {
		return ErrEngineBusy
	}
	e.lifecycle = Running
	return nil
}

// Send delivers req to every region. Every region with a matching rule runs
// all interceptors first; only when none of them vetoes do the regions move to
// their targets, so a veto in any region leaves every region at its source
// state. Send returns true when at least one region transitioned, and false
// (without error) when no rule matched.
func (e *Engine) Send(ctx context.Context, req EventRequest) (bool, error) {
	if e.lifecycle != Running {
		return false, ErrEngineNotRunning
	}

	e.dispatching = true
	defer func() { e.dispatching = false }()

	pending := make([]Transition, 0, len(e.regions))
	for i, r := range e.regions {
		target, ok := r.table.Target(r.state, req.Event)
		if !ok {
			continue
		}
		pending = append(pending, Transition{
			Region: i,
			Rule:   Rule{Source: r.state, Event: req.Event, Target: target},
		})
	}

	for _, t := range pending {
		sc := StateContext{Request: req, Transition: t, Engine: e}
		for _, interceptor := range e.interceptors {
			if err := interceptor.PreStateChange(ctx, sc); err != nil {
				return false, fmt.Errorf("transition %s vetoed: %w", t.Rule, err)
			}
		}
	}

	for _, t := range pending {
		e.regions[t.Region].state = t.Target
	}
	return len(pending) > 0, nil
}
