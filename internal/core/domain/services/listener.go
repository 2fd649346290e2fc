package services

import (
	"context"
	"errors"
	"fmt"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/core/domain/statemachine"
)

// ErrListenerFailed is matched by every ListenerError.
var ErrListenerFailed = errors.New("persist state change listener failed")

// StateChange is passed to every listener for an accepted transition.
type StateChange struct {
	// State is the target status the order is moving to.
	State      order.Status
	Request    statemachine.EventRequest
	Transition statemachine.Transition
	// Engine is a read-only view; it still reports the source status while listeners run.
	Engine statemachine.Handle
}

// PersistStateChangeListener is notified before a transition is committed in the engine.
// A listener error aborts the transition.
type PersistStateChangeListener interface {
	OnPersist(ctx context.Context, change StateChange) error
}

// PersistStateChangeListenerFunc adapts a function to PersistStateChangeListener.
type PersistStateChangeListenerFunc func(ctx context.Context, change StateChange) error

// OnPersist calls f.
func (f PersistStateChangeListenerFunc) OnPersist(ctx context.Context, change StateChange) error {
	return f(ctx, change)
}

// ListenerError wraps the error of the first listener that failed.
// Index is the listener's registration position, starting at zero.
type ListenerError struct {
	Index int
	Cause error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("%s: listener #%d: %v", ErrListenerFailed, e.Index, e.Cause)
}

func (e *ListenerError) Unwrap() []error {
	return []error{ErrListenerFailed, e.Cause}
}

// compositeListener fans a change out to its listeners, last registered first.
// The first failure stops the walk.
type compositeListener struct {
	listeners []PersistStateChangeListener
}

func (c *compositeListener) register(l PersistStateChangeListener) {
	c.listeners = append(c.listeners, l)
}

func (c *compositeListener) len() int {
	return len(c.listeners)
}

func (c *compositeListener) OnPersist(ctx context.Context, change StateChange) error {
	for i := len(c.listeners) - 1; i >= 0; i-- {
		if err := c.listeners[i].OnPersist(ctx, change); err != nil {
			return &ListenerError{Index: i, Cause: err}
		}
	}
	return nil
}
