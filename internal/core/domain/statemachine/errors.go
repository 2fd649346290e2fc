package statemachine

import (
	"errors"
	"fmt"

	"orderstate/internal/core/domain/model/order"
)

var (
	// ErrEngineNotRunning is returned by Send while the engine is stopped or resetting.
	ErrEngineNotRunning = errors.New("state machine is not running")

	// ErrEngineNotStopped is returned by Reset while the engine is running.
	ErrEngineNotStopped = errors.New("state machine must be stopped before reset")

	// ErrEngineBusy is returned by lifecycle calls made from inside an interceptor.
	ErrEngineBusy = errors.New("state machine is dispatching an event")

	// ErrResetFailed is matched by every ResetError.
	ErrResetFailed = errors.New("state machine reset failed")
)

// ResetError reports the first region that refused a reset. When it is returned
// no region has been changed and the engine is left stopped.
type ResetError struct {
	Region int
	Status order.Status
	Cause  error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("%s: region %d cannot be set to %v: %v", ErrResetFailed, e.Region, e.Status, e.Cause)
}

func (e *ResetError) Unwrap() []error {
	return []error{ErrResetFailed, e.Cause}
}

// ErrStatusNotDeclared is the cause of a ResetError for a status missing from a region's table.
var ErrStatusNotDeclared = errors.New("status is not declared by the transition table")
