package statemachine

// Lifecycle is the run state of an Engine, independent of the order status it holds.
//
//	Stopped ──Reset──> Resetting ──Start──> Running ──Stop──> Stopped
//
// There is no terminal lifecycle state; an engine is reused for the life of the process.
type Lifecycle int

const (
	// Stopped is the initial lifecycle state. Events are refused.
	Stopped Lifecycle = iota

	// Resetting means the regions have been forced to a status and the engine awaits Start.
	Resetting

	// Running accepts events.
	Running
)

func (l Lifecycle) String() string {
	switch l {
	case Stopped:
		return "stopped"
	case Resetting:
		return "resetting"
	case Running:
		return "running"
	default:
		return "invalid"
	}
}
