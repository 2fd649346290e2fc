// Package services provides the persisted state machine handler that drives
// an order through its lifecycle.
//
// The package includes:
//   - PersistStateHandler: rehydrates a transient engine from the last persisted
//     status, applies one event and hands the accepted transition to listeners
//   - PersistStateChangeListener: the callback contract listeners implement to
//     make the new status durable or to react to it
//
// The handler owns no storage. Durability is entirely the job of the listeners
// registered through AddPersistStateChangeListener.
package services
