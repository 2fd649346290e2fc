// Package order provides the order entity and the closed vocabularies that
// drive its lifecycle.
//
// The package includes:
//   - Order: the persisted entity addressed by its BusinessKey
//   - Status: the ordered lifecycle states (WAIT_PAYMENT, WAIT_DELIVER, WAIT_RECEIVE, FINISH)
//   - Event: the business triggers (PAYED, DELIVERY, RECEIVED)
//
// Every Status and Event has a stable string code. Persistence adapters store
// codes, never positions, so the enumerations can grow without rewriting data.
package order
