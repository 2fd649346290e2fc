// Package statemachine is the transition engine behind order status changes.
//
// A Table holds validated (status, event) -> status rules. An Engine holds the
// current status of one or more regions, each backed by its own Table, and
// fires Interceptors right before committing a transition. The engine keeps no
// durable state; callers reset it to the persisted status before every event.
package statemachine
