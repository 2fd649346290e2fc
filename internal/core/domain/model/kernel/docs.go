// Package kernel holds the domain primitives shared by every aggregate of the
// order state service. Today that is the UUID value object used as the
// immutable storage identity of an order.
package kernel
