package order

import (
	"fmt"

	"orderstate/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions (default configuration):
//
//	WAIT_PAYMENT ──PAYED──> WAIT_DELIVER ──DELIVERY──> WAIT_RECEIVE ──RECEIVED──> FINISH
//
// The transitions themselves live in the statemachine transition table; Status
// only carries identity, validation and the stable code used for persistence.
//
// The declaration order below is part of the external contract exposed by Ordinal
// and must never be reordered. Storage does not depend on it: adapters persist
// Code() instead.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// WaitPayment is the initial status: the order exists and awaits payment.
	WaitPayment

	// WaitDeliver means the order has been paid and awaits shipment.
	WaitDeliver

	// WaitReceive means the order has been shipped and awaits receipt.
	WaitReceive

	// Finish means the order has been received. No default rule leaves it.
	Finish
)

func getStatusCodes() map[Status]string {
	return map[Status]string{
		WaitPayment: "WAIT_PAYMENT",
		WaitDeliver: "WAIT_DELIVER",
		WaitReceive: "WAIT_RECEIVE",
		Finish:      "FINISH",
	}
}

// AllStatuses returns every valid status in declaration order.
func AllStatuses() []Status {
	return []Status{WaitPayment, WaitDeliver, WaitReceive, Finish}
}

// ParseStatus resolves a stable code such as "WAIT_DELIVER" back to its Status.
func ParseStatus(code string) (Status, error) {
	for status, c := range getStatusCodes() {
		if c == code {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a known status code", code),
	)
}

// StatusFromOrdinal resolves the zero-based position of a status in the
// enumeration, for consumers that still exchange ordinals.
func StatusFromOrdinal(ordinal int) (Status, error) {
	all := AllStatuses()
	if ordinal < 0 || ordinal >= len(all) {
		return Unknown, errs.NewValueIsOutOfRangeError("status ordinal", ordinal, 0, len(all)-1)
	}
	return all[ordinal], nil
}

// Validate checks if the Status value is one of the declared statuses.
func (s Status) Validate() error {
	if _, ok := getStatusCodes()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// Code returns the stable persisted identifier, e.g. "WAIT_PAYMENT".
// Unknown and out-of-range values return "UNKNOWN".
func (s Status) Code() string {
	if code, ok := getStatusCodes()[s]; ok {
		return code
	}
	return "UNKNOWN"
}

// Ordinal returns the zero-based position in the declared enumeration, or -1
// for invalid values.
func (s Status) Ordinal() int {
	if s.Validate() != nil {
		return -1
	}
	return int(s) - 1
}

// String implements fmt.Stringer and returns Code().
func (s Status) String() string {
	return s.Code()
}
