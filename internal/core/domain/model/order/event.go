package order

import (
	"fmt"

	"orderstate/internal/pkg/errs"
)

// Event is a business trigger that may move an order to another status.
// Like Status it is a closed enumeration with a stable code per value.
type Event int

const (
	// UnknownEvent is the invalid zero value.
	UnknownEvent Event = iota

	// Payed signals that the customer has paid.
	Payed

	// Delivery signals that the order has been handed to the carrier.
	Delivery

	// Received signals that the customer has received the goods.
	Received
)

func getEventCodes() map[Event]string {
	return map[Event]string{
		Payed:    "PAYED",
		Delivery: "DELIVERY",
		Received: "RECEIVED",
	}
}

// AllEvents returns every valid event in declaration order.
func AllEvents() []Event {
	return []Event{Payed, Delivery, Received}
}

// ParseEvent resolves a stable code such as "PAYED" to its Event.
func ParseEvent(code string) (Event, error) {
	for event, c := range getEventCodes() {
		if c == code {
			return event, nil
		}
	}
	return UnknownEvent, errs.NewValueIsInvalidErrorWithCause(
		"event is invalid",
		fmt.Errorf("%q is not a known event code", code),
	)
}

// Validate checks if the Event value is one of the declared events.
func (e Event) Validate() error {
	if _, ok := getEventCodes()[e]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("event is invalid", fmt.Errorf("%d is not a valid event", e))
	}
	return nil
}

// Code returns the stable identifier, e.g. "PAYED", or "UNKNOWN".
func (e Event) Code() string {
	if code, ok := getEventCodes()[e]; ok {
		return code
	}
	return "UNKNOWN"
}

func (e Event) String() string {
	return e.Code()
}
