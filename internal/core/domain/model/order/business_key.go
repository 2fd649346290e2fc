package order

import (
	"fmt"
	"strconv"

	"orderstate/internal/pkg/errs"
)

// BusinessKey is the externally meaningful order number (for example 1001).
// It is distinct from the storage identity and is what callers use to address an order.
type BusinessKey int

// NewBusinessKey validates that key is positive.
func NewBusinessKey(key int) (BusinessKey, error) {
	k := BusinessKey(key)
	if err := k.Validate(); err != nil {
		return 0, err
	}
	return k, nil
}

// ParseBusinessKey parses the decimal form used in URLs and CLI arguments.
func ParseBusinessKey(s string) (BusinessKey, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("business key is invalid", err)
	}
	return NewBusinessKey(n)
}

// Validate rejects zero and negative keys.
func (k BusinessKey) Validate() error {
	if k <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"business key is invalid",
			fmt.Errorf("%d is not greater than 0", int(k)),
		)
	}
	return nil
}

// Int returns the key as a plain int.
func (k BusinessKey) Int() int {
	return int(k)
}

func (k BusinessKey) String() string {
	return strconv.Itoa(int(k))
}
