package errs

import (
	"errors"
	"fmt"
)

// ErrConfigurationIsInvalid is the sentinel matched by every ConfigurationIsInvalidError.
// Errors of this kind are detected at start-up and must stop the process.
var ErrConfigurationIsInvalid = errors.New("configuration is invalid")

// ConfigurationIsInvalidError reports static configuration that cannot be used,
// such as a transition table that references an undeclared status.
type ConfigurationIsInvalidError struct {
	Reason string
	Cause  error
}

// NewConfigurationIsInvalidError creates a ConfigurationIsInvalidError.
func NewConfigurationIsInvalidError(reason string) *ConfigurationIsInvalidError {
	return &ConfigurationIsInvalidError{Reason: reason}
}

// NewConfigurationIsInvalidErrorWithCause creates a ConfigurationIsInvalidError with an underlying cause.
func NewConfigurationIsInvalidErrorWithCause(reason string, cause error) *ConfigurationIsInvalidError {
	return &ConfigurationIsInvalidError{
		Reason: reason,
		Cause:  cause,
	}
}

func (e *ConfigurationIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrConfigurationIsInvalid, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrConfigurationIsInvalid, e.Reason)
}

func (e *ConfigurationIsInvalidError) Unwrap() error {
	return ErrConfigurationIsInvalid
}
