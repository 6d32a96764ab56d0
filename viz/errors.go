package viz

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("invalid series")

// ErrConfig is matched by every *ConfigError.
var ErrConfig = errors.New("invalid configuration")

// ErrInvariant is matched by every *InvariantError.
var ErrInvariant = errors.New("internal invariant violated")

// ValidationError reports malformed input series.
type ValidationError struct {
	Series int // index of the offending series, -1 for the whole input
	Title  string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Series < 0 {
		return fmt.Sprintf("invalid series: %s", e.Reason)
	}
	if e.Title != "" {
		return fmt.Sprintf("invalid series %d (%q) %s: %s", e.Series, e.Title, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid series %d %s: %s", e.Series, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(series int, title, field, reason string) *ValidationError {
	return &ValidationError{Series: series, Title: title, Field: field, Reason: reason}
}

// ConfigError reports an illegal option or combination of options.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Option, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option, format string, args ...any) *ConfigError {
	return &ConfigError{Option: option, Reason: fmt.Sprintf(format, args...)}
}

// InvariantError reports an internal precondition failure. It points at a
// bug upstream of Op, never at bad user input.
type InvariantError struct {
	Op     string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: invariant violated: %s", e.Op, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// NewInvariantError creates a new InvariantError.
func NewInvariantError(op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
