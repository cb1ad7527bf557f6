package model

import "fmt"

// EmptyInputError is returned when the input has no eligible units.
type EmptyInputError struct {
	Mode string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s mode: input contains no relevant units", e.Mode)
}

// InvalidConfigurationError is returned before any processing when an option
// is outside its valid range.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &InvalidConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
