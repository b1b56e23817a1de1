package forcedfields

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue is matched by every ValidationError.
	ErrInvalidValue = errors.New("invalid timestamp value")
	// ErrInvalidDeconstruction is returned when a field cannot be rebuilt.
	ErrInvalidDeconstruction = errors.New("invalid field deconstruction")
)

// ValidationError reports a value that cannot be stored in a timestamp
// column.
type ValidationError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ValidationError) Error() string {
	field := e.Field
	if field == "" {
		field = "timestamp"
	}
	return fmt.Sprintf("%s: value %v has an invalid date/time format: %v", field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidValue, e.Err}
}
