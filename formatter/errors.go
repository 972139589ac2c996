package formatter

import (
	"errors"
	"fmt"
)

var (
	// ErrSerialization is matched by every *SerializationError.
	ErrSerialization = errors.New("serializing record")

	// ErrMissingPlaceholder is matched by every
	// *MissingPlaceholderError.
	ErrMissingPlaceholder = errors.New("missing placeholder")
)

// SerializationError reports that a record could not be
// turned into a field map.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSerialization, e.Err)
}

// Unwrap exposes both the sentinel and the underlying
// codec failure to errors.Is and errors.As.
func (e *SerializationError) Unwrap() []error {
	return []error{ErrSerialization, e.Err}
}

// MissingPlaceholderError reports a record field whose
// placeholder does not occur in the template.
type MissingPlaceholderError struct {
	Field       string
	Placeholder string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf(
		"%s %s for field %q",
		ErrMissingPlaceholder, e.Placeholder, e.Field,
	)
}

func (e *MissingPlaceholderError) Unwrap() error {
	return ErrMissingPlaceholder
}

// MissingFields returns the names of all fields reported
// missing in err, in the order they were reported. It
// returns nil when err carries no *MissingPlaceholderError.
func MissingFields(err error) []string {
	var fields []string

	collectMissing(err, &fields)

	return fields
}

func collectMissing(err error, fields *[]string) {
	if err == nil {
		return
	}

	if mp, ok := err.(*MissingPlaceholderError); ok { //nolint:errorlint // walking the tree by hand
		*fields = append(*fields, mp.Field)
		return
	}

	switch wrapped := err.(type) { //nolint:errorlint // walking the tree by hand
	case interface{ Unwrap() []error }:
		for _, inner := range wrapped.Unwrap() {
			collectMissing(inner, fields)
		}
	case interface{ Unwrap() error }:
		collectMissing(wrapped.Unwrap(), fields)
	}
}

func serializationErr(err error) error {
	var se *SerializationError
	if errors.As(err, &se) {
		return err
	}

	return &SerializationError{Err: err}
}
