package control

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGain indicates gain text that does not parse as a finite number.
	ErrInvalidGain = errors.New("control: invalid gain value")

	// ErrNotEditing indicates a commit with no gain edit in progress.
	ErrNotEditing = errors.New("control: no gain edit in progress")

	// ErrUnknownField indicates a gain name other than kp, ki or kd.
	ErrUnknownField = errors.New("control: unknown gain field")
)

// ParseError is returned by a commit whose buffer is not a number. The
// edit is discarded and the gain keeps its previous value.
type ParseError struct {
	Field GainField
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("control: invalid %s value %q", e.Field, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidGain
}
