package memberdomain

import (
	"errors"
	"fmt"
)

var (
	// ErrMemberNotFound indicates the name is not in the directory.
	ErrMemberNotFound = errors.New("member not found")

	// ErrInvalidName indicates an empty or whitespace-only member name.
	ErrInvalidName = errors.New("member name must not be empty")
)

// LoadError is returned when a roster cannot be turned into a directory.
type LoadError struct {
	Source string
	Row    int // 1-based spreadsheet row, 0 when not row specific
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load roster %s: %s", e.Source, e.Reason)
	if e.Row > 0 {
		msg = fmt.Sprintf("load roster %s: row %d: %s", e.Source, e.Row, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
