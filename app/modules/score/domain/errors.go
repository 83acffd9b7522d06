package scoredomain

import (
	"errors"
	"fmt"
)

// ErrSheetNotFound indicates there is no score sheet for the member.
var ErrSheetNotFound = errors.New("score sheet not found")

// InvalidScoreError is returned for out-of-range rounds, holes or stroke counts.
type InvalidScoreError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("invalid %s %d: must be between %d and %d", e.Field, e.Value, e.Min, e.Max)
}
