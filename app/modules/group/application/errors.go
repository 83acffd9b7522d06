package groupservice

import (
	"errors"
	"fmt"
)

// ErrInvalidGroupSize indicates a maximum group size below one.
var ErrInvalidGroupSize = errors.New("max group size must be at least 1")

// OverrideError is returned when a manual group edit is rejected.
type OverrideError struct {
	Member string
	Reason string
}

func (e *OverrideError) Error() string {
	return fmt.Sprintf("invalid group override: %s %s", e.Member, e.Reason)
}
