package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

var dateLayouts = []string{time.DateOnly, "2006/01/02", "2006.01.02", "01/02/2006"}

// ParseOutingDate reads an absolute date or a phrase such as "next saturday"
// relative to now. The result is midnight in now's location.
func ParseOutingDate(raw string, now time.Time) (time.Time, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return time.Time{}, ErrInvalidOutingDate
	}
	loc := now.Location()

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(strings.ToLower(input), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidOutingDate, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidOutingDate, input)
	}

	t := r.Time.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}
