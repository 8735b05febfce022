package bot

import (
	"fmt"
	"time"
)

// SlowHoursNotice is sent ahead of normal handling during the slow-hours window.
const SlowHoursNotice = "Please note that responses may be slower between 11 PM and 6 AM."

// SlowHours is a daily window, in a fixed reference timezone, during which admins answer slowly.
// The window may wrap past midnight (Start > End).
type SlowHours struct {
	Location *time.Location

	// Start is the first hour inside the window, End the first hour after it.
	Start int
	End   int
}

// NewSlowHours loads the reference timezone and validates the hour bounds.
func NewSlowHours(tz string, start, end int) (SlowHours, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return SlowHours{}, fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	if start < 0 || start > 23 || end < 0 || end > 23 {
		return SlowHours{}, fmt.Errorf("slow hours must be within 0-23, got %d-%d", start, end)
	}
	return SlowHours{Location: loc, Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window.
func (s SlowHours) Contains(t time.Time) bool {
	if s.Location == nil || s.Start == s.End {
		return false
	}

	h := t.In(s.Location).Hour()
	if s.Start < s.End {
		return h >= s.Start && h < s.End
	}
	return h >= s.Start || h < s.End
}
