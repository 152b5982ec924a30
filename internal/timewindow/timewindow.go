// Package timewindow converts user-local calendar days into absolute UTC
// intervals using real IANA zone rules. Every aggregate in the system is keyed
// by a (user, local date) pair, so all range queries over event timestamps go
// through DayWindow rather than naive date truncation.
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimezone is returned for zone identifiers the platform tzdata
// cannot resolve. Callers at the HTTP boundary fall back to UTC; it never
// propagates into recompute logic.
var ErrInvalidTimezone = errors.New("invalid_timezone")

// LoadLocation resolves an IANA zone identifier. Empty input means UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// DayWindow returns the half-open UTC interval [start, end) covering the
// local calendar day date in loc. Both endpoints are derived from local
// midnights, so the window is 23, 24 or 25 hours long across DST transitions.
func DayWindow(date Date, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start = date.Time(loc).UTC()
	end = date.AddDays(1).Time(loc).UTC()
	return start, end
}
