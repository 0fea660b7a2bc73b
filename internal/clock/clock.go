// Package clock renders the human-readable time label used in replies and
// idle statuses.
package clock

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // the zone lookup must not depend on the host zoneinfo
)

// ErrUnknownZone is returned when the configured timezone cannot be loaded.
var ErrUnknownZone = errors.New("unknown timezone")

// Formatter produces time labels in a fixed civil timezone.
type Formatter struct {
	loc *time.Location
	now func() time.Time
}

// NewFormatter loads zone and returns a Formatter reading the clock from now.
// A nil now uses time.Now.
func NewFormatter(zone string, now func() time.Time) (*Formatter, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownZone, zone, err)
	}
	if now == nil {
		now = time.Now
	}
	return &Formatter{loc: loc, now: now}, nil
}

// Label formats t as "It is HH:MM:SS on a <Weekday> (DD-MM-YYYY)." in the
// formatter's zone.
func (f *Formatter) Label(t time.Time) string {
	local := t.In(f.loc)
	return fmt.Sprintf("It is %s on a %s (%s).",
		local.Format(TimeOfDay), local.Weekday(), local.Format(DayMonthYear))
}

// CurrentLabel is Label for the current instant.
func (f *Formatter) CurrentLabel() string {
	return f.Label(f.now())
}

// Now returns the current instant from the formatter's clock.
func (f *Formatter) Now() time.Time {
	return f.now()
}
