package clock

import "time"

// System reads the wall clock in a fixed location. Day buckets follow that
// location's calendar.
type System struct {
	loc *time.Location
}

// New returns a System clock for loc, or for the local zone when loc is nil.
func New(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{loc: loc}
}

// Now returns the current time in the clock's location.
func (c *System) Now() time.Time {
	return time.Now().In(c.loc)
}
