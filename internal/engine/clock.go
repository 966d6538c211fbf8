package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// It is used to determine which week is "this week".
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// CurrentWindow returns the window of the week containing c.Now().
func CurrentWindow(c Clock, sundayFirst bool) Window {
	return WeekContaining(c.Now(), sundayFirst)
}

// FixedClock always reports the same instant. It pins the displayed week.
type FixedClock struct {
	Time time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}
