package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
)

// Window is the 8-day span [Sunday, next Sunday] backing one displayed week.
//
// The span is anchored on a canonical Sunday regardless of the week-start
// preference: a Sunday-first week shows indices 0..6, a Monday-first week
// shows 1..7. Index 7 is the overlap day shared with the next window's index 0.
// Toggling the preference changes only the index-to-column mapping.
type Window struct {
	canonical   time.Time
	sundayFirst bool
}

// NewWindow builds the window whose canonical Sunday is on or before anchor.
// anchor is normally the first displayed day (a Sunday or a Monday).
func NewWindow(anchor time.Time, sundayFirst bool) Window {
	a := civil(anchor)
	return Window{
		canonical:   a.AddDate(0, 0, -int(a.Weekday())),
		sundayFirst: sundayFirst,
	}
}

// WeekContaining returns the window whose visible week contains d.
// With a Monday-first week a Sunday belongs to the week that started six days earlier.
func WeekContaining(d time.Time, sundayFirst bool) Window {
	c := civil(d)
	if !sundayFirst && c.Weekday() == time.Sunday {
		c = c.AddDate(0, 0, -1)
	}
	return NewWindow(c, sundayFirst)
}

// Canonical returns the Sunday at index 0.
func (w Window) Canonical() time.Time { return w.canonical }

// SundayFirst reports the week-start preference.
func (w Window) SundayFirst() bool { return w.sundayFirst }

// Anchor returns the first visible day (Sunday or Monday).
func (w Window) Anchor() time.Time { return w.FirstVisible() }

// Last returns the overlap day at index 7.
func (w Window) Last() time.Time { return w.canonical.AddDate(0, 0, config.DaysInWindow-1) }

// WithWeekStart returns the same span with the other preference applied.
func (w Window) WithWeekStart(sundayFirst bool) Window {
	w.sundayFirst = sundayFirst
	return w
}

// Next returns the following week's window.
func (w Window) Next() Window {
	w.canonical = w.canonical.AddDate(0, 0, config.VisibleColumns)
	return w
}

// Prev returns the preceding week's window.
func (w Window) Prev() Window {
	w.canonical = w.canonical.AddDate(0, 0, -config.VisibleColumns)
	return w
}

// Contains reports whether d falls within the 8-day span.
func (w Window) Contains(d time.Time) bool {
	c := civil(d)
	return !c.Before(w.canonical) && !c.After(w.Last())
}

// Day returns the date at index i.
func (w Window) Day(i int) (time.Time, error) {
	if i < 0 || i >= config.DaysInWindow {
		return time.Time{}, fmt.Errorf("%w: day index %d", ErrIndexOutOfRange, i)
	}
	return w.canonical.AddDate(0, 0, i), nil
}

// Index maps d to its index 0..7. ok is false outside the span.
//
// The weekday gives the index inside the first week; a day after the first
// Saturday can only be the overlap Sunday and is forced to 7.
func (w Window) Index(d time.Time) (idx int, ok bool) {
	if !w.Contains(d) {
		return 0, false
	}
	c := civil(d)
	if c.After(w.canonical.AddDate(0, 0, config.VisibleColumns-1)) {
		return config.DaysInWindow - 1, true
	}
	return int(c.Weekday()), true
}

// visibleRange returns the first and last visible indices.
func (w Window) visibleRange() (lo, hi int) {
	if w.sundayFirst {
		return 0, config.VisibleColumns - 1
	}
	return 1, config.VisibleColumns
}

// FirstVisible returns the first rendered day.
func (w Window) FirstVisible() time.Time {
	lo, _ := w.visibleRange()
	return w.canonical.AddDate(0, 0, lo)
}

// LastVisible returns the last rendered day.
func (w Window) LastVisible() time.Time {
	_, hi := w.visibleRange()
	return w.canonical.AddDate(0, 0, hi)
}

// Column maps a window index to its rendered column 0..6.
// visible is false for the index the current preference hides.
func (w Window) Column(idx int) (col int, visible bool, err error) {
	if idx < 0 || idx >= config.DaysInWindow {
		return 0, false, fmt.Errorf("%w: day index %d", ErrIndexOutOfRange, idx)
	}
	lo, hi := w.visibleRange()
	if idx < lo || idx > hi {
		return 0, false, nil
	}
	return idx - lo, true, nil
}

// IndexForColumn is the inverse of Column.
func (w Window) IndexForColumn(col int) (int, error) {
	if col < 0 || col >= config.VisibleColumns {
		return 0, fmt.Errorf("%w: column %d", ErrIndexOutOfRange, col)
	}
	lo, _ := w.visibleRange()
	return col + lo, nil
}

var weekdayNames = [...]string{"SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"}

// IndexOfWeekday returns the visible index of the named weekday.
// In a Monday-first week "sunday" resolves to the overlap day 7.
func (w Window) IndexOfWeekday(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range weekdayNames {
		if n != name {
			continue
		}
		if i == int(time.Sunday) && !w.sundayFirst {
			return config.DaysInWindow - 1, nil
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: weekday %q", ErrIndexOutOfRange, name)
}

// String formats the visible week, e.g. "2025-03-02..2025-03-08".
func (w Window) String() string {
	return w.FirstVisible().Format(config.DateFormat) + ".." + w.LastVisible().Format(config.DateFormat)
}
