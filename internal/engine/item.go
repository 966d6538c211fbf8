package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
)

var (
	// ErrMalformedItem is returned when an item's begin date falls after its end date.
	ErrMalformedItem = errors.New(config.ErrMalformedItem)
	// ErrIndexOutOfRange signals a row, item or day index outside its bounds.
	ErrIndexOutOfRange = errors.New(config.ErrIndexOutOfRange)
)

const day = 24 * time.Hour

// civil maps t to midnight UTC of its calendar date (in t's own location),
// so day arithmetic is never affected by DST shifts.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b - a in whole days. Both must be civil dates.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}

// Item is the placement engine's view of an assignment: an inclusive range of
// calendar days ending on the due date.
//
// Begin, End and Duration are fixed at construction; the zero Item is a
// single-day item on 0001-01-01.
type Item struct {
	ID         string
	CourseID   string
	CourseName string
	Title      string

	// Due is the full due date-time, used for chronological ordering.
	Due time.Time

	// Difficulty is 1..5, or 0 when unknown. It does not affect placement.
	Difficulty int

	begin    time.Time
	end      time.Time
	duration int
}

// NewItem builds an item due at due that starts durationDays earlier.
// A duration of 0 yields a single-day item.
func NewItem(id, courseID, courseName, title string, due time.Time, durationDays int) (Item, error) {
	if durationDays < 0 {
		return Item{}, fmt.Errorf("%w: %s: %s (%d)", ErrMalformedItem, id, config.ErrDurationNegative, durationDays)
	}
	end := civil(due)
	return Item{
		ID:         id,
		CourseID:   courseID,
		CourseName: courseName,
		Title:      title,
		Due:        due,
		begin:      end.AddDate(0, 0, -durationDays),
		end:        end,
		duration:   durationDays,
	}, nil
}

// NewItemRange builds an item spanning [begin, end]. end is the due date;
// its time of day (if any) is kept for ordering.
func NewItemRange(id, courseID, courseName, title string, begin, end time.Time) (Item, error) {
	b, e := civil(begin), civil(end)
	if b.After(e) {
		return Item{}, fmt.Errorf("%w: %s: %s (%s > %s)", ErrMalformedItem, id, config.ErrBeginAfterEnd,
			b.Format(config.DateFormat), e.Format(config.DateFormat))
	}
	return Item{
		ID:         id,
		CourseID:   courseID,
		CourseName: courseName,
		Title:      title,
		Due:        end,
		begin:      b,
		end:        e,
		duration:   daysBetween(b, e),
	}, nil
}

// Begin returns the first day of the item (a civil date).
func (it Item) Begin() time.Time { return it.begin }

// End returns the due date (a civil date).
func (it Item) End() time.Time { return it.end }

// Duration is End - Begin in days; a four-day item has Duration 3.
func (it Item) Duration() int { return it.duration }

// Occupies reports whether the calendar date of d lies within [Begin, End].
func (it Item) Occupies(d time.Time) bool {
	c := civil(d)
	return !c.Before(it.begin) && !c.After(it.end)
}

// Overlaps reports whether the two ranges share at least one day.
// Touching ranges (one ends the day the other begins) overlap.
func (it Item) Overlaps(o Item) bool {
	return !it.begin.After(o.end) && !o.begin.After(it.end)
}

// DaysInWindow counts the days of the 8-day window the item occupies.
func (it Item) DaysInWindow(w Window) int {
	lo, hi := it.begin, it.end
	if lo.Before(w.canonical) {
		lo = w.canonical
	}
	if last := w.Last(); hi.After(last) {
		hi = last
	}
	if lo.After(hi) {
		return 0
	}
	return daysBetween(lo, hi) + 1
}

// CourseLabel is the course name, or the course id when the name is empty.
func (it Item) CourseLabel() string {
	if it.CourseName != "" {
		return it.CourseName
	}
	return it.CourseID
}
