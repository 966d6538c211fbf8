package source

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

// Assignment is one Canvas assignment as read from a feed.
type Assignment struct {
	ID         string
	CourseID   string
	CourseName string
	Title      string

	// Due carries both the due date and the due time in the feed's timezone.
	// All-day feed entries get config.DefaultDueTime.
	Due time.Time

	// Difficulty is 1..5, or nil when unknown.
	Difficulty *int

	// CreatedAt is zero when the feed does not say.
	CreatedAt time.Time
}

// DurationPolicy decides how many days before its due date an assignment begins.
type DurationPolicy struct {
	DefaultDays int
	MaxDays     int
}

// PolicyFromSettings builds the policy from a normalized profile.
func PolicyFromSettings(s *config.Settings) DurationPolicy {
	return DurationPolicy{DefaultDays: s.DefaultDurationDays, MaxDays: s.MaxDurationDays}
}

// Days returns the whole days between creation and due date, clamped to
// [0, MaxDays], or DefaultDays when the creation date is unknown.
func (p DurationPolicy) Days(a Assignment) int {
	if a.CreatedAt.IsZero() {
		return clamp(p.DefaultDays, p.MaxDays)
	}
	created := civilIn(a.CreatedAt, a.Due.Location())
	due := civilIn(a.Due, a.Due.Location())
	return clamp(int(due.Sub(created).Hours()/24), p.MaxDays)
}

func clamp(days, limit int) int {
	if days < 0 {
		return 0
	}
	if limit >= 0 && days > limit {
		return limit
	}
	return days
}

// civilIn drops the time of day of t as seen in loc.
func civilIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToItem converts one assignment into a placeable item.
// names overrides the course display name by course id.
func ToItem(a Assignment, p DurationPolicy, names map[string]string) (engine.Item, error) {
	if a.Due.IsZero() {
		return engine.Item{}, fmt.Errorf("%w: %s: %s", engine.ErrMalformedItem, config.ErrDueMissing, a.ID)
	}
	name := a.CourseName
	if override, ok := names[a.CourseID]; ok && override != "" {
		name = override
	}
	it, err := engine.NewItem(a.ID, a.CourseID, name, a.Title, a.Due, p.Days(a))
	if err != nil {
		return engine.Item{}, err
	}
	if a.Difficulty != nil {
		it.Difficulty = *a.Difficulty
	}
	return it, nil
}

// ToItems converts every valid assignment. Malformed records are logged and skipped.
func ToItems(records []Assignment, p DurationPolicy, names map[string]string) []engine.Item {
	items := make([]engine.Item, 0, len(records))
	for _, a := range records {
		it, err := ToItem(a, p, names)
		if err != nil {
			slog.Warn(config.MsgSkippedRecord,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyUID, a.ID,
				config.LogKeyError, err)
			continue
		}
		items = append(items, it)
	}
	return items
}
