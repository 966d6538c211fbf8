package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/teambition/rrule-go"
)

// FeedOptions controls how a Canvas calendar feed is interpreted.
type FeedOptions struct {
	// Location is the zone for floating and all-day dates. Nil means time.Local.
	Location *time.Location

	// From and To bound recurrence expansion. When To is not after From,
	// recurring events keep only their first occurrence.
	From, To time.Time

	// IncludeEvents keeps plain calendar events alongside assignments.
	IncludeEvents bool

	// MaxRecurrences caps the occurrences kept per recurring event.
	// Zero means config.MaxRecurrences.
	MaxRecurrences int
}

// ParseFeed decodes every VCALENDAR in r and returns one Assignment per
// assignment event (or per occurrence of a recurring one).
// Events with unusable dates are logged and skipped.
func ParseFeed(r io.Reader, opts FeedOptions) ([]Assignment, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxRecurrences <= 0 {
		opts.MaxRecurrences = config.MaxRecurrences
	}

	log := slog.With(config.LogKeyComponent, config.CompFeed)

	var out []Assignment
	events := 0
	dec := ical.NewDecoder(r)
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrFeedParse, err)
		}

		for _, ev := range cal.Events() {
			events++
			uid, _ := ev.Props.Text(ical.PropUID)
			if !opts.IncludeEvents && !strings.HasPrefix(uid, config.FeedAssignmentUIDPrefix) {
				continue
			}

			a, allDay, err := toAssignment(ev, uid, opts.Location)
			if err != nil {
				log.Warn(config.MsgSkippedEvent, config.LogKeyUID, uid, config.LogKeyError, err)
				continue
			}

			set, err := ev.RecurrenceSet(opts.Location)
			if err != nil {
				log.Warn(config.MsgSkippedEvent, config.LogKeyUID, uid, config.LogKeyError, err)
				continue
			}
			if set == nil || !opts.To.After(opts.From) {
				out = append(out, a)
				continue
			}

			times, truncated := occurrences(set, opts)
			if truncated {
				log.Warn(config.MsgRecurTrunc, config.LogKeyUID, uid, config.LogKeyCap, opts.MaxRecurrences)
			}
			for _, t := range times {
				occ := a
				occ.Due = t.In(opts.Location)
				if allDay {
					occ.Due = atDefaultDueTime(occ.Due, opts.Location)
				}
				// Every occurrence keeps the lead time of the first one.
				if !a.CreatedAt.IsZero() {
					occ.CreatedAt = a.CreatedAt.Add(occ.Due.Sub(a.Due))
				}
				occ.ID = a.ID + config.FeedOccurrenceSep + occ.Due.Format(config.DateFormat)
				out = append(out, occ)
			}
		}
	}

	log.Info(config.MsgFeedParsed, config.LogKeyEvents, events, config.LogKeyRecords, len(out))
	return out, nil
}

// toAssignment reads the fields of a single event. allDay reports a
// date-only DTSTART, whose time of day is filled in with config.DefaultDueTime.
func toAssignment(ev ical.Event, uid string, loc *time.Location) (Assignment, bool, error) {
	start := ev.Props.Get(ical.PropDateTimeStart)
	if start == nil {
		return Assignment{}, false, errors.New(config.ErrDueMissing)
	}
	due, err := start.DateTime(loc)
	if err != nil {
		return Assignment{}, false, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	allDay := start.ValueType() == ical.ValueDate
	if allDay {
		due = atDefaultDueTime(due, loc)
	} else {
		due = due.In(loc)
	}

	summary, _ := ev.Props.Text(ical.PropSummary)
	title, courseName := splitSummary(summary)

	a := Assignment{
		ID:         strings.TrimPrefix(uid, config.FeedAssignmentUIDPrefix),
		CourseName: courseName,
		Title:      title,
		Due:        due,
		Difficulty: difficulty(ev.Props.Get(config.FeedPropDifficulty)),
	}

	if u, err := ev.Props.URI(ical.PropURL); err == nil && u != nil {
		a.CourseID = courseIDFromURL(u)
	}
	if a.CourseID == "" {
		a.CourseID = courseName
	}

	if created, err := ev.Props.DateTime(ical.PropCreated, loc); err == nil && !created.IsZero() {
		a.CreatedAt = created.In(loc)
	}
	return a, allDay, nil
}

// occurrences expands set within [opts.From, opts.To], capped at opts.MaxRecurrences.
func occurrences(set *rrule.Set, opts FeedOptions) ([]time.Time, bool) {
	times := set.Between(opts.From, opts.To, true)
	if len(times) > opts.MaxRecurrences {
		return times[:opts.MaxRecurrences], true
	}
	return times, false
}

func atDefaultDueTime(d time.Time, loc *time.Location) time.Time {
	hm, _ := time.Parse(config.TimeFormat, config.DefaultDueTime)
	y, m, day := d.In(loc).Date()
	return time.Date(y, m, day, hm.Hour(), hm.Minute(), 0, 0, loc)
}

// splitSummary turns "Essay 2 [ENG 101]" into ("Essay 2", "ENG 101").
func splitSummary(summary string) (title, course string) {
	summary = strings.TrimSpace(summary)
	if !strings.HasSuffix(summary, config.FeedCourseClose) {
		return summary, ""
	}
	open := strings.LastIndex(summary, config.FeedCourseOpen)
	if open < 0 {
		return summary, ""
	}
	course = strings.TrimSpace(summary[open+len(config.FeedCourseOpen) : len(summary)-len(config.FeedCourseClose)])
	return strings.TrimSpace(summary[:open]), course
}

// courseIDFromURL finds the course id in either
// ".../courses/<id>/assignments/..." or "...?include_contexts=course_<id>".
func courseIDFromURL(u *url.URL) string {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == config.FeedCoursePathSegment && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1]
		}
	}
	for _, c := range strings.Split(u.Query().Get(config.FeedContextParam), ",") {
		if id, ok := strings.CutPrefix(c, config.FeedContextPrefix); ok && id != "" {
			return id
		}
	}
	return ""
}

// difficulty returns nil for a missing, unparsable or out-of-range value.
func difficulty(p *ical.Prop) *int {
	if p == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.Value))
	if err != nil || n < config.MinDifficulty || n > config.MaxDifficulty {
		return nil
	}
	return &n
}
