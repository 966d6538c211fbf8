package engine

import (
	"log/slog"

	"github.com/tartampluch/go-planner/internal/config"
)

// CourseWeek is the placement and projection of one course in one week.
// It is rebuilt wholesale for every new week or course view.
type CourseWeek struct {
	CourseID   string
	CourseName string
	Grid       Grid
	Cells      []Cell
}

// Header is the course name, or its id when no name is known.
func (c CourseWeek) Header() string {
	if c.CourseName != "" {
		return c.CourseName
	}
	return c.CourseID
}

// WeekView is every course-week of one displayed week.
type WeekView struct {
	Window  Window
	Courses []CourseWeek

	// Notices holds the announcements of the whole 8-day span, so that a
	// toggle can show the overlap day's notices without refetching.
	Notices []Notice
}

// Announcements returns the notices posted on the visible days, oldest first.
func (v WeekView) Announcements() []Notice {
	return VisibleNotices(v.Notices, v.Window)
}

// Toggle re-projects the view for the other week-start preference.
// Rows are reused as they are; only the day-to-column mapping changes.
func (v WeekView) Toggle(sundayFirst bool) WeekView {
	w := v.Window.WithWeekStart(sundayFirst)
	courses := make([]CourseWeek, len(v.Courses))
	for i, c := range v.Courses {
		c.Cells = Project(c.Grid, w)
		courses[i] = c
	}
	return WeekView{Window: w, Courses: courses, Notices: v.Notices}
}

// GroupByCourse splits items per course id, courses in order of first appearance.
func GroupByCourse(items []Item) [][]Item {
	index := make(map[string]int)
	var groups [][]Item
	for _, it := range items {
		i, ok := index[it.CourseID]
		if !ok {
			i = len(groups)
			index[it.CourseID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], it)
	}
	return groups
}

// BuildCourseWeek places items (all of one course) and projects their cells.
// A nil strategy means FirstFit.
func BuildCourseWeek(items []Item, w Window, s PlacementStrategy) CourseWeek {
	if s == nil {
		s = FirstFit{}
	}
	var cw CourseWeek
	if len(items) > 0 {
		cw.CourseID = items[0].CourseID
		cw.CourseName = items[0].CourseName
	}
	cw.Grid = s.Place(items, w)
	cw.Cells = Project(cw.Grid, w)

	slog.Debug(config.MsgPlaced,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCourse, cw.Header(),
		config.LogKeyRows, len(cw.Grid.Rows),
		config.LogKeyRendered, cw.Grid.Rendered(),
		config.LogKeyHidden, len(cw.Grid.Hidden),
	)
	return cw
}

// BuildWeek keeps the items whose range touches the 8-day span plus those
// beginning during the following week, groups them by course and builds one
// CourseWeek per course that has any. The following week's items end up in
// Grid.Hidden.
func BuildWeek(items []Item, w Window, s PlacementStrategy) WeekView {
	horizon := w.Next().Last()
	var inWindow []Item
	for _, it := range items {
		if it.end.Before(w.canonical) || it.begin.After(horizon) {
			continue
		}
		inWindow = append(inWindow, it)
	}

	view := WeekView{Window: w}
	for _, group := range GroupByCourse(inWindow) {
		view.Courses = append(view.Courses, BuildCourseWeek(group, w, s))
	}

	slog.Debug(config.MsgWeekBuilt,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyWeek, w.String(),
		config.LogKeyCount, len(view.Courses),
	)
	return view
}
