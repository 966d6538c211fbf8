package engine

import (
	"cmp"
	"slices"
	"time"
)

// Notice is a course announcement shown under the week grid.
// It occupies no row; only its posting day matters.
type Notice struct {
	ID         string
	CourseID   string
	CourseName string
	Title      string
	Posted     time.Time
}

// CourseLabel is the course name, or the course id when no name is known.
func (n Notice) CourseLabel() string {
	if n.CourseName != "" {
		return n.CourseName
	}
	return n.CourseID
}

// VisibleNotices keeps the notices posted on a visible day of w, oldest first.
// The day is taken in the notice's own location.
func VisibleNotices(notices []Notice, w Window) []Notice {
	var out []Notice
	for _, n := range notices {
		idx, ok := w.Index(n.Posted)
		if !ok {
			continue
		}
		if _, visible, _ := w.Column(idx); visible {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b Notice) int {
		if c := a.Posted.Compare(b.Posted); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
