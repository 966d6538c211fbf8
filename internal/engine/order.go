package engine

import (
	"cmp"
	"slices"
)

// compareItems orders by due date-time, then ID, course ID and title so that
// items due at the same instant still sort deterministically.
func compareItems(a, b Item) int {
	if c := a.Due.Compare(b.Due); c != 0 {
		return c
	}
	return cmp.Or(
		cmp.Compare(a.ID, b.ID),
		cmp.Compare(a.CourseID, b.CourseID),
		cmp.Compare(a.Title, b.Title),
	)
}

// Sort returns a chronologically ordered copy of items. The input is not modified.
func Sort(items []Item) []Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, compareItems)
	return out
}

// Partition splits sorted into the indices of items due inside the 8-day span
// and the indices of every other item. Both keep the order of sorted.
//
// The overlap day (index 7) counts as due even when the week starts on Sunday
// and that day is not displayed.
//
// The span is the same for both week-start preferences, so toggling the
// preference never changes bucket priority and therefore never changes placement.
func Partition(sorted []Item, w Window) (due, notDue []int) {
	for i, it := range sorted {
		if w.Contains(it.end) {
			due = append(due, i)
		} else {
			notDue = append(notDue, i)
		}
	}
	return due, notDue
}
