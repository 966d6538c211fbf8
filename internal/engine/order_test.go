package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-planner/internal/engine"
)

func ids(items []engine.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSort_ByDueDateTimeThenID(t *testing.T) {
	mk := func(id string, due time.Time, dur int) engine.Item {
		it, err := engine.NewItem(id, "cs", "CS", id, due, dur)
		require.NoError(t, err)
		return it
	}

	items := []engine.Item{
		mk("late", day(5), 0),
		mk("b-tie", day(2).Add(9*time.Hour), 4),
		mk("evening", day(2).Add(18*time.Hour), 0),
		mk("a-tie", day(2).Add(9*time.Hour), 1),
	}
	original := ids(items)

	sorted := engine.Sort(items)

	// Begin dates play no part; equal due times fall back to the ID.
	assert.Equal(t, []string{"a-tie", "b-tie", "evening", "late"}, ids(sorted))
	assert.Equal(t, original, ids(items), "Sort must not reorder the caller's slice")
}

func TestPartition_SplitsOnDueDate(t *testing.T) {
	w := engine.NewWindow(sunday, false)

	sorted := engine.Sort([]engine.Item{
		span(t, "past", -6, -2),
		span(t, "sun", -1, 0),
		span(t, "wed", 1, 3),
		span(t, "overlap", 5, 7),
		span(t, "later", 4, 10),
	})
	require.Equal(t, []string{"past", "sun", "wed", "overlap", "later"}, ids(sorted))

	due, notDue := engine.Partition(sorted, w)
	assert.Equal(t, []int{1, 2, 3}, due)
	assert.Equal(t, []int{0, 4}, notDue)

	// Same buckets whichever day the week starts on.
	due2, notDue2 := engine.Partition(sorted, w.WithWeekStart(true))
	assert.Equal(t, due, due2)
	assert.Equal(t, notDue, notDue2)
}

func TestPartition_OverlapDayIsDueOnSundayFirst(t *testing.T) {
	w := engine.NewWindow(sunday, true)
	sorted := engine.Sort([]engine.Item{span(t, "overlap", 7, 7), span(t, "next", 8, 8)})

	due, notDue := engine.Partition(sorted, w)
	assert.Equal(t, []int{0}, due, "index 7 is due although the Sunday-first week does not show it")
	assert.Equal(t, []int{1}, notDue)
}

func TestPartition_Empty(t *testing.T) {
	due, notDue := engine.Partition(nil, engine.NewWindow(sunday, true))
	assert.Empty(t, due)
	assert.Empty(t, notDue)
}
