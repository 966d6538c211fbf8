package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
)

// Row is one horizontal lane of a course-week. Items in a row never overlap.
type Row []Item

// Item returns the item at position i.
func (r Row) Item(i int) (Item, error) {
	if i < 0 || i >= len(r) {
		return Item{}, fmt.Errorf("%w: item index %d (row has %d)", ErrIndexOutOfRange, i, len(r))
	}
	return r[i], nil
}

// Occupancy marks, for each window index, whether an item of the row covers it.
func (r Row) Occupancy(w Window) [config.DaysInWindow]bool {
	var occ [config.DaysInWindow]bool
	for _, it := range r {
		for i := range occ {
			d, _ := w.Day(i)
			if it.Occupies(d) {
				occ[i] = true
			}
		}
	}
	return occ
}

// Grid is the placement of one course-week. Row 0 is the topmost lane.
type Grid struct {
	Rows []Row
	// Hidden holds items that were consumed by placement but begin after the
	// window's last day, so they are not materialized into any row.
	Hidden []Item
}

// Row returns the lane at index i.
func (g Grid) Row(i int) (Row, error) {
	if i < 0 || i >= len(g.Rows) {
		return nil, fmt.Errorf("%w: row %d (grid has %d)", ErrIndexOutOfRange, i, len(g.Rows))
	}
	return g.Rows[i], nil
}

// Rendered counts materialized items.
func (g Grid) Rendered() int {
	n := 0
	for _, r := range g.Rows {
		n += len(r)
	}
	return n
}

// Entered counts every item the placement consumed.
func (g Grid) Entered() int {
	return g.Rendered() + len(g.Hidden)
}

// PlacementStrategy assigns items of one course-week to rows.
type PlacementStrategy interface {
	Place(items []Item, w Window) Grid
}

// FirstFit is the default strategy: rows are filled one at a time, always
// preferring items due inside the window, and an item joins a row only when
// it begins strictly after the row's last due date. It does not minimise the
// number of rows.
type FirstFit struct{}

// Place implements PlacementStrategy.
func (FirstFit) Place(items []Item, w Window) Grid {
	sorted := Sort(items)
	due, notDue := Partition(sorted, w)

	p := firstFit{
		items:   sorted,
		buckets: [2][]int{due, notDue},
		entered: make([]bool, len(sorted)),
	}
	return p.run(w.Last())
}

// firstFit holds the scratch state of one FirstFit run.
type firstFit struct {
	items   []Item
	buckets [2][]int
	entered []bool
}

func (p *firstFit) run(lastDay time.Time) Grid {
	var g Grid
	remaining := len(p.items)

	for remaining > 0 {
		var row Row
		for {
			idx := p.next(row)
			if idx < 0 {
				break
			}
			p.entered[idx] = true
			remaining--

			it := p.items[idx]
			if it.begin.After(lastDay) {
				g.Hidden = append(g.Hidden, it)
				continue
			}
			row = append(row, it)
		}
		if len(row) > 0 {
			g.Rows = append(g.Rows, row)
		}
	}
	return g
}

// next returns the index of the first unentered item admissible to row,
// scanning the due bucket before the not-due bucket, or -1.
func (p *firstFit) next(row Row) int {
	for _, bucket := range p.buckets {
		for _, idx := range bucket {
			if p.entered[idx] {
				continue
			}
			if len(row) == 0 || p.items[idx].begin.After(row[len(row)-1].end) {
				return idx
			}
		}
	}
	return -1
}

// MinRows is optimal interval partitioning: items are taken by begin date and
// each goes to the lowest row whose last item ended before it begins. The row
// count equals the largest number of items sharing a single day.
type MinRows struct{}

// Place implements PlacementStrategy.
func (MinRows) Place(items []Item, w Window) Grid {
	byBegin := Sort(items)
	slices.SortStableFunc(byBegin, func(a, b Item) int {
		return a.begin.Compare(b.begin)
	})

	lastDay := w.Last()
	var g Grid
	for _, it := range byBegin {
		if it.begin.After(lastDay) {
			g.Hidden = append(g.Hidden, it)
			continue
		}
		placed := false
		for i, r := range g.Rows {
			if it.begin.After(r[len(r)-1].end) {
				g.Rows[i] = append(r, it)
				placed = true
				break
			}
		}
		if !placed {
			g.Rows = append(g.Rows, Row{it})
		}
	}
	return g
}

// StrategyFor maps a settings value to a strategy; unknown names get FirstFit.
func StrategyFor(name string) PlacementStrategy {
	if name == config.StrategyMinRows {
		return MinRows{}
	}
	return FirstFit{}
}
