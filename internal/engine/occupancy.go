package engine

// CapStyle tells the renderer which corners of a bar cell are rounded.
type CapStyle int

const (
	// CapInterior squares every corner.
	CapInterior CapStyle = iota
	// CapStart rounds the left corners.
	CapStart
	// CapEnd rounds the right corners.
	CapEnd
	// CapSingleDay rounds every corner.
	CapSingleDay
)

func (c CapStyle) String() string {
	switch c {
	case CapStart:
		return "start"
	case CapEnd:
		return "end"
	case CapSingleDay:
		return "single_day"
	default:
		return "interior"
	}
}

// Cell is one rendered day of one placed item.
type Cell struct {
	Row    int // lane index in the grid
	Item   int // position of the item within its row
	ItemID string

	DayIndex int // 0..7 in the canonical span
	Column   int // 0..6 in the displayed week

	Cap      CapStyle
	ColorKey int

	// Label is set on the first rendered day of the item, which carries its title.
	Label bool
	// Continued marks an item that began before the first visible day.
	Continued bool
	// Continues marks an item due after the last visible day.
	Continues bool
}

// Project walks every placed item day by day and emits a cell for each day
// rendered under w's week-start preference.
//
// The start cap goes on the first rendered day, so an item that began in an
// earlier week still shows a rounded left edge; the end cap is only drawn on
// the real due date.
func Project(g Grid, w Window) []Cell {
	first, last := w.FirstVisible(), w.LastVisible()

	var cells []Cell
	for r, row := range g.Rows {
		for i, it := range row {
			shownFrom := it.begin
			if shownFrom.Before(first) {
				shownFrom = first
			}
			key := ColorKey(it.CourseLabel(), r, i)

			// Days before the window cannot produce a cell; skip straight to it.
			j := 0
			if it.begin.Before(w.canonical) {
				j = daysBetween(it.begin, w.canonical)
			}
			for ; j <= it.duration; j++ {
				d := it.begin.AddDate(0, 0, j)
				idx, ok := w.Index(d)
				if !ok {
					break
				}
				col, visible, _ := w.Column(idx)
				if !visible {
					continue
				}

				isStart := d.Equal(shownFrom)
				isEnd := j == it.duration

				cell := Cell{
					Row:       r,
					Item:      i,
					ItemID:    it.ID,
					DayIndex:  idx,
					Column:    col,
					ColorKey:  key,
					Label:     isStart,
					Continued: it.begin.Before(first),
					Continues: it.end.After(last),
				}
				switch {
				case it.duration == 0, isStart && isEnd:
					cell.Cap = CapSingleDay
				case isStart:
					cell.Cap = CapStart
				case isEnd:
					cell.Cap = CapEnd
				default:
					cell.Cap = CapInterior
				}
				cells = append(cells, cell)
			}
		}
	}
	return cells
}
