package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Width(config.CellWidth).Align(lipgloss.Center)
	courseStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	noteStyle   = lipgloss.NewStyle().Faint(true)
	blankCell   = strings.Repeat(config.GlyphFill, config.CellWidth)
)

// Truncate shortens label to config.LabelMaxRunes runes plus config.LabelEllipsis.
func Truncate(label string) string {
	r := []rune(label)
	if len(r) <= config.LabelMaxRunes {
		return label
	}
	return string(r[:config.LabelMaxRunes]) + config.LabelEllipsis
}

// Text renders the week as one block per course, one line per row.
func Text(view engine.WeekView, tr *Translator) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(tr.MsgData(config.TKeyWeekOf,
		map[string]any{"Date": tr.Date(view.Window.FirstVisible())}, nil)))
	b.WriteString("\n")
	b.WriteString(dayHeader(view.Window, tr))
	b.WriteString("\n")

	if len(view.Courses) == 0 {
		b.WriteString(noteStyle.Render(tr.Msg(config.TKeyNoCourses)))
		b.WriteString("\n")
	}

	for _, cw := range view.Courses {
		b.WriteString("\n")
		b.WriteString(courseStyle.Render(cw.Header()))
		b.WriteString(" ")
		b.WriteString(noteStyle.Render(tr.MsgData(config.TKeyBarsCount,
			map[string]any{"Rows": len(cw.Grid.Rows), "Rendered": cw.Grid.Rendered()},
			len(cw.Grid.Rows))))
		b.WriteString("\n")

		for _, line := range rowLines(cw, tr) {
			b.WriteString(line)
			b.WriteString("\n")
		}

		if n := len(cw.Grid.Hidden); n > 0 {
			b.WriteString(noteStyle.Render(tr.MsgData(config.TKeyHiddenCnt,
				map[string]any{"Count": n}, n)))
			b.WriteString("\n")
		}
	}

	writeNotices(&b, view.Announcements(), tr)
	return b.String()
}

// writeNotices lists the week's announcements grouped by course, courses in
// order of their first notice.
func writeNotices(b *strings.Builder, notices []engine.Notice, tr *Translator) {
	if len(notices) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(tr.Msg(config.TKeyNotices)))
	b.WriteString("\n")

	var order []string
	byCourse := make(map[string][]engine.Notice)
	for _, n := range notices {
		if _, ok := byCourse[n.CourseID]; !ok {
			order = append(order, n.CourseID)
		}
		byCourse[n.CourseID] = append(byCourse[n.CourseID], n)
	}

	for _, id := range order {
		group := byCourse[id]
		b.WriteString(courseStyle.Render(group[0].CourseLabel()))
		b.WriteString("\n")
		for _, n := range group {
			b.WriteString("  ")
			b.WriteString(noteStyle.Render(tr.Weekday(n.Posted.Weekday()) + " " + tr.Date(n.Posted)))
			b.WriteString("  ")
			b.WriteString(n.Title)
			b.WriteString("\n")
		}
	}
}

func dayHeader(w engine.Window, tr *Translator) string {
	cols := make([]string, config.VisibleColumns)
	for col := range cols {
		idx, _ := w.IndexForColumn(col)
		d, _ := w.Day(idx)
		cols[col] = headerStyle.Render(tr.Weekday(d.Weekday()) + " " + tr.Date(d))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// rowLines draws every row of the course-week across the visible columns.
func rowLines(cw engine.CourseWeek, tr *Translator) []string {
	grid := make([][]string, len(cw.Grid.Rows))
	for r := range grid {
		grid[r] = make([]string, config.VisibleColumns)
		for c := range grid[r] {
			grid[r][c] = blankCell
		}
	}

	markers := make([][]string, len(cw.Grid.Rows))
	for _, c := range cw.Cells {
		it := cw.Grid.Rows[c.Row][c.Item]
		body := ""
		if c.Label {
			body = it.Title
			if body == "" {
				body = tr.Msg(config.TKeyUntitled)
			}
			if m := difficultyMarker(it.Difficulty); m != "" {
				markers[c.Row] = append(markers[c.Row], m)
			}
		}
		grid[c.Row][c.Column] = barCell(c, Truncate(body))
	}

	lines := make([]string, len(grid))
	for r, cols := range grid {
		lines[r] = lipgloss.JoinHorizontal(lipgloss.Top, cols...)
		if len(markers[r]) > 0 {
			lines[r] += " " + strings.Join(markers[r], " ")
		}
	}
	return lines
}

// difficultyMarker draws a known difficulty level in its scale color.
func difficultyMarker(level int) string {
	c, ok := engine.DifficultyColor(level)
	if !ok {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Hex())).
		Render(config.GlyphDifficulty + strconv.Itoa(level))
}

// barCell draws one day of a bar: cap glyphs at the edges, the palette color
// as background.
func barCell(c engine.Cell, body string) string {
	left, right := config.GlyphFill, config.GlyphFill
	switch c.Cap {
	case engine.CapStart:
		left = config.GlyphCapOpen
	case engine.CapEnd:
		right = config.GlyphCapClose
	case engine.CapSingleDay:
		left, right = config.GlyphCapOpen, config.GlyphCapClose
	}
	if c.Label && c.Continued {
		left = config.GlyphContinued
	}
	if c.Continues && c.Column == config.VisibleColumns-1 {
		right = config.GlyphContinues
	}

	inner := config.CellWidth - 2
	pad := inner - lipgloss.Width(body)
	if pad < 0 {
		pad = 0
	}
	text := left + body + strings.Repeat(config.GlyphFill, pad) + right

	return lipgloss.NewStyle().
		Background(lipgloss.Color(engine.ColorFor(c.ColorKey).Hex())).
		Foreground(lipgloss.Color(config.BarForeground)).
		MaxWidth(config.CellWidth).
		Render(text)
}
