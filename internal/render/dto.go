package render

import (
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

// Snapshot is one projection of a week in both served formats.
type Snapshot struct {
	DTO  WeekDTO
	Text string
}

// Render builds the JSON and text forms of view.
func Render(view engine.WeekView, tr *Translator) Snapshot {
	return Snapshot{DTO: NewDTO(view), Text: Text(view, tr)}
}

// WeekDTO is the JSON shape of a week view.
type WeekDTO struct {
	Week          string            `json:"week"`
	WeekStart     string            `json:"week_start"`
	Days          []DayDTO          `json:"days"`
	Courses       []CourseDTO       `json:"courses"`
	Announcements []AnnouncementDTO `json:"announcements,omitempty"`
}

// AnnouncementDTO is one announcement posted on a visible day.
type AnnouncementDTO struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Course   string `json:"course"`
	Title    string `json:"title"`
	Posted   string `json:"posted"`
	Column   int    `json:"column"`
}

// DayDTO is one visible column.
type DayDTO struct {
	Column   int    `json:"column"`
	DayIndex int    `json:"day_index"`
	Date     string `json:"date"`
	Weekday  string `json:"weekday"`
}

// CourseDTO is one course-week.
type CourseDTO struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Rows     int       `json:"rows"`
	Rendered int       `json:"rendered"`
	Hidden   []string  `json:"hidden,omitempty"`
	Cells    []CellDTO `json:"cells"`
}

// CellDTO is one rendered day of one bar.
type CellDTO struct {
	Row       int    `json:"row"`
	Item      int    `json:"item"`
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Due       string `json:"due"`
	DayIndex  int    `json:"day_index"`
	Column    int    `json:"column"`
	Cap       string `json:"cap"`
	Color     string `json:"color"`
	Label     bool   `json:"label,omitempty"`
	Continued bool   `json:"continued,omitempty"`
	Continues bool   `json:"continues,omitempty"`

	// Difficulty (1..5) and its scale color ride on label cells only.
	Difficulty      int    `json:"difficulty,omitempty"`
	DifficultyColor string `json:"difficulty_color,omitempty"`
}

// NewDTO flattens a week view. Titles are carried on label cells only.
func NewDTO(view engine.WeekView) WeekDTO {
	w := view.Window
	dto := WeekDTO{
		Week:      w.String(),
		WeekStart: config.WeekStartMonday,
		Days:      make([]DayDTO, 0, config.VisibleColumns),
		Courses:   make([]CourseDTO, 0, len(view.Courses)),
	}
	if w.SundayFirst() {
		dto.WeekStart = config.WeekStartSunday
	}

	for col := 0; col < config.VisibleColumns; col++ {
		idx, _ := w.IndexForColumn(col)
		d, _ := w.Day(idx)
		dto.Days = append(dto.Days, DayDTO{
			Column:   col,
			DayIndex: idx,
			Date:     d.Format(config.DateFormat),
			Weekday:  d.Weekday().String(),
		})
	}

	for _, cw := range view.Courses {
		c := CourseDTO{
			ID:       cw.CourseID,
			Name:     cw.Header(),
			Rows:     len(cw.Grid.Rows),
			Rendered: cw.Grid.Rendered(),
			Cells:    make([]CellDTO, 0, len(cw.Cells)),
		}
		for _, it := range cw.Grid.Hidden {
			c.Hidden = append(c.Hidden, it.ID)
		}
		for _, cell := range cw.Cells {
			it := cw.Grid.Rows[cell.Row][cell.Item]
			cd := CellDTO{
				Row:       cell.Row,
				Item:      cell.Item,
				ID:        cell.ItemID,
				Due:       it.Due.Format(config.DateTimeFormat),
				DayIndex:  cell.DayIndex,
				Column:    cell.Column,
				Cap:       cell.Cap.String(),
				Color:     engine.ColorFor(cell.ColorKey).Hex(),
				Label:     cell.Label,
				Continued: cell.Continued,
				Continues: cell.Continues,
			}
			if cell.Label {
				cd.Title = it.Title
				if dc, ok := engine.DifficultyColor(it.Difficulty); ok {
					cd.Difficulty = it.Difficulty
					cd.DifficultyColor = dc.Hex()
				}
			}
			c.Cells = append(c.Cells, cd)
		}
		dto.Courses = append(dto.Courses, c)
	}

	for _, n := range view.Announcements() {
		idx, _ := w.Index(n.Posted)
		col, _, _ := w.Column(idx)
		dto.Announcements = append(dto.Announcements, AnnouncementDTO{
			ID:       n.ID,
			CourseID: n.CourseID,
			Course:   n.CourseLabel(),
			Title:    n.Title,
			Posted:   n.Posted.Format(config.DateTimeFormat),
			Column:   col,
		})
	}
	return dto
}
