package refresh

import (
	"context"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
	"github.com/tartampluch/go-planner/internal/render"
	"github.com/tartampluch/go-planner/internal/source"
)

// AssignmentLoader reads assignments for one load configuration.
type AssignmentLoader interface {
	Load(ctx context.Context, cfg source.LoadConfig) ([]source.Assignment, error)
}

// AnnouncementLoader lists course announcements posted in [from, to].
type AnnouncementLoader interface {
	Enabled() bool
	Load(ctx context.Context, courseIDs []string, from, to time.Time) ([]source.Announcement, error)
}

// Publisher receives each freshly built week, one snapshot per week-start
// projection. The first snapshot follows the configured week start.
type Publisher interface {
	Update(snaps ...render.Snapshot) error
}

// Pipeline runs load, place and render for the week containing Clock.Now().
type Pipeline struct {
	Settings   *config.Settings
	Loader     AssignmentLoader
	Clock      engine.Clock
	Translator *render.Translator
	Publisher  Publisher // Optional; nil in one-shot mode.

	// Announcements is optional. A failure there is logged and the week
	// is built without them.
	Announcements AnnouncementLoader
}

// Build loads the assignments and places the current week.
func (p *Pipeline) Build(ctx context.Context) (engine.WeekView, error) {
	now := p.Clock.Now()
	cfg, err := source.ConfigFromSettings(p.Settings, now)
	if err != nil {
		return engine.WeekView{}, err
	}

	records, err := p.Loader.Load(ctx, cfg)
	if err != nil {
		return engine.WeekView{}, err
	}
	items := source.ToItems(records, source.PolicyFromSettings(p.Settings), p.Settings.CourseNames)

	w := engine.CurrentWindow(engine.FixedClock{Time: now.In(cfg.Feed.Location)}, p.Settings.SundayFirst())
	view := engine.BuildWeek(items, w, engine.StrategyFor(p.Settings.Strategy))
	view.Notices = p.notices(ctx, records, w, cfg.Feed.Location)
	return view, nil
}

// notices loads the announcements of the whole 8-day span, so that both
// week-start projections can show them.
func (p *Pipeline) notices(ctx context.Context, records []source.Assignment, w engine.Window, loc *time.Location) []engine.Notice {
	log := logger()
	if p.Announcements == nil || !p.Announcements.Enabled() {
		log.Debug(config.MsgNoticesSkip)
		return nil
	}

	var ids []string
	seen := make(map[string]bool)
	for _, a := range records {
		if !seen[a.CourseID] {
			seen[a.CourseID] = true
			ids = append(ids, a.CourseID)
		}
	}

	y, m, d := w.Canonical().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, config.DaysInWindow).Add(-time.Second)

	anns, err := p.Announcements.Load(ctx, ids, from, to)
	if err != nil {
		log.Warn(config.MsgNoticesFailed, config.LogKeyError, err)
		return nil
	}
	return source.ToNotices(anns, source.CourseNames(records, p.Settings.CourseNames), loc)
}

// Run builds the week, renders it and hands it to the Publisher.
// It returns the text rendering.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	start := time.Now()
	view, err := p.Build(ctx)
	if err != nil {
		return "", err
	}

	snap := render.Render(view, p.Translator)
	if p.Publisher != nil {
		other := render.Render(view.Toggle(!view.Window.SundayFirst()), p.Translator)
		if err := p.Publisher.Update(snap, other); err != nil {
			return "", err
		}
	}

	logger().Info(config.MsgRefreshRun,
		config.LogKeyWeek, view.Window.String(),
		config.LogKeyCount, len(view.Courses),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return snap.Text, nil
}
