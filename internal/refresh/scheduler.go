package refresh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-planner/internal/config"
)

// Job is one refresh run.
type Job func(ctx context.Context) error

func logger() *slog.Logger {
	return slog.With(config.LogKeyComponent, config.CompRefresh)
}

// Scheduler re-runs a Job on a cron schedule until its context ends.
// A failed run is logged; whatever was last published stays served.
type Scheduler struct {
	Schedule string
	Job      Job
}

// NewScheduler validates the schedule (standard 5-field cron or a descriptor such as
// "@every 15m") before anything runs.
func NewScheduler(schedule string, job Job) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("%s: %q: %w", config.ErrSchedule, schedule, err)
	}
	return &Scheduler{Schedule: schedule, Job: job}, nil
}

// Start runs the job once, then on every tick of the schedule. A tick that
// fires while the previous run is still going is skipped. It blocks until
// ctx is cancelled and waits for a running job to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	log := logger()

	cronLog := cron.PrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelWarn))
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLog)))
	if _, err := c.AddFunc(s.Schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("%s: %q: %w", config.ErrSchedule, s.Schedule, err)
	}

	s.run(ctx)
	c.Start()
	log.Info(config.MsgRefreshStart, config.LogKeySchedule, s.Schedule)

	<-ctx.Done()
	log.Info(config.MsgRefreshStop)
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.Job(ctx); err != nil {
		logger().Error(config.ErrRefreshRun, config.LogKeyError, err)
	}
}
