package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/weatherpro/weatherdash/internal/app"
	"github.com/weatherpro/weatherdash/internal/report"
)

// Scheduler periodically re-aggregates the current location and refreshes
// the global report so displayed data stays current between user actions.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	controller *app.Controller
	report     *report.Builder
	interval   time.Duration
	timeout    time.Duration
}

// New creates a Scheduler.
func New(controller *app.Controller, reportBuilder *report.Builder, interval, timeout time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		controller: controller,
		report:     reportBuilder,
		interval:   interval,
		timeout:    timeout,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running weather refresh job")

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		s.controller.Refresh(ctx)
		s.report.Refresh(ctx)

		log.Println("scheduler: completed weather refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
