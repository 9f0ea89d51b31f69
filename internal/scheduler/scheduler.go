package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/comfort-ranking/internal/weather"
)

// Target is the part of the ranking service the background jobs drive.
type Target interface {
	Ranking(ctx context.Context) ([]weather.RankedEntry, error)
	Sweep() int
}

// Scheduler runs periodic cache maintenance: removing expired entries and,
// optionally, recomputing the ranking ahead of user traffic.
type Scheduler struct {
	scheduler     *gocron.Scheduler
	target        Target
	warmInterval  time.Duration
	sweepInterval time.Duration
	warmTimeout   time.Duration
	log           *slog.Logger
}

// New creates a new Scheduler. A warmInterval of zero disables warm-up.
func New(target Target, warmInterval, sweepInterval, warmTimeout time.Duration, log *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:     s,
		target:        target,
		warmInterval:  warmInterval,
		sweepInterval: sweepInterval,
		warmTimeout:   warmTimeout,
		log:           log,
	}
}

// Start schedules the jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.sweepInterval > 0 {
		if _, err := s.scheduler.Every(s.sweepInterval).WaitForSchedule().Do(s.sweep); err != nil {
			return err
		}
	}

	if s.warmInterval > 0 {
		if _, err := s.scheduler.Every(s.warmInterval).Do(s.warm); err != nil {
			return err
		}
	} else {
		s.log.Info("scheduler: ranking warm-up disabled")
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

func (s *Scheduler) sweep() {
	removed := s.target.Sweep()
	s.log.Debug("scheduler: sweep completed", "removed", removed)
}

func (s *Scheduler) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), s.warmTimeout)
	defer cancel()

	ranked, err := s.target.Ranking(ctx)
	if err != nil {
		s.log.Warn("scheduler: ranking warm-up failed", "error", err)
		return
	}
	s.log.Debug("scheduler: ranking warm-up completed", "cities", len(ranked))
}
