package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler manages periodic recommendation and training passes.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	log    *slog.Logger
}

// NewScheduler creates a new Scheduler that runs engine tasks on a schedule.
func NewScheduler(
	runner *Runner,
	recommendInterval time.Duration,
	trainInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		runner: runner,
		log:    log,
	}

	if _, err := c.AddFunc(
		"@every "+recommendInterval.String(),
		s.runRecommend,
	); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(
		"@every "+trainInterval.String(),
		s.runTrain,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runRecommend() {
	s.log.Info("scheduled recommendation pass starting")

	if _, err := s.runner.RunRecommendationPass(context.Background()); err != nil {
		s.log.Error("scheduled recommendation pass failed", "error", err)
	}
}

func (s *Scheduler) runTrain() {
	s.log.Info("scheduled training pass starting")

	if _, err := s.runner.RunTraining(context.Background()); err != nil {
		s.log.Error("scheduled training pass failed", "error", err)
	}
}
