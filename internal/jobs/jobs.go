package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const refreshTimeout = 30 * time.Second

// RateFetcher returns the current annual reference rate
type RateFetcher interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

// RateSink stores a freshly fetched rate
type RateSink interface {
	SetKeyRate(rate float64)
}

// Scheduler runs background jobs on cron schedules
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

// NewScheduler creates a stopped scheduler
func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), log: log}
}

// RegisterKeyRateRefresh refreshes the key rate on the given cron spec
func (s *Scheduler) RegisterKeyRateRefresh(spec string, fetcher RateFetcher, sink RateSink) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_ = RefreshKeyRate(ctx, fetcher, sink, s.log)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule key rate refresh %q: %w", spec, err)
	}
	s.log.Infof("Key rate refresh scheduled: %s", spec)
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RefreshKeyRate fetches the rate once. On failure the previous rate is kept.
func RefreshKeyRate(ctx context.Context, fetcher RateFetcher, sink RateSink, log *logrus.Logger) error {
	rate, err := fetcher.GetKeyRate(ctx)
	if err != nil {
		log.Errorf("Failed to refresh key rate: %v", err)
		return err
	}
	sink.SetKeyRate(rate)
	return nil
}
