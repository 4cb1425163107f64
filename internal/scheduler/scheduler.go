// Package scheduler provides the scheduler implementation.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Scheduler wraps gocron.Scheduler and runs the background jobs of
// schema-server.
type Scheduler struct {
	s        gocron.Scheduler
	stopOnce sync.Once
}

// New creates a new Scheduler. maxConcurrentJobs limits concurrent job
// executions when greater than zero.
func New(maxConcurrentJobs int) (*Scheduler, error) {
	var opts []gocron.SchedulerOption
	if maxConcurrentJobs > 0 {
		opts = append(opts, gocron.WithLimitConcurrentJobs(uint(maxConcurrentJobs), gocron.LimitModeWait))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("scheduler: new: %w", err)
	}

	return &Scheduler{s: s}, nil
}

// AddIntervalJob registers fn to run every interval, starting immediately.
// Runs of the same job never overlap; a run that would overlap is skipped.
func (s *Scheduler) AddIntervalJob(name string, interval time.Duration, fn func()) error {
	if s == nil || s.s == nil {
		return ErrNotInitialized
	}
	if interval <= 0 {
		return fmt.Errorf("%w: job %q", ErrInvalidInterval, name)
	}

	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("scheduler: add job %q: %w", name, err)
	}

	log.Debug().Str("job", name).Dur("interval", interval).Msg("Interval job registered")
	return nil
}

// JobNames returns the names of all registered jobs.
func (s *Scheduler) JobNames() []string {
	if s == nil || s.s == nil {
		return nil
	}

	jobs := s.s.Jobs()
	names := make([]string, 0, len(jobs))
	for _, job := range jobs {
		names = append(names, job.Name())
	}
	return names
}

// Start starts the scheduler and blocks until the context is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	if s == nil || s.s == nil {
		return ErrNotInitialized
	}

	s.s.Start()

	<-ctx.Done()
	s.Stop()

	return nil
}

// Stop stops the scheduler and waits for running jobs. Calling it more than
// once is safe.
func (s *Scheduler) Stop() {
	if s == nil || s.s == nil {
		return
	}
	// gocron only answers the first Shutdown; later calls wait for its stop timeout.
	s.stopOnce.Do(func() {
		if err := s.s.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("Scheduler shutdown failed")
		}
	})
}
