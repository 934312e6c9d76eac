// Package scheduler runs the portal's periodic background jobs: reminding
// counselors about aging pending submissions and retrying dead-lettered
// events.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrNilJob                  = errors.New("job cannot be nil")
	ErrNilSchedule             = errors.New("schedule cannot be nil")
	ErrJobAlreadyExists        = errors.New("job already exists")
	ErrSchedulerAlreadyRunning = errors.New("scheduler is already running")
	ErrSchedulerNotRunning     = errors.New("scheduler is not running")
)

// Job is a unit of background work. Run receives a context that is
// cancelled when the scheduler stops.
type Job interface {
	Name() string
	Description() string
	Run(ctx context.Context) error
}

// Schedule yields execution times. Next must return a time strictly
// after t.
type Schedule interface {
	Next(t time.Time) time.Time
	String() string
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// entry pairs a job with its schedule and next due time.
type entry struct {
	job      Job
	schedule Schedule
	nextRun  time.Time
}

// Scheduler sleeps until the earliest registered job is due, fires every
// due job in its own goroutine, and goes back to sleep. Jobs must be
// registered before Start.
type Scheduler struct {
	mu       sync.Mutex
	logger   *slog.Logger
	timezone *time.Location
	entries  map[string]*entry
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// SchedulerConfig configures a Scheduler. Nil fields fall back to
// slog.Default and UTC.
type SchedulerConfig struct {
	Logger   *slog.Logger
	Timezone *time.Location
}

func NewScheduler(config SchedulerConfig) *Scheduler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tz := config.Timezone
	if tz == nil {
		tz = time.UTC
	}
	return &Scheduler{
		logger:   logger,
		timezone: tz,
		entries:  make(map[string]*entry),
	}
}

// Register adds job under its Name; names must be unique.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, name)
	}

	e := &entry{
		job:      job,
		schedule: schedule,
		nextRun:  schedule.Next(time.Now().In(s.timezone)),
	}
	s.entries[name] = e

	s.logger.Info("job registered",
		"job", name,
		"description", job.Description(),
		"next_run", e.nextRun.Format(time.RFC3339),
	)
	return nil
}

// Start launches the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrSchedulerAlreadyRunning
	}
	s.running = true

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.logger.Info("scheduler started", "jobs_count", len(s.entries))

	s.wg.Add(1)
	go s.loop(loopCtx)
	return nil
}

// Stop cancels the loop and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
	return nil
}

// idleWait bounds the sleep when no job is registered, so a job map that
// somehow empties does not park the loop forever.
const idleWait = time.Minute

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	for {
		wait := s.untilNextDue()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.fireDue(ctx, time.Now().In(s.timezone))
		}
	}
}

// untilNextDue returns how long to sleep before the earliest nextRun.
func (s *Scheduler) untilNextDue() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	var earliest time.Time
	for _, e := range s.entries {
		if earliest.IsZero() || e.nextRun.Before(earliest) {
			earliest = e.nextRun
		}
	}
	if earliest.IsZero() {
		return idleWait
	}
	if wait := time.Until(earliest); wait > 0 {
		return wait
	}
	return 0
}

// fireDue starts every job whose nextRun has arrived, advancing nextRun
// before the job runs so a slow job cannot pile up behind itself.
func (s *Scheduler) fireDue(ctx context.Context, now time.Time) {
	s.mu.Lock()
	var due []*entry
	for _, e := range s.entries {
		if !e.nextRun.After(now) {
			e.nextRun = e.schedule.Next(now)
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	for _, e := range due {
		s.wg.Add(1)
		go s.execute(ctx, e.job)
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	defer s.wg.Done()

	name := job.Name()
	started := time.Now()
	s.logger.Info("job started", "job", name)

	err := job.Run(ctx)
	elapsed := time.Since(started)

	if err != nil {
		s.logger.Error("job failed",
			"job", name,
			"duration", elapsed.String(),
			"error", err,
		)
		return
	}
	s.logger.Info("job completed",
		"job", name,
		"duration", elapsed.String(),
	)
}
