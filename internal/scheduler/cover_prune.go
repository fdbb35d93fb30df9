package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/highlights-web/internal/tasks"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CoverPruneScheduler periodically removes stale covers from the local cache.
// With a task queue the prune runs as a PruneCoversTask, otherwise it runs inline.
type CoverPruneScheduler struct {
	pruner   tasks.CoverPruner
	queue    *tasks.Client
	schedule string
	maxAge   time.Duration

	cron      *cron.Cron
	mu        sync.RWMutex
	isRunning bool
	pruning   atomic.Bool
}

// NewCoverPruneScheduler creates a new scheduler instance. queue may be nil.
func NewCoverPruneScheduler(pruner tasks.CoverPruner, queue *tasks.Client, schedule string, maxAge time.Duration) *CoverPruneScheduler {
	return &CoverPruneScheduler{
		pruner:   pruner,
		queue:    queue,
		schedule: schedule,
		maxAge:   maxAge,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// ValidateSchedule checks that a cron expression has the five standard fields.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// NextRun returns the next time the schedule fires after from.
func NextRun(schedule string, from time.Time) (time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// Start begins the scheduler. An empty schedule disables pruning.
func (s *CoverPruneScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Cover prune scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule prune job: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRun(s.schedule, time.Now())
	log.Printf("Cover prune scheduler: started with schedule '%s'. Next run: %v", s.schedule, nextRun)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *CoverPruneScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	<-s.cron.Stop().Done()

	s.isRunning = false
	log.Printf("Cover prune scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *CoverPruneScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow prunes immediately. Overlapping runs are skipped.
func (s *CoverPruneScheduler) RunNow(ctx context.Context) {
	if !s.pruning.CompareAndSwap(false, true) {
		log.Printf("Cover prune scheduler: previous run still in progress, skipping")
		return
	}
	defer s.pruning.Store(false)

	if s.queue != nil {
		s.queue.Enqueue(ctx, tasks.PruneCoversTask{MaxAge: s.maxAge})
		return
	}

	removed, err := s.pruner.Prune(s.maxAge)
	if err != nil {
		log.Printf("Cover prune scheduler: prune failed: %v", err)
		return
	}
	log.Printf("Cover prune scheduler: removed %d stale covers", removed)
}
