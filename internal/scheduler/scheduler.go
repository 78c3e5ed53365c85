// Package scheduler fires the trading cycle at fixed wall-clock times. One
// firing at a time, strictly serialized; a failed cycle never stops the loop.
package scheduler

import (
	"context"
	"sort"
	"time"

	"choonbot/internal/logger"
)

// TimeOfDay is a wall-clock fire time in the scheduler's location.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// DailyScheduler wakes at each configured time of day and runs the task to
// completion before sleeping again. Overlap is impossible by construction:
// the next wake-up is computed after the task returns.
type DailyScheduler struct {
	Times          []TimeOfDay
	Location       *time.Location
	RunImmediately bool

	ctx   context.Context
	nowFn func() time.Time
}

func NewDailyScheduler(ctx context.Context, times []TimeOfDay, loc *time.Location) *DailyScheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	if loc == nil {
		loc = time.UTC
	}
	sorted := append([]TimeOfDay(nil), times...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Hour != sorted[j].Hour {
			return sorted[i].Hour < sorted[j].Hour
		}
		return sorted[i].Minute < sorted[j].Minute
	})
	return &DailyScheduler{
		Times:    sorted,
		Location: loc,
		ctx:      ctx,
		nowFn:    time.Now,
	}
}

// Start blocks until ctx is cancelled. The task is responsible for its own
// panic containment; the scheduler guards anyway so a panicking cycle cannot
// take the process down.
func (s *DailyScheduler) Start(task func()) {
	if s == nil || task == nil || len(s.Times) == 0 {
		logger.Warnf("DailyScheduler: nothing to run, exit")
		return
	}
	if s.nowFn == nil {
		s.nowFn = time.Now
	}
	startAt := s.nowFn().In(s.Location)
	logger.Infof("DailyScheduler: started times=%d tz=%s at=%s",
		len(s.Times), s.Location.String(), startAt.Format(time.RFC3339))

	if s.RunImmediately {
		logger.Infof("DailyScheduler: RunImmediately=true, executing once before the wait loop")
		s.runGuarded(task)
	}

	for {
		now := s.nowFn().In(s.Location)
		wakeAt := s.NextFire(now)
		wait := wakeAt.Sub(now)
		logger.Infof("DailyScheduler: next cycle at %s (in %s)",
			wakeAt.Format(time.RFC3339), wait.Truncate(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			logger.Infof("DailyScheduler: ctx done, exit")
			return
		case <-timer.C:
		}
		s.runGuarded(task)
	}
}

func (s *DailyScheduler) runGuarded(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("DailyScheduler: cycle panicked, continuing: %v", r)
		}
	}()
	task()
}

// NextFire returns the earliest configured time strictly after now.
func (s *DailyScheduler) NextFire(now time.Time) time.Time {
	now = now.In(s.Location)
	for _, t := range s.Times {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, s.Location)
		if candidate.After(now) {
			return candidate
		}
	}
	// All of today's times have passed; first slot tomorrow.
	first := s.Times[0]
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), first.Hour, first.Minute, 0, 0, s.Location)
}
