package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	assert.NoError(t, err)
	return loc
}

func TestNextFire(t *testing.T) {
	loc := seoul(t)
	s := NewDailyScheduler(context.Background(), []TimeOfDay{
		{Hour: 23, Minute: 0},
		{Hour: 11, Minute: 0},
	}, loc)

	t.Run("constructor sorts the times", func(t *testing.T) {
		assert.Equal(t, TimeOfDay{Hour: 11}, s.Times[0])
		assert.Equal(t, TimeOfDay{Hour: 23}, s.Times[1])
	})

	t.Run("before the first slot fires today", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 9, 30, 0, 0, loc)
		got := s.NextFire(now)
		assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 0, loc), got)
	})

	t.Run("between slots fires at the later one", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 15, 0, 0, 0, loc)
		got := s.NextFire(now)
		assert.Equal(t, time.Date(2024, 3, 1, 23, 0, 0, 0, loc), got)
	})

	t.Run("exactly on a slot fires at the next one", func(t *testing.T) {
		// Strictly after: firing at 11:00:00 must not reschedule 11:00 again.
		now := time.Date(2024, 3, 1, 11, 0, 0, 0, loc)
		got := s.NextFire(now)
		assert.Equal(t, time.Date(2024, 3, 1, 23, 0, 0, 0, loc), got)
	})

	t.Run("after the last slot wraps to tomorrow", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 23, 30, 0, 0, loc)
		got := s.NextFire(now)
		assert.Equal(t, time.Date(2024, 3, 2, 11, 0, 0, 0, loc), got)
	})

	t.Run("other-zone input is normalised", func(t *testing.T) {
		// 01:00 UTC is 10:00 in Seoul, so the next slot is 11:00 Seoul.
		now := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
		got := s.NextFire(now)
		assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 0, loc), got)
	})
}

func TestStartStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewDailyScheduler(ctx, []TimeOfDay{{Hour: 3}}, time.UTC)

	done := make(chan struct{})
	go func() {
		s.Start(func() {})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}
}

func TestStartRunsImmediatelyWhenAsked(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewDailyScheduler(ctx, []TimeOfDay{{Hour: 3}}, time.UTC)
	s.RunImmediately = true

	ran := make(chan struct{}, 1)
	go s.Start(func() {
		ran <- struct{}{}
		cancel()
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("RunImmediately task did not fire")
	}
}

func TestStartSurvivesPanickingTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewDailyScheduler(ctx, []TimeOfDay{{Hour: 3}}, time.UTC)
	s.RunImmediately = true

	done := make(chan struct{})
	go func() {
		s.Start(func() {
			defer cancel()
			panic("cycle blew up")
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not recover from a panicking task")
	}
}
