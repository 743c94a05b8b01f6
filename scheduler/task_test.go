package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/freekieb7/fileresponder/test"
)

func TestSchedulerRunsIntervalJob(t *testing.T) {
	var fired atomic.Int32

	scheduler := NewScheduler().WithResolution(5 * time.Millisecond)
	scheduler.AddJob(NewJob(1).
		WithInterval(10 * time.Millisecond).
		WithTasks(func(now time.Time) { fired.Add(1) }))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	scheduler.Run(ctx)

	if fired.Load() < 2 {
		t.Errorf("Expected the job to fire repeatedly, fired %d times", fired.Load())
	}
}

func TestSchedulerOneShotJob(t *testing.T) {
	var fired atomic.Int32

	scheduler := NewScheduler().WithResolution(5 * time.Millisecond)
	scheduler.AddJob(NewJob(7).
		WithExecuteAt(time.Now()).
		WithTasks(func(now time.Time) { fired.Add(1) }))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	scheduler.Run(ctx)

	test.AssertEqual(t, int32(1), fired.Load())
}

func TestSchedulerRemoveJob(t *testing.T) {
	scheduler := NewScheduler()
	scheduler.AddJob(NewJob(1).WithInterval(time.Minute))
	scheduler.AddJob(NewJob(2).WithInterval(time.Minute))

	test.AssertEqual(t, 2, scheduler.Len())
	test.AssertTrue(t, scheduler.RemoveJob(1), "job 1 should be removed")
	test.AssertTrue(t, !scheduler.RemoveJob(1), "job 1 is already gone")
	test.AssertEqual(t, 1, scheduler.Len())
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	scheduler := NewScheduler()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
