package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeResolver struct {
	calls atomic.Int32
}

func (f *fakeResolver) SweepOnce(context.Context) (int, error) {
	f.calls.Add(1)
	return 0, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestStartRunsImmediately(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{}
	s := New(r, time.Hour, nil)
	s.Start(context.Background())
	defer s.Stop()

	// The interval is an hour, so any observed call is the immediate one.
	waitFor(t, func() bool { return r.calls.Load() == 1 })
}

func TestStopHaltsLoop(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{}
	s := New(r, 2*time.Millisecond, nil)
	s.Start(context.Background())

	waitFor(t, func() bool { return r.calls.Load() >= 2 })
	s.Stop()
	s.Stop() // idempotent

	// Allow an in-flight tick to drain, then require the count to hold.
	time.Sleep(20 * time.Millisecond)
	n := r.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := r.calls.Load(); got != n {
		t.Fatalf("sweeps continued after Stop: %d -> %d", n, got)
	}
}

func TestContextCancelHaltsLoop(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{}
	s := New(r, 2*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	waitFor(t, func() bool { return r.calls.Load() >= 2 })
	cancel()

	time.Sleep(20 * time.Millisecond)
	n := r.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := r.calls.Load(); got != n {
		t.Fatalf("sweeps continued after context cancel: %d -> %d", n, got)
	}
}
