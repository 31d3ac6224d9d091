// Package sweeper drives the periodic resolution pass over matured pending
// questions.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Resolver is the sweep entry point, satisfied by the service.
type Resolver interface {
	SweepOnce(ctx context.Context) (int, error)
}

// Sweeper runs the resolver on a fixed interval. Runs are independent and
// idempotent, so overlapping work is not a concern at these intervals.
type Sweeper struct {
	resolver Resolver
	interval time.Duration
	log      *logrus.Entry
	stop     chan struct{}
	stopOnce sync.Once
}

func New(resolver Resolver, interval time.Duration, log *logrus.Entry) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Sweeper{resolver: resolver, interval: interval, log: log, stop: make(chan struct{})}
}

// Start launches the sweep loop, running once immediately and then on every
// tick until the context is cancelled or Stop is called. Call Start once.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.run(ctx)
		for {
			select {
			case <-ticker.C:
				s.run(ctx)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep goroutine. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Sweeper) run(ctx context.Context) {
	resolved, err := s.resolver.SweepOnce(ctx)
	if err != nil {
		s.log.Errorf("sweep failed: %v", err)
		return
	}
	if resolved > 0 {
		s.log.WithField("resolved", resolved).Info("sweep resolved questions")
	}
}
