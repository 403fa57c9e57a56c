// Package scheduler drives periodic sampling for streaming clients.
// It does NOT deliver samples itself; it invokes a callback with each result.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

// Sampler produces one telemetry sample per call.
type Sampler interface {
	Sample(ctx context.Context) models.SampleResult
}

// Scheduler samples at a fixed interval while at least one consumer is active.
type Scheduler struct {
	sampler  Sampler
	interval time.Duration
	logger   *zap.Logger

	mu       sync.RWMutex
	onSample func(models.SampleResult)
	active   func() bool
}

// New creates a Scheduler that samples every interval.
func New(sampler Sampler, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		sampler:  sampler,
		interval: interval,
		logger:   logger.Named("scheduler"),
	}
}

// OnSample sets the callback invoked with every sample taken.
func (s *Scheduler) OnSample(fn func(models.SampleResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSample = fn
}

// WhenActive sets a predicate consulted before each tick. Ticks are skipped
// while it returns false. A nil predicate means always active.
func (s *Scheduler) WhenActive(fn func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = fn
}

// Start runs the sampling loop. It blocks until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Streaming disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Streaming started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Streaming stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	s.mu.RLock()
	onSample, active := s.onSample, s.active
	s.mu.RUnlock()

	if active != nil && !active() {
		return
	}

	result := s.sampler.Sample(ctx)
	s.logger.Debug("Sampled", zap.Uint64("timestamp_ms", result.TimestampMs))

	if onSample != nil {
		onSample(result)
	}
}
