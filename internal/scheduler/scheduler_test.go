package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

type countingSampler struct {
	calls atomic.Int64
}

func (c *countingSampler) Sample(context.Context) models.SampleResult {
	n := c.calls.Add(1)
	return models.SampleResult{TimestampMs: uint64(n)}
}

func TestScheduler_DeliversSamples(t *testing.T) {
	src := &countingSampler{}
	s := New(src, 5*time.Millisecond, nil)

	got := make(chan models.SampleResult, 16)
	s.OnSample(func(r models.SampleResult) {
		select {
		case got <- r:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-got:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for sample")
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestScheduler_SkipsWhileInactive(t *testing.T) {
	src := &countingSampler{}
	s := New(src, 2*time.Millisecond, nil)
	s.WhenActive(func() bool { return false })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	s.Start(ctx)

	if n := src.calls.Load(); n != 0 {
		t.Errorf("sampled %d times while inactive, want 0", n)
	}
}

func TestScheduler_DisabledReturnsImmediately(t *testing.T) {
	src := &countingSampler{}
	s := New(src, 0, nil)

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start blocked with a zero interval")
	}
}
