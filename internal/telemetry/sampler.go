// Package telemetry turns the raw counters of one process into derived
// metrics. A Sampler owns the previous snapshot and compares each new
// reading against it; the first sample after construction reports 0% CPU.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

// DefaultReadTimeout bounds each individual counter read.
const DefaultReadTimeout = 250 * time.Millisecond

// CounterSource reads the raw counters of the monitored process.
// collector.Reader is the production implementation.
type CounterSource interface {
	WallClockMs() uint64
	CPUTicks(ctx context.Context) (uint64, error)
	IoCounters(ctx context.Context) (models.IoCounters, error)
	NetworkCounters(ctx context.Context) models.NetworkCounters
	MemoryFootprintMB(ctx context.Context) (float64, error)
}

// Options configures a Sampler.
type Options struct {
	// TickRate queries the OS clock rate once at construction.
	TickRate TickRateQuery
	// ReadTimeout bounds each source read; zero means DefaultReadTimeout.
	ReadTimeout time.Duration
	Logger      *zap.Logger
}

// ioBaseline is the previous I/O reading used to derive byte rates.
type ioBaseline struct {
	at  uint64
	io  models.IoCounters
	net models.NetworkCounters
}

// Sampler derives CPU percentage and I/O rates for one process.
// Sample is safe for concurrent use; calls are serialized so each one
// computes its delta against the snapshot the previous call stored.
type Sampler struct {
	source      CounterSource
	tickRate    int64
	readTimeout time.Duration
	logger      *zap.Logger

	mu     sync.Mutex
	store  SnapshotStore
	lastIO *ioBaseline
}

// NewSampler resolves the tick rate and returns a sampler with no baseline.
func NewSampler(source CounterSource, opts Options) *Sampler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("sampler")

	timeout := opts.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	s := &Sampler{
		source:      source,
		tickRate:    ResolveTickRate(opts.TickRate, logger),
		readTimeout: timeout,
		logger:      logger,
	}
	logger.Info("Sampler ready",
		zap.Int64("tick_rate", s.tickRate),
		zap.Duration("read_timeout", s.readTimeout))
	return s
}

// TickRate returns the clock rate resolved at construction.
func (s *Sampler) TickRate() int64 { return s.tickRate }

// MemoryMB reads the memory footprint on its own, without touching the
// stored baseline.
func (s *Sampler) MemoryMB(ctx context.Context) (float64, error) {
	return readWithDeadline(ctx, s.readTimeout, s.source.MemoryFootprintMB)
}

// Sample reads every source, derives metrics against the stored snapshot and
// stores the new one. A failing source leaves its fields nil; Sample itself
// never fails.
func (s *Sampler) Sample(ctx context.Context) models.SampleResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		wg     sync.WaitGroup
		ioCnt  models.IoCounters
		ioErr  error
		memMB  float64
		memErr error
		netCnt models.NetworkCounters
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		ioCnt, ioErr = readWithDeadline(ctx, s.readTimeout, s.source.IoCounters)
	}()
	go func() {
		defer wg.Done()
		memMB, memErr = readWithDeadline(ctx, s.readTimeout, s.source.MemoryFootprintMB)
	}()
	go func() {
		defer wg.Done()
		var err error
		netCnt, err = readWithDeadline(ctx, s.readTimeout, func(ctx context.Context) (models.NetworkCounters, error) {
			return s.source.NetworkCounters(ctx), nil
		})
		if err != nil {
			s.logger.Debug("Network read timed out, reporting zero", zap.Error(err))
			netCnt = models.NetworkCounters{}
		}
	}()

	// Ticks and clock are read back to back so they describe one instant.
	ticks, cpuErr := readWithDeadline(ctx, s.readTimeout, s.source.CPUTicks)
	now := s.source.WallClockMs()

	wg.Wait()

	result := models.SampleResult{
		TimestampMs: now,
		TickRate:    s.tickRate,
		NetRxBytes:  netCnt.RxBytes,
		NetTxBytes:  netCnt.TxBytes,
	}

	if cpuErr != nil {
		s.logger.Debug("CPU ticks unavailable", zap.Error(cpuErr))
	} else {
		current := models.RawSnapshot{WallClockMs: now, CPUTicks: ticks}
		var previous *models.RawSnapshot
		if prev, ok := s.store.Get(); ok {
			previous = &prev
		}
		s.store.Replace(current)

		result.CPUTicks = lo.ToPtr(ticks)
		result.CPUPercent = lo.ToPtr(DeriveCPUPercent(previous, current, s.tickRate))
	}

	if memErr != nil {
		s.logger.Debug("Memory footprint unavailable", zap.Error(memErr))
	} else {
		result.MemoryMB = lo.ToPtr(memMB)
	}

	if ioErr != nil {
		s.logger.Debug("I/O counters unavailable", zap.Error(ioErr))
		ioCnt = models.IoCounters{}
	}
	result.DiskReadBytes = ioCnt.DiskReadBytes
	result.DiskWriteBytes = ioCnt.DiskWriteBytes

	s.applyRates(&result, now, ioCnt, netCnt)
	return result
}

// applyRates fills the per-second fields from the previous I/O baseline and
// then replaces it. Must be called with s.mu held.
func (s *Sampler) applyRates(result *models.SampleResult, now uint64, io models.IoCounters, net models.NetworkCounters) {
	prev := s.lastIO
	s.lastIO = &ioBaseline{at: now, io: io, net: net}
	if prev == nil {
		return
	}

	elapsed := counterDiff(now, prev.at)
	if elapsed == 0 {
		return
	}

	result.DiskReadBytesPerSec = rateOf(prev.io.DiskReadBytes, io.DiskReadBytes, elapsed)
	result.DiskWriteBytesPerSec = rateOf(prev.io.DiskWriteBytes, io.DiskWriteBytes, elapsed)
	result.NetRxBytesPerSec = lo.ToPtr(DeriveRate(prev.net.RxBytes, net.RxBytes, elapsed))
	result.NetTxBytesPerSec = lo.ToPtr(DeriveRate(prev.net.TxBytes, net.TxBytes, elapsed))
}

func rateOf(previous, current *uint64, elapsedMs uint64) *float64 {
	if previous == nil || current == nil {
		return nil
	}
	return lo.ToPtr(DeriveRate(*previous, *current, elapsedMs))
}

// readWithDeadline runs read under timeout. A read that overruns is
// abandoned and reported as ctx.Err(), the same as any other read failure.
func readWithDeadline[T any](ctx context.Context, timeout time.Duration, read func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		v   T
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := read(ctx)
		ch <- outcome{v, err}
	}()

	select {
	case o := <-ch:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
