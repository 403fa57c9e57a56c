//go:build !linux && !darwin && !freebsd

// Stub Platform implementation for systems without sysconf or procfs.
// Tick rate and battery report ErrUnsupported; the clock is derived from the
// runtime's monotonic reading.
package platform

import (
	"time"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

// StubPlatform is a fallback Platform for unsupported operating systems.
type StubPlatform struct {
	start time.Time
}

// New creates a stub platform instance.
func New(_ Options) Platform {
	return &StubPlatform{start: time.Now()}
}

// Name returns the platform identifier.
func (p *StubPlatform) Name() string { return "stub" }

// ClockTicks is unavailable; callers fall back to their default.
func (p *StubPlatform) ClockTicks() (int64, error) {
	return 0, ErrUnsupported
}

// MonotonicMillis returns milliseconds since the platform was created.
// time.Since uses the monotonic clock reading, so wall clock changes do not
// affect it.
func (p *StubPlatform) MonotonicMillis() uint64 {
	return uint64(time.Since(p.start).Milliseconds())
}

// BatteryPercent is unavailable.
func (p *StubPlatform) BatteryPercent() (int, error) {
	return 0, ErrUnsupported
}

// UIDTraffic is unavailable.
func (p *StubPlatform) UIDTraffic(_ int) (models.NetworkCounters, error) {
	return models.NetworkCounters{}, ErrUnsupported
}
