//go:build linux || darwin || freebsd

// Unix Platform implementation.
// Uses sysconf(3) for the tick rate, CLOCK_MONOTONIC for timestamps and the
// sysfs/procfs accounting files for battery and traffic.
package platform

import (
	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

// UnixPlatform implements Platform for unix-like systems.
type UnixPlatform struct {
	opts Options
}

// New creates a new unix platform instance.
func New(opts Options) Platform {
	return &UnixPlatform{opts: opts.withDefaults()}
}

// Name returns the platform identifier.
func (p *UnixPlatform) Name() string { return "unix" }

// ClockTicks queries _SC_CLK_TCK.
func (p *UnixPlatform) ClockTicks() (int64, error) {
	return sysconf.Sysconf(sysconf.SC_CLK_TCK)
}

// MonotonicMillis reads CLOCK_MONOTONIC.
func (p *UnixPlatform) MonotonicMillis() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Nano() / 1e6)
}

// BatteryPercent reads the battery level from sysfs.
func (p *UnixPlatform) BatteryPercent() (int, error) {
	return readBatteryPercent(p.opts.BatteryPath)
}

// UIDTraffic sums the per-UID accounting table.
func (p *UnixPlatform) UIDTraffic(uid int) (models.NetworkCounters, error) {
	return readUIDTraffic(p.opts.TrafficPath, uid)
}
