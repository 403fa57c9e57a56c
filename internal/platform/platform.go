// Package platform provides an OS abstraction layer for the facilities the
// probe needs beyond what gopsutil offers: the scheduler clock tick rate, a
// monotonic millisecond clock, battery level and per-UID traffic totals.
package platform

import (
	"errors"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

// ErrUnsupported is returned when the current OS lacks a facility.
var ErrUnsupported = errors.New("not supported on this platform")

// Default locations of the sysfs/procfs sources on Linux and Android.
const (
	DefaultPowerSupplyDir = "/sys/class/power_supply"
	DefaultTrafficPath    = "/proc/net/xt_qtaguid/stats"
)

// Platform provides OS-specific functionality.
type Platform interface {
	// Name returns the platform name (unix, stub).
	Name() string

	// ClockTicks returns the scheduler clock rate in ticks per second.
	ClockTicks() (int64, error)

	// MonotonicMillis returns a millisecond clock that is never adjusted.
	MonotonicMillis() uint64

	// BatteryPercent returns the battery charge level in [0, 100].
	BatteryPercent() (int, error)

	// UIDTraffic returns the cumulative bytes received and transmitted by
	// sockets owned by uid.
	UIDTraffic(uid int) (models.NetworkCounters, error)
}

// Options configures the file-backed sources. Empty fields use defaults.
type Options struct {
	// BatteryPath is a power supply directory (e.g. .../BAT0) or the
	// power_supply class directory to search for BAT* entries.
	BatteryPath string
	TrafficPath string
}

func (o Options) withDefaults() Options {
	if o.BatteryPath == "" {
		o.BatteryPath = DefaultPowerSupplyDir
	}
	if o.TrafficPath == "" {
		o.TrafficPath = DefaultTrafficPath
	}
	return o
}
