package telemetry

import "github.com/Guliveer/vitalis/probe/internal/models"

// MaxCPUPercent bounds the derived CPU percentage: eight fully busy logical
// cores measured against one.
const MaxCPUPercent = 800.0

// DeriveCPUPercent returns the share of one logical core the process used
// between previous and current, clamped to [0, MaxCPUPercent].
// It returns 0 when there is no previous snapshot or no time has elapsed.
func DeriveCPUPercent(previous *models.RawSnapshot, current models.RawSnapshot, tickRate int64) float64 {
	if previous == nil {
		return 0
	}
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}

	wallClockDiffMs := counterDiff(current.WallClockMs, previous.WallClockMs)
	cpuTickDiff := counterDiff(current.CPUTicks, previous.CPUTicks)
	if wallClockDiffMs == 0 {
		return 0
	}

	cpuTimeMs := float64(cpuTickDiff) * 1000 / float64(tickRate)
	percent := cpuTimeMs / float64(wallClockDiffMs) * 100.0
	return clamp(percent, 0, MaxCPUPercent)
}

// DeriveRate converts the growth of a cumulative counter over elapsedMs into
// units per second. A counter that went backwards counts as no growth.
func DeriveRate(previous, current, elapsedMs uint64) float64 {
	if elapsedMs == 0 {
		return 0
	}
	return float64(counterDiff(current, previous)) * 1000 / float64(elapsedMs)
}

// counterDiff subtracts cumulative counters, treating a decrease (clock or
// counter reset) as zero instead of letting the unsigned value wrap.
func counterDiff(current, previous uint64) uint64 {
	if current < previous {
		return 0
	}
	return current - previous
}

func clamp(v, floor, ceil float64) float64 {
	if v < floor {
		return floor
	}
	if v > ceil {
		return ceil
	}
	return v
}
