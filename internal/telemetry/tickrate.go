package telemetry

import "go.uber.org/zap"

// DefaultTickRate is the scheduler clock rate assumed when the OS cannot be
// queried. 100 Hz is USER_HZ on virtually every Linux build.
const DefaultTickRate int64 = 100

// TickRateQuery asks the OS for its scheduler clock rate in ticks per second.
type TickRateQuery func() (int64, error)

// ResolveTickRate runs query once and returns its result, or DefaultTickRate
// if the query fails or reports a non-positive rate. It never fails.
func ResolveTickRate(query TickRateQuery, logger *zap.Logger) int64 {
	if logger == nil {
		logger = zap.NewNop()
	}
	if query == nil {
		logger.Warn("No tick rate query available, using default",
			zap.Int64("tick_rate", DefaultTickRate))
		return DefaultTickRate
	}

	ticks, err := query()
	if err != nil {
		logger.Warn("Could not read clock ticks per second, using default",
			zap.Int64("tick_rate", DefaultTickRate),
			zap.Error(err))
		return DefaultTickRate
	}
	if ticks <= 0 {
		logger.Warn("Clock tick query returned a non-positive rate, using default",
			zap.Int64("reported", ticks),
			zap.Int64("tick_rate", DefaultTickRate))
		return DefaultTickRate
	}
	return ticks
}
