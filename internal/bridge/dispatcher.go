// Package bridge serves the probe's call surface to remote clients: a
// dispatcher mapping operation names to sampler and file utilities, and a
// websocket server carrying requests, responses and streamed samples.
package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

// Operation names accepted by Handle.
const (
	MethodResolveTickRate   = "resolveTickRate"
	MethodSampleBattery     = "sampleBattery"
	MethodSampleMemoryMb    = "sampleMemoryMb"
	MethodSamplePerformance = "samplePerformance"
	MethodReadFileContent   = "readFileContent"
	MethodListDirectory     = "listDirectory"
	MethodSubscribe         = "subscribe"
	MethodUnsubscribe       = "unsubscribe"
)

// Sampler is the subset of telemetry.Sampler the dispatcher calls.
type Sampler interface {
	TickRate() int64
	MemoryMB(ctx context.Context) (float64, error)
	Sample(ctx context.Context) models.SampleResult
}

// BatteryFunc reports the battery charge level in percent.
type BatteryFunc func() (int, error)

// Args carries the optional arguments of a request.
type Args struct {
	Path *string `json:"path,omitempty"`
}

// Dispatcher routes operations to their implementations.
type Dispatcher struct {
	sampler Sampler
	battery BatteryFunc
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher. A nil battery reports UNAVAILABLE.
func NewDispatcher(sampler Sampler, battery BatteryFunc, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		sampler: sampler,
		battery: battery,
		logger:  logger.Named("dispatcher"),
	}
}

// Handle runs one operation. Failures are always returned as *Error.
func (d *Dispatcher) Handle(ctx context.Context, method string, args Args) (interface{}, error) {
	switch method {
	case MethodResolveTickRate:
		return d.sampler.TickRate(), nil

	case MethodSampleBattery:
		if d.battery == nil {
			return nil, newError(CodeUnavailable, "Battery level not available.")
		}
		level, err := d.battery()
		if err != nil {
			d.logger.Debug("Battery unavailable", zap.Error(err))
			return nil, newError(CodeUnavailable, "Battery level not available: %v", err)
		}
		return level, nil

	case MethodSampleMemoryMb:
		mb, err := d.sampler.MemoryMB(ctx)
		if err != nil {
			return nil, newError(CodeMemoryError, "Failed to get memory usage: %v", err)
		}
		return mb, nil

	case MethodSamplePerformance:
		return d.sampler.Sample(ctx), nil

	case MethodReadFileContent:
		path, err := requirePath(args)
		if err != nil {
			return nil, err
		}
		return ReadFileContent(path)

	case MethodListDirectory:
		path, err := requirePath(args)
		if err != nil {
			return nil, err
		}
		return ListDirectory(path)

	default:
		return nil, newError(CodeNotImplemented, "Method '%s' is not implemented.", method)
	}
}

func requirePath(args Args) (string, error) {
	if args.Path == nil || *args.Path == "" {
		return "", newError(CodeInvalidArgs, "File path argument is missing")
	}
	return *args.Path, nil
}
