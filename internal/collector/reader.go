// Package collector reads the raw, monotonically increasing counters of a
// single process from the OS accounting sources. Each source is read
// independently and may fail independently; nothing here keeps state
// between calls.
package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/probe/internal/models"
	"github.com/Guliveer/vitalis/probe/internal/platform"
)

// Source names used in ReadError and in logs.
const (
	SourceStat    = "stat"
	SourceIO      = "io"
	SourceMemory  = "memory"
	SourceNetwork = "network"
)

// ErrMalformed marks a record that was readable but did not parse.
var ErrMalformed = errors.New("malformed record")

// ReadError reports that one counter source could not be read.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Target identifies the process whose counters are read.
// A zero PID or negative UID means the current process.
type Target struct {
	PID int
	UID int
}

// Reader reads the raw counters of one target process.
type Reader struct {
	pid      int
	uid      int
	procRoot string
	platform platform.Platform
	logger   *zap.Logger
}

// NewReader creates a reader for target, resolving the current process
// when the target leaves PID or UID unset.
func NewReader(target Target, p platform.Platform, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	pid := target.PID
	if pid <= 0 {
		pid = os.Getpid()
	}
	uid := target.UID
	if uid < 0 {
		uid = os.Getuid()
	}
	return &Reader{
		pid:      pid,
		uid:      uid,
		procRoot: "/proc",
		platform: p,
		logger:   logger.Named("collector"),
	}
}

// PID returns the process being read.
func (r *Reader) PID() int { return r.pid }

// UID returns the credential whose traffic is read.
func (r *Reader) UID() int { return r.uid }

func (r *Reader) procPath(name string) string {
	return filepath.Join(r.procRoot, strconv.Itoa(r.pid), name)
}

// WallClockMs returns the monotonic clock in milliseconds.
func (r *Reader) WallClockMs() uint64 {
	return r.platform.MonotonicMillis()
}

// NetworkCounters returns the cumulative traffic of the target's UID.
// Unsupported or unreadable sources report zeros rather than an error.
func (r *Reader) NetworkCounters(_ context.Context) models.NetworkCounters {
	counters, err := r.platform.UIDTraffic(r.uid)
	if err != nil {
		r.logger.Debug("Per-UID traffic unavailable, reporting zero",
			zap.Int("uid", r.uid),
			zap.Error(err))
		return models.NetworkCounters{}
	}
	return counters
}
