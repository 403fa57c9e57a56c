package collector

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

// ParseIO extracts the cumulative read and write byte counts from a process
// I/O accounting record. Each key is optional on its own; an error is
// returned only when neither can be read.
func ParseIO(r io.Reader) (models.IoCounters, error) {
	var counters models.IoCounters
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "rchar:"):
			if v, ok := parseIOValue(line, "rchar:"); ok {
				counters.DiskReadBytes = lo.ToPtr(v)
			}
		case strings.HasPrefix(line, "wchar:"):
			if v, ok := parseIOValue(line, "wchar:"); ok {
				counters.DiskWriteBytes = lo.ToPtr(v)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return models.IoCounters{}, err
	}
	if counters.DiskReadBytes == nil && counters.DiskWriteBytes == nil {
		return models.IoCounters{}, ErrMalformed
	}
	return counters, nil
}

func parseIOValue(line, key string) (uint64, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(strings.TrimPrefix(line, key)), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IoCounters returns the target's cumulative disk byte counters.
func (r *Reader) IoCounters(_ context.Context) (models.IoCounters, error) {
	f, err := os.Open(r.procPath("io"))
	if err != nil {
		return models.IoCounters{}, &ReadError{Source: SourceIO, Err: err}
	}
	defer f.Close()

	counters, err := ParseIO(f)
	if err != nil {
		return models.IoCounters{}, &ReadError{Source: SourceIO, Err: err}
	}
	return counters, nil
}
