package collector

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Positions (1-indexed) of the user and kernel tick fields in the process
// accounting record.
const (
	utimeField = 14
	stimeField = 15
)

// ParseStat extracts utime and stime from a process accounting record.
// The command name may contain spaces, so fields are counted after the last
// ')' when one is present.
func ParseStat(record string) (utime, stime uint64, err error) {
	fields := strings.Fields(record)
	offset := 0
	if idx := strings.LastIndexByte(record, ')'); idx >= 0 {
		// pid and comm occupy fields 1 and 2.
		fields = strings.Fields(record[idx+1:])
		offset = 2
	}

	if len(fields) < stimeField-offset {
		return 0, 0, fmt.Errorf("%w: %d fields", ErrMalformed, len(fields)+offset)
	}

	utime, err = strconv.ParseUint(fields[utimeField-offset-1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: utime: %v", ErrMalformed, err)
	}
	stime, err = strconv.ParseUint(fields[stimeField-offset-1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: stime: %v", ErrMalformed, err)
	}
	return utime, stime, nil
}

// CPUTicks returns the user plus kernel ticks consumed by the target.
func (r *Reader) CPUTicks(_ context.Context) (uint64, error) {
	data, err := os.ReadFile(r.procPath("stat"))
	if err != nil {
		return 0, &ReadError{Source: SourceStat, Err: err}
	}
	utime, stime, err := ParseStat(string(data))
	if err != nil {
		return 0, &ReadError{Source: SourceStat, Err: err}
	}
	return utime + stime, nil
}
