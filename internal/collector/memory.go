// Process memory footprint: proportional set size of the target process.
// Uses gopsutil's grouped memory maps, which sum Pss across all mappings.
package collector

import (
	"context"
	"errors"

	"github.com/shirou/gopsutil/v3/process"
)

var errNoMaps = errors.New("no memory maps")

// MemoryFootprintMB returns the target's proportional memory footprint in
// megabytes.
func (r *Reader) MemoryFootprintMB(ctx context.Context) (float64, error) {
	p, err := process.NewProcessWithContext(ctx, int32(r.pid))
	if err != nil {
		return 0, &ReadError{Source: SourceMemory, Err: err}
	}

	maps, err := p.MemoryMapsWithContext(ctx, true)
	if err != nil {
		return 0, &ReadError{Source: SourceMemory, Err: err}
	}
	if maps == nil || len(*maps) == 0 {
		return 0, &ReadError{Source: SourceMemory, Err: errNoMaps}
	}

	var pssKB uint64
	for _, m := range *maps {
		pssKB += m.Pss
	}
	return KBToMB(pssKB), nil
}

// KBToMB converts kilobytes to megabytes.
func KBToMB(kb uint64) float64 {
	return float64(kb) / 1024.0
}
