package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

type sampleTaker interface {
	Sample(ctx context.Context) models.SampleResult
}

// runOnce takes a baseline sample, waits for window, and prints the second
// sample so that CPU and rates cover the window.
func runOnce(ctx context.Context, sampler sampleTaker, window time.Duration, w io.Writer) error {
	sampler.Sample(ctx)

	select {
	case <-time.After(window):
	case <-ctx.Done():
		return ctx.Err()
	}

	printSample(w, sampler.Sample(ctx))
	return nil
}

func printSample(w io.Writer, r models.SampleResult) {
	fmt.Fprintf(w, "tick rate:   %d Hz\n", r.TickRate)
	fmt.Fprintf(w, "cpu:         %s\n", formatPercent(r.CPUPercent))
	if r.CPUTicks != nil {
		fmt.Fprintf(w, "cpu ticks:   %s\n", humanize.Comma(int64(*r.CPUTicks)))
	}
	fmt.Fprintf(w, "memory:      %s\n", formatMB(r.MemoryMB))
	fmt.Fprintf(w, "disk read:   %s %s\n", formatBytes(r.DiskReadBytes), formatRate(r.DiskReadBytesPerSec))
	fmt.Fprintf(w, "disk write:  %s %s\n", formatBytes(r.DiskWriteBytes), formatRate(r.DiskWriteBytesPerSec))
	fmt.Fprintf(w, "net rx:      %s %s\n", humanize.IBytes(r.NetRxBytes), formatRate(r.NetRxBytesPerSec))
	fmt.Fprintf(w, "net tx:      %s %s\n", humanize.IBytes(r.NetTxBytes), formatRate(r.NetTxBytesPerSec))
}

func formatPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return humanize.FtoaWithDigits(*v, 1) + "%"
}

func formatMB(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return humanize.IBytes(uint64(*v * 1024 * 1024))
}

func formatBytes(v *uint64) string {
	if v == nil {
		return "n/a"
	}
	return humanize.IBytes(*v)
}

func formatRate(v *float64) string {
	if v == nil {
		return ""
	}
	return "(" + humanize.IBytes(uint64(*v)) + "/s)"
}
