package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

type scriptedSampler struct {
	calls int
}

func (s *scriptedSampler) Sample(context.Context) models.SampleResult {
	s.calls++
	pct := 37.5
	mem := 1.5
	read := uint64(2048)
	return models.SampleResult{
		TickRate:      100,
		CPUPercent:    &pct,
		MemoryMB:      &mem,
		DiskReadBytes: &read,
		NetRxBytes:    1 << 20,
	}
}

func TestRunOnce(t *testing.T) {
	s := &scriptedSampler{}
	var out bytes.Buffer

	if err := runOnce(context.Background(), s, time.Millisecond, &out); err != nil {
		t.Fatal(err)
	}
	if s.calls != 2 {
		t.Errorf("Sample called %d times, want 2", s.calls)
	}

	text := out.String()
	for _, want := range []string{"100 Hz", "37.5%", "1.5 MiB", "2.0 KiB", "1.0 MiB", "disk write:  n/a"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunOnce_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runOnce(ctx, &scriptedSampler{}, time.Hour, &bytes.Buffer{}); err == nil {
		t.Error("expected context error")
	}
}
