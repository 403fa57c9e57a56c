// Package models defines the telemetry data structures used throughout the probe.
// These structures are serialized to JSON for transmission over the bridge.
package models

// RawSnapshot pairs a monotonic timestamp with the cumulative CPU ticks the
// monitored process had consumed at that instant. It is one endpoint of a
// CPU-percentage delta.
type RawSnapshot struct {
	WallClockMs uint64 `json:"wall_clock_ms"`
	CPUTicks    uint64 `json:"cpu_ticks"`
}

// IoCounters holds the cumulative disk byte counters of a process.
// Each field is read independently; nil means the key was missing from the
// accounting record.
type IoCounters struct {
	DiskReadBytes  *uint64 `json:"disk_read_bytes,omitempty"`
	DiskWriteBytes *uint64 `json:"disk_write_bytes,omitempty"`
}

// NetworkCounters holds the cumulative per-credential traffic totals.
// Unsupported platforms report zeros.
type NetworkCounters struct {
	RxBytes uint64 `json:"rx_bytes"`
	TxBytes uint64 `json:"tx_bytes"`
}

// SampleResult is the outcome of one sample. A nil pointer means that source
// failed to read on this call; it never means zero.
type SampleResult struct {
	TimestampMs uint64 `json:"timestampMs"`
	TickRate    int64  `json:"tickRate"`

	CPUTicks   *uint64  `json:"cpuTicks,omitempty"`
	CPUPercent *float64 `json:"cpuPercent,omitempty"`
	MemoryMB   *float64 `json:"memoryMb,omitempty"`

	DiskReadBytes  *uint64 `json:"diskReadBytes,omitempty"`
	DiskWriteBytes *uint64 `json:"diskWriteBytes,omitempty"`
	NetRxBytes     uint64  `json:"netRxBytes"`
	NetTxBytes     uint64  `json:"netTxBytes"`

	DiskReadBytesPerSec  *float64 `json:"diskReadBytesPerSec,omitempty"`
	DiskWriteBytesPerSec *float64 `json:"diskWriteBytesPerSec,omitempty"`
	NetRxBytesPerSec     *float64 `json:"netRxBytesPerSec,omitempty"`
	NetTxBytesPerSec     *float64 `json:"netTxBytesPerSec,omitempty"`
}

// FileEntry describes one child of a listed directory.
type FileEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	IsDirectory bool   `json:"isDirectory"`
	CanRead     bool   `json:"canRead"`
	CanWrite    bool   `json:"canWrite"`
	CanExecute  bool   `json:"canExecute"`
}
