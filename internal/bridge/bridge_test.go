package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

type fakeSampler struct {
	tickRate int64
	memMB    float64
	memErr   error
	result   models.SampleResult
}

func (f *fakeSampler) TickRate() int64 { return f.tickRate }

func (f *fakeSampler) MemoryMB(context.Context) (float64, error) { return f.memMB, f.memErr }

func (f *fakeSampler) Sample(context.Context) models.SampleResult { return f.result }

func requireCode(t *testing.T, err error, code string) *Error {
	t.Helper()
	var bridgeErr *Error
	require.True(t, errors.As(err, &bridgeErr), "expected *Error, got %v", err)
	assert.Equal(t, code, bridgeErr.Code)
	return bridgeErr
}

func TestDispatcher_ResolveTickRate(t *testing.T) {
	d := NewDispatcher(&fakeSampler{tickRate: 100}, nil, nil)
	got, err := d.Handle(context.Background(), MethodResolveTickRate, Args{})
	require.NoError(t, err)
	assert.Equal(t, int64(100), got)
}

func TestDispatcher_SampleBattery(t *testing.T) {
	d := NewDispatcher(&fakeSampler{}, func() (int, error) { return 74, nil }, nil)
	got, err := d.Handle(context.Background(), MethodSampleBattery, Args{})
	require.NoError(t, err)
	assert.Equal(t, 74, got)

	d = NewDispatcher(&fakeSampler{}, func() (int, error) { return 0, errors.New("no battery") }, nil)
	_, err = d.Handle(context.Background(), MethodSampleBattery, Args{})
	requireCode(t, err, CodeUnavailable)

	d = NewDispatcher(&fakeSampler{}, nil, nil)
	_, err = d.Handle(context.Background(), MethodSampleBattery, Args{})
	requireCode(t, err, CodeUnavailable)
}

func TestDispatcher_SampleMemoryMb(t *testing.T) {
	d := NewDispatcher(&fakeSampler{memMB: 12.5}, nil, nil)
	got, err := d.Handle(context.Background(), MethodSampleMemoryMb, Args{})
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	d = NewDispatcher(&fakeSampler{memErr: errors.New("smaps: permission denied")}, nil, nil)
	_, err = d.Handle(context.Background(), MethodSampleMemoryMb, Args{})
	bridgeErr := requireCode(t, err, CodeMemoryError)
	assert.Contains(t, bridgeErr.Message, "permission denied")
}

func TestDispatcher_SamplePerformance(t *testing.T) {
	want := models.SampleResult{TimestampMs: 5, CPUTicks: lo.ToPtr(uint64(80)), NetRxBytes: 3}
	d := NewDispatcher(&fakeSampler{result: want}, nil, nil)
	got, err := d.Handle(context.Background(), MethodSamplePerformance, Args{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDispatcher_MissingPath(t *testing.T) {
	d := NewDispatcher(&fakeSampler{}, nil, nil)
	for _, method := range []string{MethodReadFileContent, MethodListDirectory} {
		_, err := d.Handle(context.Background(), method, Args{})
		bridgeErr := requireCode(t, err, CodeInvalidArgs)
		assert.Equal(t, "File path argument is missing", bridgeErr.Message)

		_, err = d.Handle(context.Background(), method, Args{Path: lo.ToPtr("")})
		requireCode(t, err, CodeInvalidArgs)
	}
}

func TestDispatcher_UnknownMethod(t *testing.T) {
	d := NewDispatcher(&fakeSampler{}, nil, nil)
	_, err := d.Handle(context.Background(), "rebootDevice", Args{})
	requireCode(t, err, CodeNotImplemented)
}

func TestReadFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stat")
	require.NoError(t, os.WriteFile(path, []byte("1234 (app) S\n"), 0644))

	got, err := ReadFileContent(path)
	require.NoError(t, err)
	assert.Equal(t, "1234 (app) S\n", got)

	missing := filepath.Join(t.TempDir(), "absent")
	_, err = ReadFileContent(missing)
	bridgeErr := requireCode(t, err, CodeAccessDenied)
	assert.Contains(t, bridgeErr.Message, "Could not read file '"+missing+"'")
}

func TestListDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b_dir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c_script"), []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_file"), []byte("x"), 0644))

	entries, err := ListDirectory(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []string{"a_file", "b_dir", "c_script"},
		lo.Map(entries, func(e models.FileEntry, _ int) string { return e.Name }))

	file, dirEntry, script := entries[0], entries[1], entries[2]
	assert.Equal(t, filepath.Join(dir, "a_file"), file.Path)
	assert.False(t, file.IsDirectory)
	assert.True(t, file.CanRead)
	assert.True(t, file.CanWrite)
	assert.False(t, file.CanExecute)

	assert.True(t, dirEntry.IsDirectory)
	assert.True(t, dirEntry.CanExecute)

	assert.False(t, script.IsDirectory)
	assert.True(t, script.CanExecute)
}

func TestListDirectory_RegularFileIsNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := ListDirectory(path)
	requireCode(t, err, CodeNotADirectory)
}

func TestListDirectory_MissingIsAccessDenied(t *testing.T) {
	_, err := ListDirectory(filepath.Join(t.TempDir(), "nope"))
	requireCode(t, err, CodeAccessDenied)
}

func TestListDirectory_Empty(t *testing.T) {
	entries, err := ListDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
