package telemetry

import "github.com/Guliveer/vitalis/probe/internal/models"

// SnapshotStore holds the most recent RawSnapshot. It has no lock of its
// own; the Sampler serializes access.
type SnapshotStore struct {
	snap models.RawSnapshot
	ok   bool
}

// Get returns the stored snapshot, if any.
func (s *SnapshotStore) Get() (models.RawSnapshot, bool) {
	return s.snap, s.ok
}

// Replace overwrites the stored snapshot.
func (s *SnapshotStore) Replace(snap models.RawSnapshot) {
	s.snap = snap
	s.ok = true
}
