package progress

import (
	"sync"

	"github.com/luccarvs/PlaylistImport-API/internal/domain"
	"github.com/luccarvs/PlaylistImport-API/internal/ports"
)

// MemoryTracker is an in-memory implementation of ports.ProgressTracker.
// It is safe for concurrent use; writes are last-write-wins per session
// key, so a poller may observe a snapshot one item behind the run.
type MemoryTracker struct {
	mu        sync.RWMutex
	snapshots map[string]domain.ProgressSnapshot
}

// NewMemoryTracker creates an empty tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		snapshots: make(map[string]domain.ProgressSnapshot),
	}
}

// Set stores the snapshot under the session id, overwriting any
// previous value. The error list is copied so the writer can keep
// appending to its own slice.
func (t *MemoryTracker) Set(sessionID string, snapshot domain.ProgressSnapshot) {
	errs := make([]string, len(snapshot.Errors))
	copy(errs, snapshot.Errors)
	snapshot.Errors = errs

	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshots[sessionID] = snapshot
}

// Get returns the snapshot for the session, or domain.ErrSessionNotFound
// for an unknown or already-cleared session.
func (t *MemoryTracker) Get(sessionID string) (domain.ProgressSnapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot, ok := t.snapshots[sessionID]
	if !ok {
		return domain.ProgressSnapshot{}, domain.ErrSessionNotFound
	}
	return snapshot, nil
}

// Clear removes the session's snapshot.
func (t *MemoryTracker) Clear(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.snapshots, sessionID)
}

// Count returns the number of live sessions (for testing/monitoring).
func (t *MemoryTracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.snapshots)
}

var _ ports.ProgressTracker = (*MemoryTracker)(nil)
