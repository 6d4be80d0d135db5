package store

import (
	"context"
	"sync"
	"time"

	"github.com/skoolgrab/scanner/pkg/models"
)

// SnapshotStore keeps the latest detection pass per page. Snapshots are
// transient, last-writer-wins state: a new pass wholly replaces the
// previous one, and enrichment may only land on the generation it was
// computed for.
type SnapshotStore interface {
	Save(ctx context.Context, snap models.ScanSnapshot) error
	Latest(ctx context.Context, pageURL string) (models.ScanSnapshot, bool, error)
	// ApplyEnrichment overwrites the stored videos only when the snapshot
	// generation still matches; stale enrichment is discarded and reported
	// via the bool.
	ApplyEnrichment(ctx context.Context, pageURL string, generation uint64, videos []models.VideoRecord) (bool, error)
}

// Memory is the in-process store used by default and in tests.
type Memory struct {
	mu    sync.RWMutex
	snaps map[string]models.ScanSnapshot
}

func NewMemory() *Memory {
	return &Memory{snaps: make(map[string]models.ScanSnapshot)}
}

func (m *Memory) Save(_ context.Context, snap models.ScanSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.PageURL] = snap
	return nil
}

func (m *Memory) Latest(_ context.Context, pageURL string) (models.ScanSnapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[pageURL]
	return snap, ok, nil
}

func (m *Memory) ApplyEnrichment(_ context.Context, pageURL string, generation uint64, videos []models.VideoRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[pageURL]
	if !ok || snap.Generation != generation {
		return false, nil
	}
	snap.Videos = videos
	m.snaps[pageURL] = snap
	return true, nil
}

// Prune drops snapshots older than maxAge and reports how many were
// evicted. The redis store expires keys by TTL instead; only the in-memory
// store needs an external sweep.
func (m *Memory) Prune(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for pageURL, snap := range m.snaps {
		if snap.ScannedAt.Before(cutoff) {
			delete(m.snaps, pageURL)
			evicted++
		}
	}
	return evicted
}
