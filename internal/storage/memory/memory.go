// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// Backend keeps snapshots and preferences in process memory
type Backend struct {
	snapshots   map[string]core.Snapshot // keyed by name
	preferences map[string]core.Preferences
	mu          sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{
		snapshots:   make(map[string]core.Snapshot),
		preferences: make(map[string]core.Preferences),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveSnapshot stores a deep copy, keeping the ID of an existing name
func (b *Backend) SaveSnapshot(s core.Snapshot) error {
	if s.Name == "" {
		return fmt.Errorf("snapshot name is empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := s.Clone()
	if prev, ok := b.snapshots[s.Name]; ok {
		stored.ID = prev.ID
	}
	b.snapshots[s.Name] = stored
	return nil
}

// LoadSnapshot returns a deep copy of the named snapshot
func (b *Backend) LoadSnapshot(name string) (core.Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s, ok := b.snapshots[name]
	if !ok {
		return core.Snapshot{}, fmt.Errorf("snapshot %q: %w", name, storage.ErrNotFound)
	}
	return s.Clone(), nil
}

// ListSnapshots returns snapshot summaries, oldest first
func (b *Backend) ListSnapshots() ([]storage.SnapshotInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]storage.SnapshotInfo, 0, len(b.snapshots))
	for _, s := range b.snapshots {
		out = append(out, storage.Info(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// DeleteSnapshot removes the named snapshot
func (b *Backend) DeleteSnapshot(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.snapshots[name]; !ok {
		return fmt.Errorf("snapshot %q: %w", name, storage.ErrNotFound)
	}
	delete(b.snapshots, name)
	return nil
}

// GetPreferences returns the session's preferences
func (b *Backend) GetPreferences(session string) (core.Preferences, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p, ok := b.preferences[session]
	if !ok {
		return core.Preferences{}, fmt.Errorf("preferences for %q: %w", session, storage.ErrNotFound)
	}
	return p.Clone(), nil
}

// SavePreferences replaces the session's preferences
func (b *Backend) SavePreferences(session string, p core.Preferences) error {
	if session == "" {
		return fmt.Errorf("session id is empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.preferences[session] = p.Clone()
	return nil
}
