package controller

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// Preferences returns the stored preferences for session, or the defaults
// for a first-time visitor.
func (c *Controller) Preferences(session string) (core.Preferences, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefsLocked(session)
}

// ToggleFavorite adds or removes a vendor from the session's favorites.
func (c *Controller) ToggleFavorite(session, vendorID string) (core.Preferences, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.vendors.Get(vendorID); !ok {
		return core.Preferences{}, fmt.Errorf("%w: vendor %q", ErrUnknownEntity, vendorID)
	}
	p, err := c.prefsLocked(session)
	if err != nil {
		return core.Preferences{}, err
	}
	if i := slices.Index(p.Favorites, vendorID); i >= 0 {
		p.Favorites = slices.Delete(p.Favorites, i, i+1)
	} else {
		p.Favorites = append(p.Favorites, vendorID)
	}
	if err := c.deps.Storage.SavePreferences(session, p); err != nil {
		return core.Preferences{}, fmt.Errorf("saving preferences: %w", err)
	}
	return p, nil
}

// MarkVisited records that the session visited a vendor.
func (c *Controller) MarkVisited(session, vendorID string) (core.Preferences, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.vendors.Get(vendorID); !ok {
		return core.Preferences{}, fmt.Errorf("%w: vendor %q", ErrUnknownEntity, vendorID)
	}
	if err := c.markVisitedLocked(session, vendorID); err != nil {
		return core.Preferences{}, err
	}
	return c.prefsLocked(session)
}

func (c *Controller) prefsLocked(session string) (core.Preferences, error) {
	if session == "" {
		return core.Preferences{}, fmt.Errorf("%w: empty session", ErrInvalidArgument)
	}
	p, err := c.deps.Storage.GetPreferences(session)
	if errors.Is(err, storage.ErrNotFound) {
		return core.DefaultPreferences(), nil
	}
	if err != nil {
		return core.Preferences{}, fmt.Errorf("loading preferences: %w", err)
	}
	return p, nil
}

func (c *Controller) markVisitedLocked(session, vendorID string) error {
	p, err := c.prefsLocked(session)
	if err != nil {
		return err
	}
	if slices.Contains(p.Visited, vendorID) {
		return nil
	}
	p.Visited = append(p.Visited, vendorID)
	if err := c.deps.Storage.SavePreferences(session, p); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// SaveSnapshot stores the current contents of both registries under name.
func (c *Controller) SaveSnapshot(name string) (storage.SnapshotInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.SnapshotInfo{}, fmt.Errorf("%w: empty snapshot name", ErrInvalidArgument)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := core.Snapshot{
		ID:             uuid.NewString(),
		Name:           name,
		CreatedAt:      c.deps.Now().UTC(),
		Vendors:        c.vendors.Export(),
		Infrastructure: c.infra.Export(),
	}
	if err := c.deps.Storage.SaveSnapshot(snap); err != nil {
		return storage.SnapshotInfo{}, fmt.Errorf("saving snapshot %q: %w", name, err)
	}
	stored, err := c.deps.Storage.LoadSnapshot(name)
	if err != nil {
		return storage.SnapshotInfo{}, fmt.Errorf("reloading snapshot %q: %w", name, err)
	}
	c.log.Info("snapshot saved", "name", name, "id", stored.ID,
		"vendors", len(stored.Vendors), "infrastructure", len(stored.Infrastructure))
	return storage.Info(stored), nil
}

// LoadSnapshot replaces both registries' contents with a stored snapshot.
func (c *Controller) LoadSnapshot(name string) (storage.SnapshotInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, err := c.deps.Storage.LoadSnapshot(name)
	if err != nil {
		return storage.SnapshotInfo{}, fmt.Errorf("loading snapshot %q: %w", name, err)
	}
	if err := validateEntities(snap.Vendors, snap.Infrastructure); err != nil {
		return storage.SnapshotInfo{}, fmt.Errorf("snapshot %q: %w", name, err)
	}
	c.importLocked(snap.Vendors, snap.Infrastructure)
	c.log.Info("snapshot loaded", "name", name, "id", snap.ID)
	return storage.Info(snap), nil
}

// ListSnapshots lists stored snapshots.
func (c *Controller) ListSnapshots() ([]storage.SnapshotInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deps.Storage.ListSnapshots()
}

// DeleteSnapshot removes a stored snapshot.
func (c *Controller) DeleteSnapshot(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deps.Storage.DeleteSnapshot(name)
}
