// Package storagetest holds the behavior every storage.Backend shares, run
// against each implementation from its own package tests.
package storagetest

import (
	"testing"
	"time"

	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises b, which must be initialized and empty.
func Run(t *testing.T, newBackend func(t *testing.T) storage.Backend) {
	t.Run("SnapshotRoundTrip", func(t *testing.T) { snapshotRoundTrip(t, newBackend(t)) })
	t.Run("SnapshotOverwriteKeepsID", func(t *testing.T) { snapshotOverwrite(t, newBackend(t)) })
	t.Run("SnapshotNotFound", func(t *testing.T) { snapshotNotFound(t, newBackend(t)) })
	t.Run("ListSnapshots", func(t *testing.T) { listSnapshots(t, newBackend(t)) })
	t.Run("Preferences", func(t *testing.T) { preferences(t, newBackend(t)) })
}

func sample(name, id string, at time.Time) core.Snapshot {
	return core.Snapshot{
		ID:        id,
		Name:      name,
		CreatedAt: at,
		Vendors: []core.Vendor{
			{
				ID:             "food-001",
				Name:           "Hickory Smokehouse",
				Type:           core.VendorTypeVendor,
				Category:       "food",
				Coordinates:    core.NewLatLng(36.1889, -86.7381),
				DietaryOptions: []string{"gluten-free"},
				Contact:        &core.Contact{Email: "pit@example.com"},
				Featured:       true,
			},
		},
		Infrastructure: []core.InfrastructureItem{
			{ID: "trash-1", Name: "Bins", Type: core.InfraTrash, Coordinates: core.NewLatLng(36.1887, -86.7384)},
		},
	}
}

func snapshotRoundTrip(t *testing.T, b storage.Backend) {
	at := time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC)
	want := sample("friday", "11111111-1111-1111-1111-111111111111", at)
	require.NoError(t, b.SaveSnapshot(want))

	got, err := b.LoadSnapshot("friday")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, want.Vendors, got.Vendors)
	assert.Equal(t, want.Infrastructure, got.Infrastructure)

	// the stored copy is independent of the caller's slices
	want.Vendors[0].Name = "changed"
	again, err := b.LoadSnapshot("friday")
	require.NoError(t, err)
	assert.Equal(t, "Hickory Smokehouse", again.Vendors[0].Name)
}

func snapshotOverwrite(t *testing.T, b storage.Backend) {
	at := time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, b.SaveSnapshot(sample("layout", "22222222-2222-2222-2222-222222222222", at)))

	next := sample("layout", "33333333-3333-3333-3333-333333333333", at.Add(time.Hour))
	next.Vendors = nil
	require.NoError(t, b.SaveSnapshot(next))

	got, err := b.LoadSnapshot("layout")
	require.NoError(t, err)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", got.ID)
	assert.Empty(t, got.Vendors)
	assert.Len(t, got.Infrastructure, 1)

	list, err := b.ListSnapshots()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func snapshotNotFound(t *testing.T, b storage.Backend) {
	_, err := b.LoadSnapshot("missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, b.DeleteSnapshot("missing"), storage.ErrNotFound)
	assert.Error(t, b.SaveSnapshot(core.Snapshot{}))
}

func listSnapshots(t *testing.T, b storage.Backend) {
	at := time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, b.SaveSnapshot(sample("second", "b", at.Add(time.Minute))))
	require.NoError(t, b.SaveSnapshot(sample("first", "a", at)))

	list, err := b.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
	assert.Equal(t, 1, list[0].VendorCount)
	assert.Equal(t, 1, list[0].InfrastructureCount)

	require.NoError(t, b.DeleteSnapshot("first"))
	list, err = b.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Name)
}

func preferences(t *testing.T, b storage.Backend) {
	_, err := b.GetPreferences("sess-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	p := core.DefaultPreferences()
	p.Favorites = append(p.Favorites, "food-001")
	require.NoError(t, b.SavePreferences("sess-1", p))

	p.Visited = append(p.Visited, "arts-001")
	require.NoError(t, b.SavePreferences("sess-1", p))

	got, err := b.GetPreferences("sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"food-001"}, got.Favorites)
	assert.Equal(t, []string{"arts-001"}, got.Visited)
	assert.Equal(t, "light", got.Theme)

	assert.Error(t, b.SavePreferences("", p))
}
