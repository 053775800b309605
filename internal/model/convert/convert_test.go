package convert

import (
	"testing"
	"time"

	"github.com/eastwood-fallfest/festmap/internal/model"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSnapshotToModel_CountsAndEmptyLists(t *testing.T) {
	created := time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)
	m, err := SnapshotToModel(core.Snapshot{
		ID:        "8c1d",
		Name:      "layout-v2",
		CreatedAt: created,
		Vendors: []core.Vendor{
			{ID: "food-001", Name: "Smokehouse", Type: core.VendorTypeVendor, Category: "food"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "layout-v2", m.Name)
	assert.Equal(t, 1, m.VendorCount)
	assert.Equal(t, 0, m.InfrastructureCount)
	assert.JSONEq(t, "[]", string(m.Infrastructure))
	assert.Equal(t, created, m.CreatedAt)
}

func TestSnapshotToCore(t *testing.T) {
	m := model.Snapshot{
		ID:             "8c1d",
		Name:           "layout-v2",
		Vendors:        datatypes.JSON(`[{"id":"arts-001","name":"Pottery","type":"activity","category":"arts","coordinates":[36.1,-86.7]}]`),
		Infrastructure: datatypes.JSON(`[{"id":"bar-1","name":"North gate","type":"barricade","coordinates":[36.2,-86.8]}]`),
	}

	s, err := SnapshotToCore(m)
	require.NoError(t, err)

	require.Len(t, s.Vendors, 1)
	assert.Equal(t, "arts-001", s.Vendors[0].ID)
	assert.Equal(t, core.NewLatLng(36.1, -86.7), s.Vendors[0].Coordinates)
	require.Len(t, s.Infrastructure, 1)
	assert.Equal(t, core.InfraBarricade, s.Infrastructure[0].Type)
}

func TestSnapshotToCore_BadJSON(t *testing.T) {
	_, err := SnapshotToCore(model.Snapshot{Name: "broken", Vendors: datatypes.JSON(`{`)})
	assert.Error(t, err)
}

func TestPreferences(t *testing.T) {
	m, err := PreferencesToModel("sess-1", core.Preferences{Favorites: []string{"food-001"}, Theme: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", m.SessionID)

	p, err := PreferencesToCore(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"food-001"}, p.Favorites)
	assert.Equal(t, []string{}, p.Visited)
	assert.Equal(t, "dark", p.Theme)
}

func TestPreferencesToCore_EmptyRowGetsDefaults(t *testing.T) {
	p, err := PreferencesToCore(model.Preference{SessionID: "new"})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultPreferences(), p)
}
