package gormstorage

import (
	"testing"

	"github.com/eastwood-fallfest/festmap/internal/database"
	"github.com/eastwood-fallfest/festmap/internal/model"
	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/internal/storage/storagetest"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

func newTestBackend(t *testing.T) *Backend {
	db, err := database.GetSqliteDB("")
	require.NoError(t, err)

	b := New(Dependencies{
		DB:       db,
		Festival: model.FestivalInfo{Name: "Eastwood Fallfest"},
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBackend(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Backend {
		return newTestBackend(t)
	})
}

func TestInit_NoDB(t *testing.T) {
	b := New(Dependencies{Logger: zerolog.Nop()})
	assert.Error(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestCallsBeforeInitFail(t *testing.T) {
	db, err := database.GetSqliteDB("")
	require.NoError(t, err)
	b := New(Dependencies{DB: db, Logger: zerolog.Nop()})

	assert.Error(t, b.SaveSnapshot(core.Snapshot{Name: "x"}))
	_, err = b.LoadSnapshot("x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	_, err = b.ListSnapshots()
	assert.Error(t, err)
	_, err = b.GetPreferences("s")
	assert.Error(t, err)
}

func TestListSnapshots_SkipsBlobs(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.SaveSnapshot(core.Snapshot{ID: "a", Name: "one", Vendors: []core.Vendor{{ID: "v"}}}))

	var rows []model.Snapshot
	require.NoError(t, b.DB().Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].VendorCount)

	list, err := b.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].VendorCount)
}
