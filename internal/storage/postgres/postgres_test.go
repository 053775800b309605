package postgres

import (
	"testing"

	"github.com/eastwood-fallfest/festmap/internal/config"
	"github.com/eastwood-fallfest/festmap/internal/database"
	"github.com/eastwood-fallfest/festmap/internal/model"
	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

func TestNew(t *testing.T) {
	b := New(Dependencies{Config: config.DBConfig{Host: "localhost"}, Logger: zerolog.Nop()})
	require.NotNil(t, b)
	assert.NoError(t, b.Close(), "close before init")
}

// An injected connection skips dialing, so the backend runs against sqlite here.
func TestInit_WithInjectedDB(t *testing.T) {
	db, err := database.GetSqliteDB("")
	require.NoError(t, err)

	b := New(Dependencies{
		DB:       db,
		Festival: model.FestivalInfo{Name: "Eastwood Fallfest"},
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.SaveSnapshot(core.Snapshot{ID: "a", Name: "pg"}))
	s, err := b.LoadSnapshot("pg")
	require.NoError(t, err)
	assert.Equal(t, "a", s.ID)
}
