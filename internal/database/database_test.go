package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eastwood-fallfest/festmap/internal/config"
	"github.com/eastwood-fallfest/festmap/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DBConfig{
		Host:     "db.internal",
		Port:     "5432",
		Username: "festmap",
		Password: "secret",
		Database: "festmap",
	})
	assert.Equal(t, "host=db.internal port=5432 user=festmap password=secret dbname=festmap sslmode=disable", dsn)

	dsn = PostgresDSN(config.DBConfig{Host: "h", SSLMode: "require"})
	assert.Contains(t, dsn, "sslmode=require")
}

func TestGetSqliteDB_InMemoryIsPrivate(t *testing.T) {
	a, err := GetSqliteDB("")
	require.NoError(t, err)
	b, err := GetSqliteDB("")
	require.NoError(t, err)

	require.NoError(t, a.AutoMigrate(&model.Preference{}))
	assert.True(t, a.Migrator().HasTable(&model.Preference{}))
	assert.False(t, b.Migrator().HasTable(&model.Preference{}))
}

func TestSetup_CreatesFestivalRowOnce(t *testing.T) {
	db, err := GetSqliteDB("")
	require.NoError(t, err)

	info := model.FestivalInfo{Name: "Eastwood Fallfest", BaseLat: 36.1888487, BaseLng: -86.7383314}
	require.NoError(t, Setup(db, info, zerolog.Nop()))
	require.NoError(t, Setup(db, info, zerolog.Nop()))

	var rows []model.FestivalInfo
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Eastwood Fallfest", rows[0].Name)

	for _, m := range model.DatabaseModels {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestDumpMemoryDBToDisk(t *testing.T) {
	db, err := GetSqliteDB("")
	require.NoError(t, err)
	require.NoError(t, Setup(db, model.FestivalInfo{Name: "dump"}, zerolog.Nop()))

	dir := t.TempDir()
	path := filepath.Join(dir, "dumps", "festmap.db")

	require.NoError(t, DumpMemoryDBToDisk(db, path))
	// a second dump replaces the first
	require.NoError(t, DumpMemoryDBToDisk(db, path))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))

	onDisk, err := GetSqliteDB(path)
	require.NoError(t, err)
	var info model.FestivalInfo
	require.NoError(t, onDisk.First(&info).Error)
	assert.Equal(t, "dump", info.Name)

	paths, err := GetBackupDBPaths(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}

func TestDumpMemoryDBToDisk_Errors(t *testing.T) {
	db, err := GetSqliteDB("")
	require.NoError(t, err)

	assert.Error(t, DumpMemoryDBToDisk(db, ""))
	assert.Error(t, DumpMemoryDBToDisk(db, "/tmp/it's.db"))
}
