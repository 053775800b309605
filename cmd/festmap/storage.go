package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/eastwood-fallfest/festmap/internal/config"
	"github.com/eastwood-fallfest/festmap/internal/model"
	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/internal/storage/memory"
	pgstorage "github.com/eastwood-fallfest/festmap/internal/storage/postgres"
	sqlitestorage "github.com/eastwood-fallfest/festmap/internal/storage/sqlite"
)

// initStorage creates and initializes the configured backend.
func initStorage(storageCfg config.StorageConfig, festival model.FestivalInfo, log zerolog.Logger) (storage.Backend, error) {
	backend, err := createStorageBackend(storageCfg, festival, log)
	if err != nil {
		Logger.Error("Failed to create storage backend", "error", err)
		return nil, err
	}
	if err := backend.Init(); err != nil {
		Logger.Error("Failed to initialize storage backend", "type", storageCfg.Type, "error", err)
		return nil, err
	}
	return backend, nil
}

func createStorageBackend(storageCfg config.StorageConfig, festival model.FestivalInfo, log zerolog.Logger) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		Logger.Info("Postgres storage backend initialized", "host", storageCfg.Postgres.Host)
		return pgstorage.New(pgstorage.Dependencies{
			Config:   storageCfg.Postgres,
			Festival: festival,
			Logger:   log,
		}), nil

	case "sqlite":
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			Path:         storageCfg.SQLite.Path,
			DumpInterval: storageCfg.SQLite.DumpInterval,
			DumpPath:     storageCfg.SQLite.DumpPath,
		}, festival, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		Logger.Info("SQLite storage backend initialized", "path", storageCfg.SQLite.Path)
		return backend, nil

	case "", "memory":
		Logger.Info("Memory storage backend initialized")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}
