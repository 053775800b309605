// Package postgres implements storage.Backend on PostgreSQL through the
// shared gorm backend.
package postgres

import (
	"fmt"

	"github.com/eastwood-fallfest/festmap/internal/config"
	"github.com/eastwood-fallfest/festmap/internal/database"
	"github.com/eastwood-fallfest/festmap/internal/model"
	gormstorage "github.com/eastwood-fallfest/festmap/internal/storage/gorm"
	"github.com/rs/zerolog"

	"gorm.io/gorm"
)

// Dependencies holds all dependencies for the postgres backend. DB may be
// left nil, in which case Init connects using Config.
type Dependencies struct {
	DB       *gorm.DB
	Config   config.DBConfig
	Festival model.FestivalInfo
	Logger   zerolog.Logger
}

// Backend implements storage.Backend on PostgreSQL.
type Backend struct {
	*gormstorage.Backend
	deps Dependencies
}

// New creates a new postgres backend. It does not connect until Init.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init connects if needed, validates the connection and migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		b.deps.Logger.Debug().
			Str("host", b.deps.Config.Host).
			Str("database", b.deps.Config.Database).
			Msg("Connecting to Postgres DB")

		db, err := database.GetPostgresDB(b.deps.Config)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
		b.deps.Logger.Info().Msg("Connected to database")
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:       b.deps.DB,
		Festival: b.deps.Festival,
		Logger:   b.deps.Logger,
	})
	return b.Backend.Init()
}

// Close closes the connection. Safe before Init.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	return b.Backend.Close()
}
