// Package gormstorage implements storage.Backend on top of any gorm
// dialect. The sqlite and postgres backends wrap it and only differ in how
// they open the connection and what they do around it.
package gormstorage

import (
	"errors"
	"fmt"

	"github.com/eastwood-fallfest/festmap/internal/database"
	"github.com/eastwood-fallfest/festmap/internal/model"
	"github.com/eastwood-fallfest/festmap/internal/model/convert"
	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/rs/zerolog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB       *gorm.DB
	Festival model.FestivalInfo
	Logger   zerolog.Logger
}

// Backend implements storage.Backend with gorm.
type Backend struct {
	deps    Dependencies
	dbReady bool
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// DB exposes the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("no database connection")
	}
	if err := database.Setup(b.deps.DB, b.deps.Festival, b.deps.Logger); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.dbReady = true
	return nil
}

// Close closes the underlying sql.DB.
func (b *Backend) Close() error {
	b.dbReady = false
	if b.deps.DB == nil {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (b *Backend) ready() error {
	if !b.dbReady {
		return errors.New("storage not initialized")
	}
	return nil
}

// SaveSnapshot upserts by name. The stored ID survives an overwrite.
func (b *Backend) SaveSnapshot(s core.Snapshot) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.Name == "" {
		return errors.New("snapshot name is empty")
	}
	row, err := convert.SnapshotToModel(s)
	if err != nil {
		return err
	}
	err = b.deps.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"created_at", "vendor_count", "infrastructure_count", "vendors", "infrastructure",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("saving snapshot %q: %w", s.Name, err)
	}
	b.deps.Logger.Debug().Str("snapshot", s.Name).Int("vendors", row.VendorCount).Msg("snapshot saved")
	return nil
}

// LoadSnapshot returns the named snapshot.
func (b *Backend) LoadSnapshot(name string) (core.Snapshot, error) {
	if err := b.ready(); err != nil {
		return core.Snapshot{}, err
	}
	var row model.Snapshot
	err := b.deps.DB.Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Snapshot{}, fmt.Errorf("snapshot %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("loading snapshot %q: %w", name, err)
	}
	return convert.SnapshotToCore(row)
}

// ListSnapshots returns summaries, oldest first, without the entity blobs.
func (b *Backend) ListSnapshots() ([]storage.SnapshotInfo, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	var rows []model.Snapshot
	err := b.deps.DB.
		Select("id", "name", "created_at", "vendor_count", "infrastructure_count").
		Order("created_at, name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	out := make([]storage.SnapshotInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, storage.SnapshotInfo{
			ID:                  r.ID,
			Name:                r.Name,
			CreatedAt:           r.CreatedAt,
			VendorCount:         r.VendorCount,
			InfrastructureCount: r.InfrastructureCount,
		})
	}
	return out, nil
}

// DeleteSnapshot removes the named snapshot.
func (b *Backend) DeleteSnapshot(name string) error {
	if err := b.ready(); err != nil {
		return err
	}
	res := b.deps.DB.Where("name = ?", name).Delete(&model.Snapshot{})
	if res.Error != nil {
		return fmt.Errorf("deleting snapshot %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("snapshot %q: %w", name, storage.ErrNotFound)
	}
	return nil
}

// GetPreferences returns one session's preferences.
func (b *Backend) GetPreferences(session string) (core.Preferences, error) {
	if err := b.ready(); err != nil {
		return core.Preferences{}, err
	}
	var row model.Preference
	err := b.deps.DB.Where("session_id = ?", session).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Preferences{}, fmt.Errorf("preferences for %q: %w", session, storage.ErrNotFound)
	}
	if err != nil {
		return core.Preferences{}, fmt.Errorf("loading preferences for %q: %w", session, err)
	}
	return convert.PreferencesToCore(row)
}

// SavePreferences upserts one session's preferences.
func (b *Backend) SavePreferences(session string, p core.Preferences) error {
	if err := b.ready(); err != nil {
		return err
	}
	if session == "" {
		return errors.New("session id is empty")
	}
	row, err := convert.PreferencesToModel(session, p)
	if err != nil {
		return err
	}
	err = b.deps.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at", "data"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("saving preferences for %q: %w", session, err)
	}
	return nil
}
