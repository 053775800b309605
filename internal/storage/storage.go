// internal/storage/storage.go
package storage

import (
	"errors"
	"time"

	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// ErrNotFound is returned when a snapshot or preference row does not exist.
var ErrNotFound = errors.New("not found")

// SnapshotInfo describes a stored snapshot without its entity lists.
type SnapshotInfo struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	CreatedAt           time.Time `json:"createdAt"`
	VendorCount         int       `json:"vendorCount"`
	InfrastructureCount int       `json:"infrastructureCount"`
}

// Backend is the interface all storage implementations must satisfy.
// Registries never see it; the controller persists through it.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Snapshots are keyed by name. Saving over an existing name replaces
	// its contents and keeps the stored ID.
	SaveSnapshot(s core.Snapshot) error
	LoadSnapshot(name string) (core.Snapshot, error)
	ListSnapshots() ([]SnapshotInfo, error)
	DeleteSnapshot(name string) error

	// Preferences are keyed by visitor session id.
	GetPreferences(session string) (core.Preferences, error)
	SavePreferences(session string, p core.Preferences) error
}

// Info summarizes a snapshot.
func Info(s core.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:                  s.ID,
		Name:                s.Name,
		CreatedAt:           s.CreatedAt,
		VendorCount:         len(s.Vendors),
		InfrastructureCount: len(s.Infrastructure),
	}
}
