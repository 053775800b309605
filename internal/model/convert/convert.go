// Package convert maps between core domain values and GORM models
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/eastwood-fallfest/festmap/internal/model"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"gorm.io/datatypes"
)

// SnapshotToModel encodes a core.Snapshot into its table row.
func SnapshotToModel(s core.Snapshot) (model.Snapshot, error) {
	vendors := s.Vendors
	if vendors == nil {
		vendors = []core.Vendor{}
	}
	infra := s.Infrastructure
	if infra == nil {
		infra = []core.InfrastructureItem{}
	}

	vendorJSON, err := json.Marshal(vendors)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("encoding vendors: %w", err)
	}
	infraJSON, err := json.Marshal(infra)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("encoding infrastructure: %w", err)
	}

	return model.Snapshot{
		ID:                  s.ID,
		Name:                s.Name,
		CreatedAt:           s.CreatedAt,
		VendorCount:         len(vendors),
		InfrastructureCount: len(infra),
		Vendors:             datatypes.JSON(vendorJSON),
		Infrastructure:      datatypes.JSON(infraJSON),
	}, nil
}

// SnapshotToCore decodes a snapshot row.
func SnapshotToCore(m model.Snapshot) (core.Snapshot, error) {
	s := core.Snapshot{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
	if len(m.Vendors) > 0 {
		if err := json.Unmarshal(m.Vendors, &s.Vendors); err != nil {
			return core.Snapshot{}, fmt.Errorf("decoding vendors of %q: %w", m.Name, err)
		}
	}
	if len(m.Infrastructure) > 0 {
		if err := json.Unmarshal(m.Infrastructure, &s.Infrastructure); err != nil {
			return core.Snapshot{}, fmt.Errorf("decoding infrastructure of %q: %w", m.Name, err)
		}
	}
	return s, nil
}

// PreferencesToModel encodes one session's preferences.
func PreferencesToModel(session string, p core.Preferences) (model.Preference, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return model.Preference{}, fmt.Errorf("encoding preferences: %w", err)
	}
	return model.Preference{SessionID: session, Data: datatypes.JSON(data)}, nil
}

// PreferencesToCore decodes a preference row. Missing lists come back empty.
func PreferencesToCore(m model.Preference) (core.Preferences, error) {
	p := core.DefaultPreferences()
	if len(m.Data) > 0 {
		if err := json.Unmarshal(m.Data, &p); err != nil {
			return core.Preferences{}, fmt.Errorf("decoding preferences of %q: %w", m.SessionID, err)
		}
	}
	if p.Favorites == nil {
		p.Favorites = []string{}
	}
	if p.Visited == nil {
		p.Visited = []string{}
	}
	return p, nil
}
