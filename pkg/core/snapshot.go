// pkg/core/snapshot.go
package core

import "time"

// Snapshot is a named export of both marker sets
type Snapshot struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	CreatedAt      time.Time            `json:"createdAt"`
	Vendors        []Vendor             `json:"vendors"`
	Infrastructure []InfrastructureItem `json:"infrastructure"`
}

// Clone deep-copies the snapshot
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Vendors != nil {
		out.Vendors = make([]Vendor, len(s.Vendors))
		for i, v := range s.Vendors {
			out.Vendors[i] = v.Clone()
		}
	}
	if s.Infrastructure != nil {
		out.Infrastructure = make([]InfrastructureItem, len(s.Infrastructure))
		for i, item := range s.Infrastructure {
			out.Infrastructure[i] = item.Clone()
		}
	}
	return out
}
