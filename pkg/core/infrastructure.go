// pkg/core/infrastructure.go
package core

import "strings"

// InfrastructureType is the closed set of non-vendor map items
type InfrastructureType string

const (
	InfraBarricade InfrastructureType = "barricade"
	InfraDetour    InfrastructureType = "detour"
	InfraSeating   InfrastructureType = "seating"
	InfraTrash     InfrastructureType = "trash"
	InfraSecurity  InfrastructureType = "security"
	InfraParking   InfrastructureType = "parking"
	InfraRestrooms InfrastructureType = "restrooms"
	InfraFirstAid  InfrastructureType = "firstAid"
)

// InfrastructureTypes lists every infrastructure type in legend order.
var InfrastructureTypes = []InfrastructureType{
	InfraBarricade,
	InfraDetour,
	InfraSeating,
	InfraTrash,
	InfraSecurity,
	InfraParking,
	InfraRestrooms,
	InfraFirstAid,
}

// Valid reports whether t is one of the known infrastructure types.
func (t InfrastructureType) Valid() bool {
	for _, known := range InfrastructureTypes {
		if t == known {
			return true
		}
	}
	return false
}

// InfrastructureItem is a barricade, detour sign, restroom, etc.
// Its category is its type.
type InfrastructureItem struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Type        InfrastructureType `json:"type" yaml:"type"`
	Coordinates LatLng             `json:"coordinates" yaml:"coordinates,flow"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
}

func (i InfrastructureItem) EntityID() string       { return i.ID }
func (i InfrastructureItem) EntityType() string     { return string(i.Type) }
func (i InfrastructureItem) EntityCategory() string { return string(i.Type) }
func (i InfrastructureItem) DisplayName() string    { return i.Name }
func (i InfrastructureItem) Position() LatLng       { return i.Coordinates }

// IsFeatured is always false, infrastructure is never promoted.
func (i InfrastructureItem) IsFeatured() bool { return false }

func (i InfrastructureItem) SearchText() string {
	return strings.Join([]string{i.Name, i.Description, string(i.Type)}, " ")
}

func (i InfrastructureItem) WithPosition(p LatLng) InfrastructureItem {
	i.Coordinates = p
	return i
}

// Clone returns a copy; the item holds no reference fields.
func (i InfrastructureItem) Clone() InfrastructureItem {
	return i
}

// InfrastructurePatch is a partial infrastructure update
type InfrastructurePatch struct {
	Name        *string             `json:"name,omitempty"`
	Type        *InfrastructureType `json:"type,omitempty"`
	Coordinates *LatLng             `json:"coordinates,omitempty"`
	Description *string             `json:"description,omitempty"`
}

// Apply merges the set fields of p into a copy of i.
func (p InfrastructurePatch) Apply(i InfrastructureItem) InfrastructureItem {
	setString(&i.Name, p.Name)
	setString(&i.Description, p.Description)
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.Coordinates != nil {
		i.Coordinates = *p.Coordinates
	}
	return i
}
