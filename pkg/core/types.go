// pkg/core/types.go
package core

import "fmt"

// LatLng is a geographic point stored as [latitude, longitude], the same
// array form the festival dataset uses.
type LatLng [2]float64

// NewLatLng builds a LatLng from a latitude and a longitude.
func NewLatLng(lat, lng float64) LatLng {
	return LatLng{lat, lng}
}

// Lat returns the latitude.
func (p LatLng) Lat() float64 { return p[0] }

// Lng returns the longitude.
func (p LatLng) Lng() float64 { return p[1] }

// String formats the point as "lat,lng" with 7 decimals.
func (p LatLng) String() string {
	return fmt.Sprintf("%.7f,%.7f", p[0], p[1])
}

// Bounds is a lat/lng rectangle. Containment is inclusive on every edge.
type Bounds struct {
	SouthWest LatLng `json:"southWest" yaml:"southWest"`
	NorthEast LatLng `json:"northEast" yaml:"northEast"`
}

// Contact holds optional vendor contact details
type Contact struct {
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Website string `json:"website,omitempty" yaml:"website,omitempty"`
}

// Preferences are the per-visitor favorites and visited lists
type Preferences struct {
	Favorites []string `json:"favorites"`
	Visited   []string `json:"visited"`
	Theme     string   `json:"theme"`
	Language  string   `json:"language"`
}

// DefaultPreferences mirrors what a first-time visitor starts with
func DefaultPreferences() Preferences {
	return Preferences{
		Favorites: []string{},
		Visited:   []string{},
		Theme:     "light",
		Language:  "en",
	}
}

// Clone deep-copies the preference lists
func (p Preferences) Clone() Preferences {
	out := p
	out.Favorites = cloneStrings(p.Favorites)
	out.Visited = cloneStrings(p.Visited)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
