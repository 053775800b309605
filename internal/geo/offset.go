package geo

import (
	"fmt"

	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// Offset is the distance of a point from the dataset base point, both as raw
// degree deltas (what the dataset files are authored in) and as approximate
// Web Mercator metres.
type Offset struct {
	DLat   float64 `json:"dLat"`
	DLng   float64 `json:"dLng"`
	EastM  float64 `json:"eastMetres"`
	NorthM float64 `json:"northMetres"`
}

// OffsetFrom computes the offset of p relative to base.
func OffsetFrom(base, p core.LatLng) Offset {
	bx, by := ToMercator(base)
	px, py := ToMercator(p)
	return Offset{
		DLat:   p.Lat() - base.Lat(),
		DLng:   p.Lng() - base.Lng(),
		EastM:  px - bx,
		NorthM: py - by,
	}
}

// Apply returns base shifted by the degree deltas of o.
func (o Offset) Apply(base core.LatLng) core.LatLng {
	return core.NewLatLng(base.Lat()+o.DLat, base.Lng()+o.DLng)
}

// FormatOffset renders o the way dataset entries are written, ready to paste
// into a coordinates field.
func FormatOffset(o Offset) string {
	return fmt.Sprintf("generateCoords(%.7f, %.7f)", o.DLat, o.DLng)
}
