package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/eastwood-fallfest/festmap/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// GEO POINTS
// Entities are stored as EPSG:4326 [lat, lng]. simplefeatures works in X/Y
// order, so X is always the longitude and Y the latitude.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParseLatLng parses a string in the format "lat,lng" into a core.LatLng
func ParseLatLng(coords string) (core.LatLng, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) != 2 {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	p := core.NewLatLng(lat, lng)
	if !Valid(p) {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	return p, nil
}

// Valid reports whether p lies within the WGS84 latitude/longitude ranges.
func Valid(p core.LatLng) bool {
	return p.Lat() >= -90 && p.Lat() <= 90 && p.Lng() >= -180 && p.Lng() <= 180
}

// Point converts a LatLng to a 2D geometry point
func Point(p core.LatLng) (geom.Point, error) {
	pt, err := geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: p.Lng(), Y: p.Lat()},
			Type: geom.DimXY,
		},
	)
	if err != nil {
		return geom.Point{}, ErrInvalidCoordinates
	}
	return pt, nil
}

// Envelope returns the geometry envelope spanning the two corners of b.
// The corners may be given in either order.
func Envelope(b core.Bounds) (geom.Envelope, error) {
	env, err := geom.NewEnvelope([]geom.XY{
		{X: b.SouthWest.Lng(), Y: b.SouthWest.Lat()},
		{X: b.NorthEast.Lng(), Y: b.NorthEast.Lat()},
	})
	if err != nil {
		return geom.Envelope{}, ErrInvalidCoordinates
	}
	return env, nil
}

// Contains reports whether p lies inside b, edges included. Bounds with
// non-finite corners contain nothing.
func Contains(b core.Bounds, p core.LatLng) bool {
	env, err := Envelope(b)
	if err != nil {
		return false
	}
	return env.Contains(geom.XY{X: p.Lng(), Y: p.Lat()})
}

// ToMercator projects p to EPSG:3857 metres
func ToMercator(p core.LatLng) (x, y float64) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(p.Lng(), p.Lat(), 0)
	return x, y
}
