package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/eastwood-fallfest/festmap/pkg/core"
)

func TestParseLatLng_Valid(t *testing.T) {
	p, err := ParseLatLng("36.1888487,-86.7383314")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat() != 36.1888487 {
		t.Errorf("expected lat=36.1888487, got %f", p.Lat())
	}
	if p.Lng() != -86.7383314 {
		t.Errorf("expected lng=-86.7383314, got %f", p.Lng())
	}
}

func TestParseLatLng_AllowsSpaces(t *testing.T) {
	p, err := ParseLatLng(" 36.1 , -86.1 ")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != core.NewLatLng(36.1, -86.1) {
		t.Errorf("unexpected point %v", p)
	}
}

func TestParseLatLng_Invalid(t *testing.T) {
	inputs := []string{"", "36.1", "abc,-86.1", "36.1,xyz", "36.1,-86.1,5", "91,0", "0,181"}

	for _, in := range inputs {
		_, err := ParseLatLng(in)
		if !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("ParseLatLng(%q): expected ErrInvalidCoordinates, got %v", in, err)
		}
	}
}

func TestPoint_UsesLngAsX(t *testing.T) {
	point, err := Point(core.NewLatLng(36.0, -86.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coords, ok := point.Coordinates()
	if !ok {
		t.Fatal("expected valid coordinates")
	}
	if coords.X != -86.0 {
		t.Errorf("expected X=-86, got %f", coords.X)
	}
	if coords.Y != 36.0 {
		t.Errorf("expected Y=36, got %f", coords.Y)
	}
}

func TestPoint_RejectsNonFinite(t *testing.T) {
	for _, p := range []core.LatLng{
		core.NewLatLng(math.NaN(), -86.0),
		core.NewLatLng(36.0, math.Inf(1)),
	} {
		if _, err := Point(p); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("Point(%v): expected ErrInvalidCoordinates, got %v", p, err)
		}
	}
}

func TestEnvelope_RejectsNonFinite(t *testing.T) {
	b := core.Bounds{
		SouthWest: core.NewLatLng(36.0, -86.2),
		NorthEast: core.NewLatLng(math.NaN(), -86.0),
	}

	if _, err := Envelope(b); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
	if Contains(b, core.NewLatLng(36.1, -86.1)) {
		t.Error("expected bounds with a NaN corner to contain nothing")
	}
}

func TestContains(t *testing.T) {
	b := core.Bounds{
		SouthWest: core.NewLatLng(36.0, -86.2),
		NorthEast: core.NewLatLng(36.2, -86.0),
	}

	if !Contains(b, core.NewLatLng(36.1, -86.1)) {
		t.Error("expected interior point to be contained")
	}
	if !Contains(b, core.NewLatLng(36.0, -86.2)) {
		t.Error("expected corner point to be contained")
	}
	if Contains(b, core.NewLatLng(36.3, -86.1)) {
		t.Error("expected point north of bounds to be outside")
	}
	if Contains(b, core.NewLatLng(36.1, -85.9)) {
		t.Error("expected point east of bounds to be outside")
	}
}

func TestContains_SwappedCorners(t *testing.T) {
	b := core.Bounds{
		SouthWest: core.NewLatLng(36.2, -86.0),
		NorthEast: core.NewLatLng(36.0, -86.2),
	}

	if !Contains(b, core.NewLatLng(36.1, -86.1)) {
		t.Error("expected envelope to normalise swapped corners")
	}
}

func TestToMercator_Origin(t *testing.T) {
	x, y := ToMercator(core.NewLatLng(0, 0))

	if math.Abs(x) > 1e-6 || math.Abs(y) > 1e-6 {
		t.Errorf("expected origin to project to 0,0, got %f,%f", x, y)
	}
}

func TestOffsetFrom(t *testing.T) {
	base := core.NewLatLng(36.1888487, -86.7383314)
	p := core.NewLatLng(36.1890487, -86.7391314)

	o := OffsetFrom(base, p)

	if math.Abs(o.DLat-0.0002) > 1e-9 {
		t.Errorf("expected dLat=0.0002, got %.9f", o.DLat)
	}
	if math.Abs(o.DLng+0.0008) > 1e-9 {
		t.Errorf("expected dLng=-0.0008, got %.9f", o.DLng)
	}
	if o.NorthM <= 0 {
		t.Errorf("expected positive northing, got %f", o.NorthM)
	}
	if o.EastM >= 0 {
		t.Errorf("expected negative easting, got %f", o.EastM)
	}

	back := o.Apply(base)
	if math.Abs(back.Lat()-p.Lat()) > 1e-9 || math.Abs(back.Lng()-p.Lng()) > 1e-9 {
		t.Errorf("expected Apply to round-trip, got %v", back)
	}
}

func TestFormatOffset(t *testing.T) {
	got := FormatOffset(Offset{DLat: 0.0002, DLng: -0.0008})

	if got != "generateCoords(0.0002000, -0.0008000)" {
		t.Errorf("unexpected format: %s", got)
	}
}
