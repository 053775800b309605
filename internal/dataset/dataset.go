// Package dataset loads the vendor and infrastructure lists a map starts
// from. Files are JSON or YAML. Each entry gives either absolute
// coordinates or an offset from the file's base point.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eastwood-fallfest/festmap/internal/geo"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownFormat is returned for files that are neither JSON nor YAML.
	ErrUnknownFormat = errors.New("unknown dataset format")
	// ErrInvalid wraps entry validation failures.
	ErrInvalid = errors.New("invalid dataset")
)

// Format is a dataset serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Dataset is everything needed to populate both registries.
type Dataset struct {
	Name           string                    `json:"name,omitempty" yaml:"name,omitempty"`
	Base           *core.LatLng              `json:"base,omitempty" yaml:"base,omitempty,flow"`
	Vendors        []core.Vendor             `json:"vendors" yaml:"vendors"`
	Infrastructure []core.InfrastructureItem `json:"infrastructure" yaml:"infrastructure"`
}

type vendorEntry struct {
	core.Vendor `yaml:",inline"`
	Offset      *core.LatLng `json:"offset,omitempty" yaml:"offset,omitempty,flow"`
}

type infrastructureEntry struct {
	core.InfrastructureItem `yaml:",inline"`
	Offset                  *core.LatLng `json:"offset,omitempty" yaml:"offset,omitempty,flow"`
}

type file struct {
	Name           string                `json:"name" yaml:"name"`
	Base           *core.LatLng          `json:"base" yaml:"base,flow"`
	Vendors        []vendorEntry         `json:"vendors" yaml:"vendors"`
	Infrastructure []infrastructureEntry `json:"infrastructure" yaml:"infrastructure"`
}

//go:embed eastwood.yaml
var eastwoodYAML []byte

// Builtin returns the Eastwood Fallfest dataset shipped with the binary.
func Builtin() Dataset {
	ds, err := Decode(bytes.NewReader(eastwoodYAML), FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in dataset: %v", err))
	}
	return ds
}

// Load reads a dataset file, choosing the format by extension.
func Load(path string) (Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Dataset{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	ds, err := Decode(f, format)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Decode parses and validates a dataset, resolving offsets against its base.
func Decode(r io.Reader, format Format) (Dataset, error) {
	var raw file
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return Dataset{}, fmt.Errorf("decoding json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return Dataset{}, fmt.Errorf("decoding yaml: %w", err)
		}
	default:
		return Dataset{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	ds := Dataset{
		Name:           raw.Name,
		Base:           raw.Base,
		Vendors:        make([]core.Vendor, 0, len(raw.Vendors)),
		Infrastructure: make([]core.InfrastructureItem, 0, len(raw.Infrastructure)),
	}

	for i, e := range raw.Vendors {
		v := e.Vendor
		p, err := resolve(raw.Base, v.Coordinates, e.Offset)
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: vendor %d (%s): %v", ErrInvalid, i, v.ID, err)
		}
		v.Coordinates = p
		if err := ValidateVendor(v); err != nil {
			return Dataset{}, fmt.Errorf("%w: vendor %d (%s): %v", ErrInvalid, i, v.ID, err)
		}
		ds.Vendors = append(ds.Vendors, v)
	}

	for i, e := range raw.Infrastructure {
		item := e.InfrastructureItem
		p, err := resolve(raw.Base, item.Coordinates, e.Offset)
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: infrastructure %d (%s): %v", ErrInvalid, i, item.ID, err)
		}
		item.Coordinates = p
		if err := ValidateItem(item); err != nil {
			return Dataset{}, fmt.Errorf("%w: infrastructure %d (%s): %v", ErrInvalid, i, item.ID, err)
		}
		ds.Infrastructure = append(ds.Infrastructure, item)
	}

	return ds, nil
}

// Encode writes ds with absolute coordinates.
func Encode(w io.Writer, ds Dataset, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ds); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func resolve(base *core.LatLng, coords core.LatLng, offset *core.LatLng) (core.LatLng, error) {
	if offset == nil {
		if coords == (core.LatLng{}) {
			return core.LatLng{}, errors.New("missing coordinates")
		}
		return coords, nil
	}
	if coords != (core.LatLng{}) {
		return core.LatLng{}, errors.New("both coordinates and offset set")
	}
	if base == nil {
		return core.LatLng{}, errors.New("offset without a base point")
	}
	o := geo.Offset{DLat: offset.Lat(), DLng: offset.Lng()}
	return o.Apply(*base), nil
}

// ValidateVendor checks the id, type and coordinates of v.
func ValidateVendor(v core.Vendor) error {
	if v.ID == "" {
		return errors.New("missing id")
	}
	switch v.Type {
	case core.VendorTypeVendor, core.VendorTypeActivity, core.VendorTypeAmenity:
	default:
		return fmt.Errorf("unknown type %q", v.Type)
	}
	if !geo.Valid(v.Coordinates) {
		return geo.ErrInvalidCoordinates
	}
	return nil
}

// ValidateItem checks the id, type and coordinates of item.
func ValidateItem(item core.InfrastructureItem) error {
	if item.ID == "" {
		return errors.New("missing id")
	}
	if !item.Type.Valid() {
		return fmt.Errorf("unknown type %q", item.Type)
	}
	if !geo.Valid(item.Coordinates) {
		return geo.ErrInvalidCoordinates
	}
	return nil
}
