package registry

import (
	"github.com/eastwood-fallfest/festmap/internal/render"
	"github.com/eastwood-fallfest/festmap/internal/surface"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// VendorLayer is the layer group name vendor markers are drawn into.
const VendorLayer = "vendors"

// VendorRegistry holds vendors, activities and amenities.
type VendorRegistry struct {
	*Registry[core.Vendor]
}

// NewVendorRegistry builds a vendor registry using the default vendor
// presenter. An empty opts.Name becomes VendorLayer.
func NewVendorRegistry(surf surface.Surface, vendors []core.Vendor, opts Options[core.Vendor]) *VendorRegistry {
	if opts.Name == "" {
		opts.Name = VendorLayer
	}
	return &VendorRegistry{New[core.Vendor](surf, render.NewVendorPresenter(), vendors, opts)}
}

// UpdateVendor merges the set fields of patch into the vendor.
func (r *VendorRegistry) UpdateVendor(id string, patch core.VendorPatch) bool {
	return r.Update(id, patch.Apply)
}

// FeaturedSet returns a featured predicate that also promotes the given ids.
func FeaturedSet(ids []string) func(core.Vendor) bool {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(v core.Vendor) bool {
		if v.Featured {
			return true
		}
		_, ok := set[v.ID]
		return ok
	}
}
