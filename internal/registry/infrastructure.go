package registry

import (
	"github.com/eastwood-fallfest/festmap/internal/render"
	"github.com/eastwood-fallfest/festmap/internal/surface"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

const (
	// InfrastructureLayer is the layer group name for infrastructure markers.
	InfrastructureLayer = "infrastructure"
	// InfrastructureZIndex keeps infrastructure beneath vendor markers.
	InfrastructureZIndex = -1000
)

// InfrastructureRegistry holds barricades, detours, restrooms and the rest.
// On top of filtering it can show a single type, everything, or nothing.
type InfrastructureRegistry struct {
	*Registry[core.InfrastructureItem]
}

func NewInfrastructureRegistry(surf surface.Surface, items []core.InfrastructureItem, opts Options[core.InfrastructureItem]) *InfrastructureRegistry {
	if opts.Name == "" {
		opts.Name = InfrastructureLayer
	}
	if opts.ZIndexOffset == 0 {
		opts.ZIndexOffset = InfrastructureZIndex
	}
	opts.HoverClose = true
	return &InfrastructureRegistry{New[core.InfrastructureItem](surf, render.NewInfrastructurePresenter(), items, opts)}
}

// ShowOnly shows exactly the items of type t, ignoring any filter.
func (r *InfrastructureRegistry) ShowOnly(t core.InfrastructureType) {
	r.setMode("showOnly", visibility{kind: modeOnly, key: string(t)})
}

// ShowAll shows every item, ignoring any filter.
func (r *InfrastructureRegistry) ShowAll() {
	r.setMode("showAll", visibility{kind: modeAll})
}

// HideAll hides every item until another mode is chosen.
func (r *InfrastructureRegistry) HideAll() {
	r.setMode("hideAll", visibility{kind: modeNone})
}

// SetVisible attaches or detaches the whole layer group without changing
// which markers belong to it.
func (r *InfrastructureRegistry) SetVisible(visible bool) {
	r.setVisible(visible)
}

// Shown reports whether the layer group is attached to the surface.
func (r *InfrastructureRegistry) Shown() bool {
	if r.destroyed {
		return false
	}
	return r.surface.HasLayer(r.group)
}

// UpdateItem merges the set fields of patch into the item.
func (r *InfrastructureRegistry) UpdateItem(id string, patch core.InfrastructurePatch) bool {
	return r.Update(id, patch.Apply)
}
