package controller

import (
	"fmt"
	"slices"

	"github.com/eastwood-fallfest/festmap/internal/registry"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// FilterState is what the filter panel shows for vendors.
type FilterState struct {
	Categories   []string     `json:"categories"`
	Types        []string     `json:"types"`
	SearchQuery  string       `json:"searchQuery"`
	FeaturedOnly bool         `json:"featuredOnly"`
	Bounds       *core.Bounds `json:"bounds,omitempty"`
}

func (s FilterState) clone() FilterState {
	out := s
	out.Categories = slices.Clone(s.Categories)
	out.Types = slices.Clone(s.Types)
	if s.Bounds != nil {
		b := *s.Bounds
		out.Bounds = &b
	}
	return out
}

// Filter converts the panel state to a registry filter. A state that
// constrains nothing becomes nil.
func (s FilterState) Filter() *registry.Filter {
	f := &registry.Filter{
		Types:       slices.Clone(s.Types),
		Categories:  slices.Clone(s.Categories),
		SearchQuery: s.SearchQuery,
	}
	if s.FeaturedOnly {
		featured := true
		f.Featured = &featured
	}
	if s.Bounds != nil {
		b := *s.Bounds
		f.Bounds = &b
	}
	if f.IsZero() {
		return nil
	}
	return f
}

// FilterState returns a copy of the vendor filter panel state.
func (c *Controller) FilterState() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.clone()
}

// SetFilter replaces the whole vendor filter.
func (c *Controller) SetFilter(s FilterState) FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = s.clone()
	return c.applyLocked()
}

// ToggleCategory adds or removes one category pill.
func (c *Controller) ToggleCategory(category string) FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.Index(c.filter.Categories, category); i >= 0 {
		c.filter.Categories = slices.Delete(c.filter.Categories, i, i+1)
	} else {
		c.filter.Categories = append(c.filter.Categories, category)
	}
	return c.applyLocked()
}

// SetSearch sets the search text.
func (c *Controller) SetSearch(query string) FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.SearchQuery = query
	return c.applyLocked()
}

// SetFeaturedOnly restricts vendors to featured ones.
func (c *Controller) SetFeaturedOnly(on bool) FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.FeaturedOnly = on
	return c.applyLocked()
}

// ToggleFeatured flips the featured-only switch.
func (c *Controller) ToggleFeatured() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.FeaturedOnly = !c.filter.FeaturedOnly
	return c.applyLocked()
}

// ResetFilters clears every vendor filter.
func (c *Controller) ResetFilters() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = FilterState{}
	c.vendors.ClearFilters()
	return c.filter.clone()
}

func (c *Controller) applyLocked() FilterState {
	c.vendors.ApplyFilter(c.filter.Filter())
	return c.filter.clone()
}

// InfrastructureState describes the infrastructure legend.
type InfrastructureState struct {
	// Selected is the only type shown, or empty when every type is shown.
	Selected core.InfrastructureType `json:"selected"`
	Visible  bool                    `json:"visible"`
}

// SelectInfrastructure shows only items of type t. An empty t shows all.
func (c *Controller) SelectInfrastructure(t core.InfrastructureType) (InfrastructureState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case t == "":
		c.infra.ShowAll()
	case t.Valid():
		c.infra.ShowOnly(t)
	default:
		return c.infraStateLocked(), fmt.Errorf("%w: infrastructure type %q", ErrInvalidArgument, t)
	}
	c.infraType = t
	return c.infraStateLocked(), nil
}

// SetInfrastructureVisible shows or hides the whole infrastructure layer.
func (c *Controller) SetInfrastructureVisible(visible bool) InfrastructureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.infra.SetVisible(visible)
	c.infraVisible = visible
	return c.infraStateLocked()
}

// InfrastructureState returns the current legend state.
func (c *Controller) InfrastructureState() InfrastructureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.infraStateLocked()
}

func (c *Controller) infraStateLocked() InfrastructureState {
	return InfrastructureState{Selected: c.infraType, Visible: c.infraVisible}
}
