package registry

import (
	"slices"
	"strings"

	"github.com/eastwood-fallfest/festmap/internal/geo"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// Filter narrows which entities are shown. Empty or nil fields do not
// constrain; set fields are combined with AND.
type Filter struct {
	Types       []string     `json:"types,omitempty"`
	Categories  []string     `json:"categories,omitempty"`
	Featured    *bool        `json:"featured,omitempty"`
	SearchQuery string       `json:"searchQuery,omitempty"`
	Bounds      *core.Bounds `json:"bounds,omitempty"`
}

// Clone returns a deep copy of f. A nil filter clones to nil.
func (f *Filter) Clone() *Filter {
	if f == nil {
		return nil
	}
	out := &Filter{
		Types:       slices.Clone(f.Types),
		Categories:  slices.Clone(f.Categories),
		SearchQuery: f.SearchQuery,
	}
	if f.Featured != nil {
		featured := *f.Featured
		out.Featured = &featured
	}
	if f.Bounds != nil {
		bounds := *f.Bounds
		out.Bounds = &bounds
	}
	return out
}

// IsZero reports whether f constrains nothing.
func (f *Filter) IsZero() bool {
	return f == nil || (len(f.Types) == 0 &&
		len(f.Categories) == 0 &&
		f.Featured == nil &&
		strings.TrimSpace(f.SearchQuery) == "" &&
		f.Bounds == nil)
}

func matches[T Entity[T]](f *Filter, e T, featured func(T) bool) bool {
	if f == nil {
		return true
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, e.EntityType()) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, e.EntityCategory()) {
		return false
	}
	if f.Featured != nil && featured(e) != *f.Featured {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.SearchQuery)); q != "" {
		if !strings.Contains(strings.ToLower(e.SearchText()), q) {
			return false
		}
	}
	if f.Bounds != nil && !geo.Contains(*f.Bounds, e.Position()) {
		return false
	}
	return true
}
