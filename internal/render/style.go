// Package render turns entities into structured icon and popup descriptions.
// Everything here is a pure function of an entity and its style record; the
// host surface decides how to draw the result.
package render

import "github.com/eastwood-fallfest/festmap/pkg/core"

// Shape selects the icon drawing branch
type Shape string

const (
	ShapeCircle  Shape = "circle"
	ShapeDiamond Shape = "diamond"
	// ShapeStriped is the striped "KEEP CLEAR" rectangle used for barricades.
	ShapeStriped Shape = "rectangle"
)

// Style is the presentation record for one category or infrastructure type
type Style struct {
	Color string `json:"color"`
	Glyph string `json:"glyph"`
	Label string `json:"label"`
	Shape Shape  `json:"shape"`
}

// StyleTable maps a category key to its style. Lookups of unknown keys
// return the Fallback entry.
type StyleTable struct {
	Styles   map[string]Style
	Fallback string
}

// Lookup returns the style for key, or the fallback style when key is unknown.
func (t StyleTable) Lookup(key string) Style {
	if s, ok := t.Styles[key]; ok {
		return s
	}
	if s, ok := t.Styles[t.Fallback]; ok {
		return s
	}
	return neutralStyle
}

// Keys returns the table keys that have a style, in no particular order.
func (t StyleTable) Keys() []string {
	keys := make([]string, 0, len(t.Styles))
	for k := range t.Styles {
		keys = append(keys, k)
	}
	return keys
}

var neutralStyle = Style{Color: "#6B7280", Glyph: "📍", Label: "Other", Shape: ShapeCircle}

// VendorStyles returns the vendor category table. Vendor markers are always
// drawn as circles.
func VendorStyles() StyleTable {
	return StyleTable{
		Fallback: "services",
		Styles: map[string]Style{
			"food":          {Color: "#F59E0B", Glyph: "🍔", Label: "Food", Shape: ShapeCircle},
			"beverage":      {Color: "#059669", Glyph: "🥤", Label: "Beverages", Shape: ShapeCircle},
			"arts":          {Color: "#8B5CF6", Glyph: "🎨", Label: "Arts & Crafts", Shape: ShapeCircle},
			"merchant":      {Color: "#8B5CF6", Glyph: "🛍️", Label: "Merchants", Shape: ShapeCircle},
			"activities":    {Color: "#10B981", Glyph: "🎪", Label: "Activities & Entertainment", Shape: ShapeCircle},
			"entertainment": {Color: "#EC4899", Glyph: "🎭", Label: "Entertainment", Shape: ShapeCircle},
			"services":      {Color: "#3B82F6", Glyph: "🛠️", Label: "Services", Shape: ShapeCircle},
			"restrooms":     {Color: "#6B7280", Glyph: "🚻", Label: "Restrooms", Shape: ShapeCircle},
			"firstAid":      {Color: "#EF4444", Glyph: "🏥", Label: "First Aid", Shape: ShapeCircle},
			"security":      {Color: "#1F2937", Glyph: "👮", Label: "Security", Shape: ShapeCircle},
			"parking":       {Color: "#059669", Glyph: "🅿️", Label: "Parking", Shape: ShapeCircle},
			"seating":       {Color: "#D97706", Glyph: "🪑", Label: "Seating Areas", Shape: ShapeCircle},
			"information":   {Color: "#0891B2", Glyph: "ℹ️", Label: "Information", Shape: ShapeCircle},
		},
	}
}

// InfrastructureStyles returns the closed infrastructure table
func InfrastructureStyles() StyleTable {
	return StyleTable{
		Styles: map[string]Style{
			string(core.InfraBarricade): {Color: "#FF6B35", Glyph: "🚧", Label: "Road Closures", Shape: ShapeStriped},
			string(core.InfraDetour):    {Color: "#FF8C00", Glyph: "➡️", Label: "Detour Signs", Shape: ShapeDiamond},
			string(core.InfraSeating):   {Color: "#C58C07", Glyph: "🪑", Label: "Seating Areas", Shape: ShapeCircle},
			string(core.InfraTrash):     {Color: "#DADCDE", Glyph: "🗑️", Label: "Trash Cans", Shape: ShapeCircle},
			string(core.InfraSecurity):  {Color: "#00208D", Glyph: "👮", Label: "Security", Shape: ShapeCircle},
			string(core.InfraParking):   {Color: "#007AFF", Glyph: "🅿️", Label: "Parking", Shape: ShapeCircle},
			string(core.InfraRestrooms): {Color: "#6B7280", Glyph: "🚻", Label: "Restrooms", Shape: ShapeCircle},
			string(core.InfraFirstAid):  {Color: "#EF4444", Glyph: "🏥", Label: "First Aid", Shape: ShapeCircle},
		},
	}
}
