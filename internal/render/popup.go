package render

import "github.com/eastwood-fallfest/festmap/pkg/core"

// ActionViewDetails opens the full detail view for an entity.
const ActionViewDetails = "view-details"

// Popup is a structured popup description. It carries the entity id so any
// button inside it can be routed back through the owning registry.
type Popup struct {
	EntityID    string      `json:"entityId"`
	Title       string      `json:"title"`
	Header      Icon        `json:"header"`
	Badges      []Badge     `json:"badges,omitempty"`
	Description string      `json:"description,omitempty"`
	Fields      []Field     `json:"fields,omitempty"`
	Tags        []TagGroup  `json:"tags,omitempty"`
	Links       []Link      `json:"links,omitempty"`
	Position    core.LatLng `json:"position"`
	Action      *Action     `json:"action,omitempty"`
	MaxWidth    int         `json:"maxWidth"`
	ClassName   string      `json:"className"`
	Fallback    bool        `json:"fallback,omitempty"`
}

// Badge is a small colored pill next to the title
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Field is a labelled detail line
type Field struct {
	Glyph string `json:"glyph,omitempty"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// TagGroup is a labelled list of chips, e.g. dietary options
type TagGroup struct {
	Glyph  string   `json:"glyph,omitempty"`
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Link is an outbound contact link
type Link struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Action is a button inside a popup
type Action struct {
	Kind     string `json:"kind"`
	EntityID string `json:"entityId"`
	Label    string `json:"label"`
	Color    string `json:"color,omitempty"`
}

// FallbackPopup is shown when building the real popup failed.
func FallbackPopup(id, name string) Popup {
	return Popup{
		EntityID:  id,
		Title:     name,
		MaxWidth:  250,
		ClassName: "fallback-popup",
		Fallback:  true,
	}
}

func headerIcon(icon Icon, size int) Icon {
	icon.Size = [2]int{size, size}
	icon.Anchor = [2]int{size / 2, size / 2}
	return icon
}

func coordinatesField(p core.LatLng) Field {
	return Field{Glyph: "📍", Label: "Location", Value: p.String()}
}
