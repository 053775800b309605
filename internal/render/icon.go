package render

// Icon describes a marker icon. Size and anchors are in pixels.
type Icon struct {
	Key         string `json:"key"`
	Shape       Shape  `json:"shape"`
	Color       string `json:"color"`
	Glyph       string `json:"glyph,omitempty"`
	GlyphColor  string `json:"glyphColor"`
	Rotation    int    `json:"rotation,omitempty"`
	Size        [2]int `json:"size"`
	Anchor      [2]int `json:"anchor"`
	PopupAnchor [2]int `json:"popupAnchor"`
	ClassName   string `json:"className"`
}

const (
	vendorIconClass = "vendor-marker-icon"
	infraIconClass  = "infrastructure-marker-icon"
)

// CircleIcon is the round marker every vendor uses.
func CircleIcon(key string, s Style) Icon {
	return Icon{
		Key:         key,
		Shape:       ShapeCircle,
		Color:       s.Color,
		Glyph:       s.Glyph,
		GlyphColor:  "white",
		Size:        [2]int{32, 32},
		Anchor:      [2]int{16, 16},
		PopupAnchor: [2]int{0, -16},
		ClassName:   vendorIconClass,
	}
}

// ShapedIcon draws an infrastructure marker according to s.Shape.
func ShapedIcon(key string, s Style) Icon {
	icon := Icon{
		Key:         key,
		Color:       s.Color,
		PopupAnchor: [2]int{0, -16},
		ClassName:   infraIconClass,
	}

	switch s.Shape {
	case ShapeStriped:
		// barricades carry no glyph, the stripes are the signal
		icon.Shape = ShapeStriped
		icon.GlyphColor = "white"
		icon.Size = [2]int{40, 20}
		icon.Anchor = [2]int{20, 10}
	case ShapeDiamond:
		icon.Shape = ShapeDiamond
		icon.Glyph = s.Glyph
		icon.GlyphColor = "black"
		icon.Rotation = 45
		icon.Size = [2]int{28, 28}
		icon.Anchor = [2]int{14, 14}
	default:
		icon.Shape = ShapeCircle
		icon.Glyph = s.Glyph
		icon.GlyphColor = "white"
		icon.Size = [2]int{32, 32}
		icon.Anchor = [2]int{16, 16}
	}

	return icon
}
