package render

import (
	"testing"

	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleTable_Lookup(t *testing.T) {
	vendors := VendorStyles()

	assert.Equal(t, "#F59E0B", vendors.Lookup("food").Color)
	assert.Equal(t, vendors.Lookup("services"), vendors.Lookup("no-such-category"))

	infra := InfrastructureStyles()
	assert.Equal(t, neutralStyle, infra.Lookup("hot-air-balloon"))
	for _, typ := range core.InfrastructureTypes {
		_, ok := infra.Styles[string(typ)]
		assert.True(t, ok, "missing style for %s", typ)
	}
}

func TestCircleIcon(t *testing.T) {
	icon := CircleIcon("food", VendorStyles().Lookup("food"))

	assert.Equal(t, ShapeCircle, icon.Shape)
	assert.Equal(t, [2]int{32, 32}, icon.Size)
	assert.Equal(t, [2]int{16, 16}, icon.Anchor)
	assert.Equal(t, [2]int{0, -16}, icon.PopupAnchor)
	assert.Equal(t, "🍔", icon.Glyph)
	assert.Equal(t, "vendor-marker-icon", icon.ClassName)
}

func TestShapedIcon(t *testing.T) {
	styles := InfrastructureStyles()

	tests := []struct {
		typ      core.InfrastructureType
		shape    Shape
		size     [2]int
		anchor   [2]int
		rotation int
		glyph    bool
		color    string
	}{
		{core.InfraBarricade, ShapeStriped, [2]int{40, 20}, [2]int{20, 10}, 0, false, "white"},
		{core.InfraDetour, ShapeDiamond, [2]int{28, 28}, [2]int{14, 14}, 45, true, "black"},
		{core.InfraRestrooms, ShapeCircle, [2]int{32, 32}, [2]int{16, 16}, 0, true, "white"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			icon := ShapedIcon(string(tt.typ), styles.Lookup(string(tt.typ)))
			assert.Equal(t, tt.shape, icon.Shape)
			assert.Equal(t, tt.size, icon.Size)
			assert.Equal(t, tt.anchor, icon.Anchor)
			assert.Equal(t, tt.rotation, icon.Rotation)
			assert.Equal(t, tt.glyph, icon.Glyph != "")
			assert.Equal(t, tt.color, icon.GlyphColor)
			assert.Equal(t, "infrastructure-marker-icon", icon.ClassName)
		})
	}
}

func TestVendorPresenter_Popup(t *testing.T) {
	v := core.Vendor{
		ID:              "food-001",
		Name:            "Harvest Grill",
		Type:            core.VendorTypeVendor,
		Category:        "food",
		Description:     "Burgers",
		Coordinates:     core.NewLatLng(39.7, -105.1),
		AgeRequirements: "All ages",
		DietaryOptions:  []string{"vegan"},
		Contact:         &core.Contact{Email: "grill@example.com", Website: "grill.example.com"},
		Featured:        true,
	}

	popup := NewVendorPresenter().Popup(v)

	assert.Equal(t, "food-001", popup.EntityID)
	assert.Equal(t, "Harvest Grill", popup.Title)
	assert.Equal(t, 300, popup.MaxWidth)
	assert.Equal(t, "vendor-popup", popup.ClassName)
	assert.Equal(t, [2]int{40, 40}, popup.Header.Size)
	require.Len(t, popup.Badges, 3)
	assert.Equal(t, "Food", popup.Badges[0].Label)
	require.Len(t, popup.Fields, 1)
	assert.Equal(t, "All ages", popup.Fields[0].Value)
	require.Len(t, popup.Tags, 1)
	assert.Equal(t, []string{"vegan"}, popup.Tags[0].Values)
	require.Len(t, popup.Links, 2)
	assert.Equal(t, "mailto:grill@example.com", popup.Links[0].Href)
	assert.Equal(t, "https://grill.example.com", popup.Links[1].Href)
	require.NotNil(t, popup.Action)
	assert.Equal(t, ActionViewDetails, popup.Action.Kind)
	assert.Equal(t, "food-001", popup.Action.EntityID)

	// tag values must not alias the entity
	popup.Tags[0].Values[0] = "changed"
	assert.Equal(t, "vegan", v.DietaryOptions[0])
}

func TestVendorPresenter_PopupMinimal(t *testing.T) {
	popup := NewVendorPresenter().Popup(core.Vendor{ID: "x", Name: "X", Category: "mystery"})

	assert.Equal(t, "Services", popup.Badges[0].Label)
	assert.Len(t, popup.Badges, 2)
	assert.Empty(t, popup.Fields)
	assert.Empty(t, popup.Tags)
	assert.Empty(t, popup.Links)
}

func TestInfrastructurePresenter_Popup(t *testing.T) {
	item := core.InfrastructureItem{
		ID:          "bar-1",
		Name:        "Main St Closure",
		Type:        core.InfraBarricade,
		Coordinates: core.NewLatLng(39.75, -105.05),
		Description: "Closed to traffic",
	}
	p := NewInfrastructurePresenter()

	popup := p.Popup(item)
	assert.Equal(t, "Main St Closure", popup.Title)
	assert.Equal(t, 250, popup.MaxWidth)
	assert.Equal(t, "infrastructure-popup", popup.ClassName)
	assert.Equal(t, [2]int{32, 20}, popup.Header.Size)
	require.Len(t, popup.Fields, 1)
	assert.Equal(t, "39.7500000,-105.0500000", popup.Fields[0].Value)
	assert.Nil(t, popup.Action)

	moved := p.Popup(item.WithPosition(core.NewLatLng(39.76, -105.06)))
	assert.Equal(t, "39.7600000,-105.0600000", moved.Fields[0].Value)

	detour := p.Popup(core.InfrastructureItem{ID: "d", Name: "D", Type: core.InfraDetour})
	assert.Equal(t, [2]int{32, 32}, detour.Header.Size)
}

func TestFallbackPopup(t *testing.T) {
	popup := FallbackPopup("x", "Broken")
	assert.True(t, popup.Fallback)
	assert.Equal(t, "Broken", popup.Title)
	assert.Equal(t, "x", popup.EntityID)
}
