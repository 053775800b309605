package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVendor() Vendor {
	return Vendor{
		ID:             "food-001",
		Name:           "Taco Stand",
		Type:           VendorTypeVendor,
		Category:       "food",
		Description:    "Street tacos",
		Coordinates:    NewLatLng(36.1888487, -86.7383314),
		DietaryOptions: []string{"vegetarian"},
		Contact:        &Contact{Email: "tacos@example.com"},
	}
}

func TestLatLng(t *testing.T) {
	p := NewLatLng(36.1888487, -86.7383314)
	assert.Equal(t, 36.1888487, p.Lat())
	assert.Equal(t, -86.7383314, p.Lng())
	assert.Equal(t, "36.1888487,-86.7383314", p.String())

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[36.1888487,-86.7383314]`, string(raw))
}

func TestVendor_SearchText(t *testing.T) {
	assert.Equal(t, "Taco Stand Street tacos food", testVendor().SearchText())
}

func TestVendor_Clone(t *testing.T) {
	v := testVendor()
	c := v.Clone()
	c.DietaryOptions[0] = "vegan"
	c.Contact.Email = "other@example.com"

	assert.Equal(t, "vegetarian", v.DietaryOptions[0])
	assert.Equal(t, "tacos@example.com", v.Contact.Email)
}

func TestVendorPatch_Apply(t *testing.T) {
	v := testVendor()
	name := "Taco Truck"
	featured := true
	p := VendorPatch{Name: &name, Featured: &featured, Features: []string{"late night"}}

	out := p.Apply(v)
	assert.Equal(t, "Taco Truck", out.Name)
	assert.True(t, out.Featured)
	assert.Equal(t, []string{"late night"}, out.Features)
	assert.Equal(t, v.ID, out.ID)
	assert.Equal(t, v.Category, out.Category)
	assert.Equal(t, v.Coordinates, out.Coordinates)

	assert.Equal(t, "Taco Stand", v.Name, "original untouched")
	assert.Nil(t, v.Features)
}

func TestVendorPatch_ApplyEmpty(t *testing.T) {
	v := testVendor()
	assert.Equal(t, v, VendorPatch{}.Apply(v))
}

func TestInfrastructureType_Valid(t *testing.T) {
	for _, typ := range InfrastructureTypes {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, InfrastructureType("stage").Valid())
	assert.False(t, InfrastructureType("").Valid())
}

func TestInfrastructureItem_Entity(t *testing.T) {
	item := InfrastructureItem{ID: "restrooms-001", Name: "Restrooms", Type: InfraRestrooms}
	assert.Equal(t, "restrooms", item.EntityType())
	assert.Equal(t, "restrooms", item.EntityCategory())
	assert.False(t, item.IsFeatured())

	moved := item.WithPosition(NewLatLng(1, 2))
	assert.Equal(t, NewLatLng(1, 2), moved.Position())
	assert.Equal(t, LatLng{}, item.Position())
}

func TestInfrastructurePatch_Apply(t *testing.T) {
	item := InfrastructureItem{ID: "detour-001", Name: "Detour", Type: InfraDetour}
	typ := InfraBarricade
	p := InfrastructurePatch{Type: &typ}

	out := p.Apply(item)
	assert.Equal(t, InfraBarricade, out.Type)
	assert.Equal(t, "Detour", out.Name)
	assert.Equal(t, InfraDetour, item.Type)
}

func TestPreferences_Clone(t *testing.T) {
	p := DefaultPreferences()
	p.Favorites = append(p.Favorites, "food-001")

	c := p.Clone()
	c.Favorites[0] = "arts-001"
	assert.Equal(t, "food-001", p.Favorites[0])
	assert.Equal(t, "light", c.Theme)
}

func TestSnapshot_Clone(t *testing.T) {
	s := Snapshot{ID: "s1", Vendors: []Vendor{testVendor()}}
	c := s.Clone()
	c.Vendors[0].DietaryOptions[0] = "vegan"
	c.Vendors[0].Name = "Other"

	assert.Equal(t, "vegetarian", s.Vendors[0].DietaryOptions[0])
	assert.Equal(t, "Taco Stand", s.Vendors[0].Name)
	assert.Nil(t, c.Infrastructure)
}
