// pkg/core/vendor.go
package core

import "strings"

// VendorType distinguishes vendors from activities and amenities
type VendorType string

const (
	VendorTypeVendor   VendorType = "vendor"
	VendorTypeActivity VendorType = "activity"
	VendorTypeAmenity  VendorType = "amenity"
)

// Vendor is a food, arts, activity, or amenity entry on the festival map.
// Category is an open-ended key into the vendor style table.
type Vendor struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Type            VendorType `json:"type" yaml:"type"`
	Category        string     `json:"category" yaml:"category"`
	Description     string     `json:"description" yaml:"description"`
	Area            string     `json:"area,omitempty" yaml:"area,omitempty"`
	Coordinates     LatLng     `json:"coordinates" yaml:"coordinates,flow"`
	Image           string     `json:"image,omitempty" yaml:"image,omitempty"`
	DetailImage     string     `json:"detailImage,omitempty" yaml:"detailImage,omitempty"`
	AgeRequirements string     `json:"ageRequirements,omitempty" yaml:"ageRequirements,omitempty"`
	Capacity        string     `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	SafetyInfo      string     `json:"safetyInfo,omitempty" yaml:"safetyInfo,omitempty"`
	Accessibility   string     `json:"accessibility,omitempty" yaml:"accessibility,omitempty"`
	DietaryOptions  []string   `json:"dietaryOptions,omitempty" yaml:"dietaryOptions,omitempty"`
	Features        []string   `json:"features,omitempty" yaml:"features,omitempty"`
	SpecialOffers   []string   `json:"specialOffers,omitempty" yaml:"specialOffers,omitempty"`
	Contact         *Contact   `json:"contact,omitempty" yaml:"contact,omitempty"`
	Featured        bool       `json:"featured,omitempty" yaml:"featured,omitempty"`
}

func (v Vendor) EntityID() string       { return v.ID }
func (v Vendor) EntityType() string     { return string(v.Type) }
func (v Vendor) EntityCategory() string { return v.Category }
func (v Vendor) DisplayName() string    { return v.Name }
func (v Vendor) Position() LatLng       { return v.Coordinates }
func (v Vendor) IsFeatured() bool       { return v.Featured }

// SearchText is the text free-form search matches against: name, description
// and category joined by spaces.
func (v Vendor) SearchText() string {
	return strings.Join([]string{v.Name, v.Description, v.Category}, " ")
}

// WithPosition returns a copy of the vendor moved to p.
func (v Vendor) WithPosition(p LatLng) Vendor {
	v.Coordinates = p
	return v
}

// Clone returns a deep copy that shares no slices or pointers with v.
func (v Vendor) Clone() Vendor {
	out := v
	out.DietaryOptions = cloneStrings(v.DietaryOptions)
	out.Features = cloneStrings(v.Features)
	out.SpecialOffers = cloneStrings(v.SpecialOffers)
	if v.Contact != nil {
		c := *v.Contact
		out.Contact = &c
	}
	return out
}

// VendorPatch is a partial vendor update. Nil fields are left unchanged.
// The ID can never be patched.
type VendorPatch struct {
	Name            *string     `json:"name,omitempty"`
	Type            *VendorType `json:"type,omitempty"`
	Category        *string     `json:"category,omitempty"`
	Description     *string     `json:"description,omitempty"`
	Area            *string     `json:"area,omitempty"`
	Coordinates     *LatLng     `json:"coordinates,omitempty"`
	Image           *string     `json:"image,omitempty"`
	DetailImage     *string     `json:"detailImage,omitempty"`
	AgeRequirements *string     `json:"ageRequirements,omitempty"`
	Capacity        *string     `json:"capacity,omitempty"`
	SafetyInfo      *string     `json:"safetyInfo,omitempty"`
	Accessibility   *string     `json:"accessibility,omitempty"`
	DietaryOptions  []string    `json:"dietaryOptions,omitempty"`
	Features        []string    `json:"features,omitempty"`
	SpecialOffers   []string    `json:"specialOffers,omitempty"`
	Contact         *Contact    `json:"contact,omitempty"`
	Featured        *bool       `json:"featured,omitempty"`
}

// Apply merges the set fields of p into a copy of v.
func (p VendorPatch) Apply(v Vendor) Vendor {
	out := v.Clone()
	setString(&out.Name, p.Name)
	setString(&out.Category, p.Category)
	setString(&out.Description, p.Description)
	setString(&out.Area, p.Area)
	setString(&out.Image, p.Image)
	setString(&out.DetailImage, p.DetailImage)
	setString(&out.AgeRequirements, p.AgeRequirements)
	setString(&out.Capacity, p.Capacity)
	setString(&out.SafetyInfo, p.SafetyInfo)
	setString(&out.Accessibility, p.Accessibility)
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Coordinates != nil {
		out.Coordinates = *p.Coordinates
	}
	if p.DietaryOptions != nil {
		out.DietaryOptions = cloneStrings(p.DietaryOptions)
	}
	if p.Features != nil {
		out.Features = cloneStrings(p.Features)
	}
	if p.SpecialOffers != nil {
		out.SpecialOffers = cloneStrings(p.SpecialOffers)
	}
	if p.Contact != nil {
		c := *p.Contact
		out.Contact = &c
	}
	if p.Featured != nil {
		out.Featured = *p.Featured
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
