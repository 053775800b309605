package render

import "github.com/eastwood-fallfest/festmap/pkg/core"

// VendorPresenter renders vendor markers from the vendor style table
type VendorPresenter struct {
	Styles StyleTable
}

// NewVendorPresenter returns a presenter over the default vendor styles.
func NewVendorPresenter() VendorPresenter {
	return VendorPresenter{Styles: VendorStyles()}
}

// Icon returns the circular category icon for v.
func (p VendorPresenter) Icon(v core.Vendor) Icon {
	return CircleIcon(v.Category, p.Styles.Lookup(v.Category))
}

// Popup builds the vendor detail card.
func (p VendorPresenter) Popup(v core.Vendor) Popup {
	style := p.Styles.Lookup(v.Category)

	popup := Popup{
		EntityID:    v.ID,
		Title:       v.Name,
		Header:      headerIcon(CircleIcon(v.Category, style), 40),
		Description: v.Description,
		Position:    v.Coordinates,
		MaxWidth:    300,
		ClassName:   "vendor-popup",
		Badges: []Badge{
			{Label: style.Label, Color: style.Color},
			{Label: "🟢 Available", Color: "#10b981"},
		},
		Action: &Action{
			Kind:     ActionViewDetails,
			EntityID: v.ID,
			Label:    "View Details",
			Color:    style.Color,
		},
	}

	if v.Featured {
		popup.Badges = append(popup.Badges, Badge{Label: "⭐ Featured", Color: "#F59E0B"})
	}
	if v.AgeRequirements != "" {
		popup.Fields = append(popup.Fields, Field{Glyph: "👶", Label: "Age Requirements", Value: v.AgeRequirements})
	}
	if v.Capacity != "" {
		popup.Fields = append(popup.Fields, Field{Glyph: "👥", Label: "Capacity", Value: v.Capacity})
	}
	if v.SafetyInfo != "" {
		popup.Fields = append(popup.Fields, Field{Glyph: "🦺", Label: "Safety", Value: v.SafetyInfo})
	}
	if v.Accessibility != "" {
		popup.Fields = append(popup.Fields, Field{Glyph: "♿", Label: "Accessibility", Value: v.Accessibility})
	}
	if len(v.DietaryOptions) > 0 {
		popup.Tags = append(popup.Tags, TagGroup{Glyph: "🥗", Label: "Dietary Options", Values: append([]string(nil), v.DietaryOptions...)})
	}
	if len(v.Features) > 0 {
		popup.Tags = append(popup.Tags, TagGroup{Glyph: "✨", Label: "Features", Values: append([]string(nil), v.Features...)})
	}
	if len(v.SpecialOffers) > 0 {
		popup.Tags = append(popup.Tags, TagGroup{Glyph: "🏷️", Label: "Special Offers", Values: append([]string(nil), v.SpecialOffers...)})
	}
	if v.Contact != nil {
		if v.Contact.Email != "" {
			popup.Links = append(popup.Links, Link{Kind: "email", Label: "📧 " + v.Contact.Email, Href: "mailto:" + v.Contact.Email})
		}
		if v.Contact.Website != "" {
			popup.Links = append(popup.Links, Link{Kind: "website", Label: "🌐 " + v.Contact.Website, Href: "https://" + v.Contact.Website})
		}
	}

	return popup
}
