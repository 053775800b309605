package render

import "github.com/eastwood-fallfest/festmap/pkg/core"

// InfrastructurePresenter renders infrastructure markers, branching on the
// shape of each type's style.
type InfrastructurePresenter struct {
	Styles StyleTable
}

func NewInfrastructurePresenter() InfrastructurePresenter {
	return InfrastructurePresenter{Styles: InfrastructureStyles()}
}

func (p InfrastructurePresenter) Icon(item core.InfrastructureItem) Icon {
	return ShapedIcon(string(item.Type), p.Styles.Lookup(string(item.Type)))
}

// Popup shows the item name with its shaped badge, its description and the
// current position. The position line is what changes after a drag.
func (p InfrastructurePresenter) Popup(item core.InfrastructureItem) Popup {
	style := p.Styles.Lookup(string(item.Type))

	header := ShapedIcon(string(item.Type), style)
	if header.Shape == ShapeStriped {
		header.Size = [2]int{32, 20}
		header.Anchor = [2]int{16, 10}
	} else {
		header = headerIcon(header, 32)
	}

	return Popup{
		EntityID:    item.ID,
		Title:       item.Name,
		Header:      header,
		Badges:      []Badge{{Label: style.Label, Color: style.Color}},
		Description: item.Description,
		Fields:      []Field{coordinatesField(item.Coordinates)},
		Position:    item.Coordinates,
		MaxWidth:    250,
		ClassName:   "infrastructure-popup",
	}
}
