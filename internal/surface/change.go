package surface

import (
	"github.com/eastwood-fallfest/festmap/internal/render"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// ChangeKind names a visible surface mutation
type ChangeKind string

const (
	ChangeMarkerShown   ChangeKind = "marker_shown"
	ChangeMarkerHidden  ChangeKind = "marker_hidden"
	ChangeMarkerMoved   ChangeKind = "marker_moved"
	ChangePopupUpdated  ChangeKind = "popup_updated"
	ChangePopupOpened   ChangeKind = "popup_opened"
	ChangePopupClosed   ChangeKind = "popup_closed"
	ChangeCursor        ChangeKind = "cursor"
	ChangeDraggable     ChangeKind = "draggable"
	ChangeLayerAttached ChangeKind = "layer_attached"
	ChangeLayerDetached ChangeKind = "layer_detached"
	ChangeView          ChangeKind = "view"
)

// Change is one observable mutation of a Memory surface. Only the fields
// relevant to Kind are set.
type Change struct {
	Kind         ChangeKind    `json:"kind"`
	Layer        string        `json:"layer,omitempty"`
	Key          string        `json:"key,omitempty"`
	LatLng       core.LatLng   `json:"latlng,omitempty"`
	Icon         *render.Icon  `json:"icon,omitempty"`
	Popup        *render.Popup `json:"popup,omitempty"`
	Cursor       string        `json:"cursor,omitempty"`
	Draggable    bool          `json:"draggable,omitempty"`
	ZIndexOffset int           `json:"zIndexOffset,omitempty"`
	Zoom         int           `json:"zoom,omitempty"`
}

// Observer receives changes after the surface has released its lock.
type Observer func(Change)
