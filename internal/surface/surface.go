// Package surface defines the map rendering surface the registries draw on.
// A surface owns layer groups and markers; registries decide which markers
// belong to which group and never touch pixels.
package surface

import (
	"github.com/eastwood-fallfest/festmap/internal/render"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// Event is a marker interaction name
type Event string

const (
	EventClick     Event = "click"
	EventMouseOver Event = "mouseover"
	EventMouseOut  Event = "mouseout"
	EventDragStart Event = "dragstart"
	EventDrag      Event = "drag"
	EventDragEnd   Event = "dragend"
)

// Cursor values used by the registries
const (
	CursorPointer = "pointer"
	CursorMove    = "move"
)

// Handler is invoked synchronously when a marker event fires.
type Handler func(ev Event)

// MarkerOptions describe a marker at creation time
type MarkerOptions struct {
	Key          string
	LatLng       core.LatLng
	Icon         render.Icon
	Popup        render.Popup
	Title        string
	Draggable    bool
	ZIndexOffset int
	RiseOnHover  bool
}

// DragHandle toggles a marker's ability to be dragged.
type DragHandle interface {
	Enable()
	Disable()
	Enabled() bool
}

// Marker is a single point on the surface. Key is the owning entity id.
type Marker interface {
	Key() string
	LatLng() core.LatLng
	SetLatLng(p core.LatLng)
	Icon() render.Icon
	Popup() render.Popup
	SetPopupContent(p render.Popup)
	OpenPopup()
	ClosePopup()
	On(ev Event, h Handler)
	// Off detaches every handler registered for ev.
	Off(ev Event)
	// Dragging returns nil when the marker cannot be dragged at all.
	Dragging() DragHandle
	SetCursor(cursor string)
}

// LayerGroup is a named set of markers drawn together.
type LayerGroup interface {
	Name() string
	AddLayer(m Marker)
	RemoveLayer(m Marker)
	HasLayer(m Marker) bool
	ClearLayers()
	Len() int
}

// Surface is the map itself.
type Surface interface {
	// NewLayerGroup creates an empty group already attached to the surface.
	NewLayerGroup(name string) LayerGroup
	AddLayer(g LayerGroup)
	RemoveLayer(g LayerGroup)
	HasLayer(g LayerGroup) bool
	NewMarker(opts MarkerOptions) Marker
	SetView(center core.LatLng, zoom int)
}
