package controller

import (
	"fmt"

	"github.com/eastwood-fallfest/festmap/internal/geo"
	"github.com/eastwood-fallfest/festmap/internal/registry"
	"github.com/eastwood-fallfest/festmap/internal/render"
	"github.com/eastwood-fallfest/festmap/internal/surface"
	"github.com/eastwood-fallfest/festmap/pkg/streaming"
)

// GestureResult reports what a replayed gesture did.
type GestureResult struct {
	Selected string   `json:"selected,omitempty"`
	Capture  *Capture `json:"capture,omitempty"`
}

// SetDevMode switches drag mode on both registries. Leaving dev mode
// clears the last capture but keeps the capture history.
func (c *Controller) SetDevMode(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vendors.SetDragMode(enabled)
	c.infra.SetDragMode(enabled)
	c.devMode = enabled
	c.log.Info("dev mode changed", "enabled", enabled)
}

// DevMode reports whether dev mode is on.
func (c *Controller) DevMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.devMode
}

// Captures returns the retained dev mode captures, oldest first.
func (c *Controller) Captures() []Capture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captures.Items()
}

// DrainCaptures returns and forgets the retained captures.
func (c *Controller) DrainCaptures() []Capture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captures.Drain()
}

// LastCapture returns the most recent capture of the current dev session.
func (c *Controller) LastCapture() (Capture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastCapture == nil {
		return Capture{}, false
	}
	return *c.lastCapture, true
}

// Gesture replays a browser interaction on the surface. kind is one of the
// streaming marker message types. A vendor click marks the vendor visited
// for session when session is not empty.
func (c *Controller) Gesture(session, kind string, g streaming.GesturePayload) (GestureResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deps.Gestures == nil {
		return GestureResult{}, ErrNoGestures
	}
	if g.Layer != registry.VendorLayer && g.Layer != registry.InfrastructureLayer {
		return GestureResult{}, fmt.Errorf("%w: %q", ErrUnknownLayer, g.Layer)
	}

	switch kind {
	case streaming.TypeMarkerClick:
		c.clicked = ""
		if !c.deps.Gestures.Fire(g.Layer, g.Key, surface.EventClick) {
			return GestureResult{}, fmt.Errorf("%w: %s %q", ErrUnknownEntity, g.Layer, g.Key)
		}
		if c.clicked == "" {
			return GestureResult{}, nil
		}
		if session != "" {
			if err := c.markVisitedLocked(session, c.clicked); err != nil {
				return GestureResult{}, err
			}
		}
		return GestureResult{Selected: c.clicked}, nil

	case streaming.TypeMarkerHover:
		ev := surface.EventMouseOver
		if g.Hover == streaming.HoverOut {
			ev = surface.EventMouseOut
		}
		if !c.deps.Gestures.Fire(g.Layer, g.Key, ev) {
			return GestureResult{}, fmt.Errorf("%w: %s %q", ErrUnknownEntity, g.Layer, g.Key)
		}
		return GestureResult{}, nil

	case streaming.TypeMarkerDragEnd:
		if g.LatLng == nil {
			return GestureResult{}, fmt.Errorf("%w: dragend without latlng", ErrInvalidArgument)
		}
		if !geo.Valid(*g.LatLng) {
			return GestureResult{}, fmt.Errorf("%w: dragend to %s: %v", ErrInvalidArgument, *g.LatLng, geo.ErrInvalidCoordinates)
		}
		before := c.captures.Len() + c.captures.Dropped()
		if !c.deps.Gestures.DragTo(g.Layer, g.Key, *g.LatLng) {
			return GestureResult{}, fmt.Errorf("%w: %s %q", ErrNotDraggable, g.Layer, g.Key)
		}
		if c.captures.Len()+c.captures.Dropped() == before {
			return GestureResult{}, nil
		}
		last, _ := c.captures.Last()
		return GestureResult{Capture: &last}, nil
	}
	return GestureResult{}, fmt.Errorf("%w: gesture %q", ErrInvalidArgument, kind)
}

// PopupAction routes a popup button press to the registry owning the
// entity.
func (c *Controller) PopupAction(a streaming.PopupActionPayload) (GestureResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	action := render.Action{Kind: a.Kind, EntityID: a.EntityID}
	var ok bool
	switch a.Layer {
	case registry.VendorLayer, "":
		ok = c.vendors.TriggerAction(action)
	case registry.InfrastructureLayer:
		ok = c.infra.TriggerAction(action)
	default:
		return GestureResult{}, fmt.Errorf("%w: %q", ErrUnknownLayer, a.Layer)
	}
	if !ok {
		return GestureResult{}, fmt.Errorf("%w: action %q on %q", ErrUnknownEntity, a.Kind, a.EntityID)
	}
	return GestureResult{Selected: c.selected}, nil
}
