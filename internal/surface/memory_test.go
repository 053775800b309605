package surface

import (
	"sync"
	"testing"

	"github.com/eastwood-fallfest/festmap/internal/render"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) observe(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) kinds() []ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]ChangeKind, len(r.changes))
	for i, c := range r.changes {
		kinds[i] = c.Kind
	}
	return kinds
}

func newMarker(m *Memory, key string) Marker {
	return m.NewMarker(MarkerOptions{
		Key:    key,
		LatLng: core.NewLatLng(36.18, -86.73),
		Popup:  render.Popup{EntityID: key, Title: key},
	})
}

func TestMemory_LayerGroupMembership(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	g := m.NewLayerGroup("vendors")

	assert.True(t, m.HasLayer(g))
	assert.True(t, m.Attached("vendors"))

	a := newMarker(m, "a")
	b := newMarker(m, "b")
	g.AddLayer(a)
	g.AddLayer(b)
	g.AddLayer(a)

	assert.Equal(t, 2, g.Len())
	assert.True(t, g.HasLayer(a))
	assert.Equal(t, []string{"a", "b"}, m.Keys("vendors"))

	g.RemoveLayer(a)
	assert.False(t, g.HasLayer(a))
	assert.Equal(t, []string{"b"}, m.Keys("vendors"))

	g.ClearLayers()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, m.Keys("vendors"))
}

func TestMemory_ReplacementMarkerKeepsIndex(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	g := m.NewLayerGroup("vendors")

	old := newMarker(m, "a")
	g.AddLayer(old)
	replacement := newMarker(m, "a")
	g.AddLayer(replacement)
	g.RemoveLayer(old)

	got, ok := m.Marker("vendors", "a")
	require.True(t, ok)
	assert.Same(t, replacement, got)
}

func TestMemory_AttachDetach(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	rec := &recorder{}
	cancel := m.Subscribe(rec.observe)
	defer cancel()

	g := m.NewLayerGroup("infrastructure")
	g.AddLayer(newMarker(m, "x"))
	m.RemoveLayer(g)
	m.RemoveLayer(g)
	assert.False(t, m.HasLayer(g))

	// membership survives detaching
	assert.Equal(t, 1, g.Len())

	m.AddLayer(g)
	assert.Equal(t, []ChangeKind{
		ChangeLayerAttached,
		ChangeMarkerShown,
		ChangeLayerDetached,
		ChangeLayerAttached,
		ChangeMarkerShown,
	}, rec.kinds())
}

func TestMemory_HiddenMarkersAreSilent(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	rec := &recorder{}
	m.Subscribe(rec.observe)

	mk := newMarker(m, "a")
	mk.SetLatLng(core.NewLatLng(1, 2))
	mk.SetCursor(CursorMove)
	mk.OpenPopup()

	assert.Empty(t, rec.kinds())
	assert.Equal(t, core.NewLatLng(1, 2), mk.LatLng())
}

func TestMemory_FireAndOff(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	g := m.NewLayerGroup("vendors")
	mk := newMarker(m, "a")
	g.AddLayer(mk)

	var clicks, hovers int
	mk.On(EventClick, func(Event) { clicks++ })
	mk.On(EventMouseOver, func(Event) { hovers++ })

	assert.True(t, m.Fire("vendors", "a", EventClick))
	assert.True(t, m.Fire("vendors", "a", EventMouseOver))
	assert.False(t, m.Fire("vendors", "missing", EventClick))

	mk.Off(EventMouseOver)
	m.Fire("vendors", "a", EventMouseOver)

	assert.Equal(t, 1, clicks)
	assert.Equal(t, 1, hovers)
	assert.Equal(t, 0, mk.(*MemoryMarker).Handlers(EventMouseOver))
}

func TestMemory_HandlersMayCallBack(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	g := m.NewLayerGroup("vendors")
	mk := newMarker(m, "a")
	g.AddLayer(mk)

	mk.On(EventClick, func(Event) {
		mk.OpenPopup()
		g.RemoveLayer(mk)
	})
	m.Fire("vendors", "a", EventClick)

	assert.Equal(t, 0, g.Len())
}

func TestMemory_DragTo(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	g := m.NewLayerGroup("vendors")
	mk := newMarker(m, "a")
	g.AddLayer(mk)

	target := core.NewLatLng(36.19, -86.74)
	assert.False(t, m.DragTo("vendors", "a", target), "dragging disabled")

	require.NotNil(t, mk.Dragging())
	mk.Dragging().Enable()
	assert.True(t, mk.Dragging().Enabled())

	var seen []Event
	var endPos core.LatLng
	for _, ev := range []Event{EventDragStart, EventDrag, EventDragEnd} {
		mk.On(ev, func(ev Event) {
			seen = append(seen, ev)
			if ev == EventDragEnd {
				endPos = mk.LatLng()
			}
		})
	}

	assert.True(t, m.DragTo("vendors", "a", target))
	assert.Equal(t, []Event{EventDragStart, EventDrag, EventDragEnd}, seen)
	assert.Equal(t, target, endPos)
}

func TestMemory_NoDrag(t *testing.T) {
	m := NewMemory(MemoryOptions{NoDrag: true})
	g := m.NewLayerGroup("vendors")
	mk := m.NewMarker(MarkerOptions{Key: "a", Draggable: true})
	g.AddLayer(mk)

	assert.Nil(t, mk.Dragging())
	assert.False(t, m.DragTo("vendors", "a", core.NewLatLng(1, 1)))
}

func TestMemory_PopupAndView(t *testing.T) {
	m := NewMemory(MemoryOptions{Center: core.NewLatLng(36, -86), Zoom: 15})
	g := m.NewLayerGroup("vendors")
	mk := newMarker(m, "a")
	g.AddLayer(mk)

	mk.SetPopupContent(render.Popup{EntityID: "a", Title: "Updated"})
	mk.OpenPopup()
	assert.True(t, mk.(*MemoryMarker).PopupOpen())
	assert.Equal(t, "Updated", mk.Popup().Title)

	mk.ClosePopup()
	assert.False(t, mk.(*MemoryMarker).PopupOpen())

	center, zoom := m.View()
	assert.Equal(t, core.NewLatLng(36, -86), center)
	assert.Equal(t, 15, zoom)

	m.SetView(core.NewLatLng(1, 2), 17)
	center, zoom = m.View()
	assert.Equal(t, core.NewLatLng(1, 2), center)
	assert.Equal(t, 17, zoom)
}

func TestMemory_Snapshot(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	vendors := m.NewLayerGroup("vendors")
	infra := m.NewLayerGroup("infrastructure")
	vendors.AddLayer(newMarker(m, "b"))
	vendors.AddLayer(newMarker(m, "a"))
	infra.AddLayer(newMarker(m, "x"))
	m.RemoveLayer(infra)

	snap := m.Snapshot()
	require.Len(t, snap, 4)
	assert.Equal(t, ChangeView, snap[0].Kind)
	assert.Equal(t, ChangeLayerAttached, snap[1].Kind)
	assert.Equal(t, "vendors", snap[1].Layer)
	assert.Equal(t, "a", snap[2].Key)
	assert.Equal(t, "b", snap[3].Key)
	require.NotNil(t, snap[2].Popup)
	assert.Equal(t, "a", snap[2].Popup.EntityID)
}

func TestMemory_Unsubscribe(t *testing.T) {
	m := NewMemory(MemoryOptions{})
	rec := &recorder{}
	cancel := m.Subscribe(rec.observe)
	cancel()

	m.NewLayerGroup("vendors")
	assert.Empty(t, rec.kinds())
}
