package surface

import (
	"sort"
	"sync"

	"github.com/eastwood-fallfest/festmap/internal/render"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// MemoryOptions configure a Memory surface
type MemoryOptions struct {
	Center core.LatLng
	Zoom   int
	// NoDrag creates markers without drag support, Dragging returns nil.
	NoDrag bool
}

// Memory is an in-process Surface. It keeps the full drawn state, lets
// callers fire gestures at markers and publishes every visible mutation to
// its observers.
type Memory struct {
	opts MemoryOptions

	mu     sync.Mutex
	center core.LatLng
	zoom   int
	groups map[string]*MemoryGroup

	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObs   int
}

// NewMemory creates an empty surface.
func NewMemory(opts MemoryOptions) *Memory {
	return &Memory{
		opts:      opts,
		center:    opts.Center,
		zoom:      opts.Zoom,
		groups:    make(map[string]*MemoryGroup),
		observers: make(map[int]Observer),
	}
}

// Subscribe registers fn for future changes. The returned func unsubscribes.
func (m *Memory) Subscribe(fn Observer) func() {
	m.obsMu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	m.obsMu.Unlock()

	return func() {
		m.obsMu.Lock()
		delete(m.observers, id)
		m.obsMu.Unlock()
	}
}

func (m *Memory) notify(changes []Change) {
	if len(changes) == 0 {
		return
	}
	m.obsMu.RLock()
	observers := make([]Observer, 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	m.obsMu.RUnlock()

	for _, c := range changes {
		for _, fn := range observers {
			fn(c)
		}
	}
}

func (m *Memory) NewLayerGroup(name string) LayerGroup {
	m.mu.Lock()
	g := &MemoryGroup{
		mem:      m,
		name:     name,
		attached: true,
		members:  make(map[*MemoryMarker]struct{}),
		byKey:    make(map[string]*MemoryMarker),
	}
	m.groups[name] = g
	m.mu.Unlock()

	m.notify([]Change{{Kind: ChangeLayerAttached, Layer: name}})
	return g
}

func (m *Memory) AddLayer(lg LayerGroup) {
	g, ok := lg.(*MemoryGroup)
	if !ok {
		return
	}
	m.mu.Lock()
	if g.attached {
		m.mu.Unlock()
		return
	}
	g.attached = true
	changes := append([]Change{{Kind: ChangeLayerAttached, Layer: g.name}}, g.shownLocked()...)
	m.mu.Unlock()

	m.notify(changes)
}

func (m *Memory) RemoveLayer(lg LayerGroup) {
	g, ok := lg.(*MemoryGroup)
	if !ok {
		return
	}
	m.mu.Lock()
	if !g.attached {
		m.mu.Unlock()
		return
	}
	g.attached = false
	m.mu.Unlock()

	m.notify([]Change{{Kind: ChangeLayerDetached, Layer: g.name}})
}

func (m *Memory) HasLayer(lg LayerGroup) bool {
	g, ok := lg.(*MemoryGroup)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return g.attached
}

func (m *Memory) NewMarker(opts MarkerOptions) Marker {
	mk := &MemoryMarker{
		mem:      m,
		key:      opts.Key,
		pos:      opts.LatLng,
		icon:     opts.Icon,
		popup:    opts.Popup,
		title:    opts.Title,
		zIndex:   opts.ZIndexOffset,
		cursor:   CursorPointer,
		handlers: make(map[Event][]Handler),
	}
	if !m.opts.NoDrag {
		mk.drag = &memoryDrag{marker: mk, enabled: opts.Draggable}
	}
	return mk
}

func (m *Memory) SetView(center core.LatLng, zoom int) {
	m.mu.Lock()
	m.center = center
	m.zoom = zoom
	m.mu.Unlock()

	m.notify([]Change{{Kind: ChangeView, LatLng: center, Zoom: zoom}})
}

// View returns the current map center and zoom.
func (m *Memory) View() (core.LatLng, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center, m.zoom
}

// Attached reports whether the named layer group is on the map.
func (m *Memory) Attached(layer string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[layer]
	return ok && g.attached
}

// Keys returns the sorted marker keys currently in the named group,
// regardless of whether the group is attached.
func (m *Memory) Keys(layer string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[layer]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(g.byKey))
	for k := range g.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marker looks up the marker with key inside the named group.
func (m *Memory) Marker(layer, key string) (*MemoryMarker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupLocked(layer, key)
}

func (m *Memory) lookupLocked(layer, key string) (*MemoryMarker, bool) {
	g, ok := m.groups[layer]
	if !ok {
		return nil, false
	}
	mk, ok := g.byKey[key]
	return mk, ok
}

// Fire delivers ev to the handlers of the marker with key in layer.
// Returns false when no such marker is drawn.
func (m *Memory) Fire(layer, key string, ev Event) bool {
	m.mu.Lock()
	mk, ok := m.lookupLocked(layer, key)
	m.mu.Unlock()
	if !ok {
		return false
	}
	mk.fire(ev)
	return true
}

// DragTo simulates a full drag gesture ending at p. Returns false when the
// marker is missing or dragging is not enabled for it.
func (m *Memory) DragTo(layer, key string, p core.LatLng) bool {
	m.mu.Lock()
	mk, ok := m.lookupLocked(layer, key)
	if !ok || mk.drag == nil || !mk.drag.enabled {
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()

	mk.fire(EventDragStart)
	mk.SetLatLng(p)
	mk.fire(EventDrag)
	mk.fire(EventDragEnd)
	return true
}

// Snapshot describes every attached group and its markers as a change list,
// suitable for bringing a new observer up to date.
func (m *Memory) Snapshot() []Change {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.groups))
	for name := range m.groups {
		names = append(names, name)
	}
	sort.Strings(names)

	changes := []Change{{Kind: ChangeView, LatLng: m.center, Zoom: m.zoom}}
	for _, name := range names {
		g := m.groups[name]
		if !g.attached {
			continue
		}
		changes = append(changes, Change{Kind: ChangeLayerAttached, Layer: name})
		changes = append(changes, g.shownLocked()...)
	}
	return changes
}

// MemoryGroup is the Memory implementation of LayerGroup
type MemoryGroup struct {
	mem      *Memory
	name     string
	attached bool
	members  map[*MemoryMarker]struct{}
	byKey    map[string]*MemoryMarker
}

func (g *MemoryGroup) Name() string { return g.name }

func (g *MemoryGroup) AddLayer(m Marker) {
	mk, ok := m.(*MemoryMarker)
	if !ok {
		return
	}
	g.mem.mu.Lock()
	if _, exists := g.members[mk]; exists {
		g.mem.mu.Unlock()
		return
	}
	g.members[mk] = struct{}{}
	g.byKey[mk.key] = mk
	mk.group = g
	var changes []Change
	if g.attached {
		changes = append(changes, mk.shownLocked())
	}
	g.mem.mu.Unlock()

	g.mem.notify(changes)
}

func (g *MemoryGroup) RemoveLayer(m Marker) {
	mk, ok := m.(*MemoryMarker)
	if !ok {
		return
	}
	g.mem.mu.Lock()
	changes := g.removeLocked(mk)
	g.mem.mu.Unlock()

	g.mem.notify(changes)
}

func (g *MemoryGroup) removeLocked(mk *MemoryMarker) []Change {
	if _, exists := g.members[mk]; !exists {
		return nil
	}
	delete(g.members, mk)
	if g.byKey[mk.key] == mk {
		delete(g.byKey, mk.key)
	}
	if mk.group == g {
		mk.group = nil
	}
	mk.popupOpen = false
	if !g.attached {
		return nil
	}
	return []Change{{Kind: ChangeMarkerHidden, Layer: g.name, Key: mk.key}}
}

func (g *MemoryGroup) HasLayer(m Marker) bool {
	mk, ok := m.(*MemoryMarker)
	if !ok {
		return false
	}
	g.mem.mu.Lock()
	defer g.mem.mu.Unlock()
	_, exists := g.members[mk]
	return exists
}

func (g *MemoryGroup) ClearLayers() {
	g.mem.mu.Lock()
	var changes []Change
	for mk := range g.members {
		changes = append(changes, g.removeLocked(mk)...)
	}
	g.mem.mu.Unlock()

	g.mem.notify(changes)
}

func (g *MemoryGroup) Len() int {
	g.mem.mu.Lock()
	defer g.mem.mu.Unlock()
	return len(g.members)
}

func (g *MemoryGroup) shownLocked() []Change {
	keys := make([]string, 0, len(g.byKey))
	for k := range g.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	changes := make([]Change, 0, len(keys))
	for _, k := range keys {
		changes = append(changes, g.byKey[k].shownLocked())
	}
	return changes
}

// MemoryMarker is the Memory implementation of Marker
type MemoryMarker struct {
	mem *Memory

	key       string
	pos       core.LatLng
	icon      render.Icon
	popup     render.Popup
	title     string
	zIndex    int
	cursor    string
	popupOpen bool
	handlers  map[Event][]Handler
	drag      *memoryDrag
	group     *MemoryGroup
}

func (mk *MemoryMarker) Key() string { return mk.key }

func (mk *MemoryMarker) LatLng() core.LatLng {
	mk.mem.mu.Lock()
	defer mk.mem.mu.Unlock()
	return mk.pos
}

func (mk *MemoryMarker) SetLatLng(p core.LatLng) {
	mk.mem.mu.Lock()
	mk.pos = p
	changes := mk.visibleChangeLocked(Change{Kind: ChangeMarkerMoved, LatLng: p})
	mk.mem.mu.Unlock()

	mk.mem.notify(changes)
}

func (mk *MemoryMarker) Icon() render.Icon {
	mk.mem.mu.Lock()
	defer mk.mem.mu.Unlock()
	return mk.icon
}

func (mk *MemoryMarker) Popup() render.Popup {
	mk.mem.mu.Lock()
	defer mk.mem.mu.Unlock()
	return mk.popup
}

func (mk *MemoryMarker) SetPopupContent(p render.Popup) {
	mk.mem.mu.Lock()
	mk.popup = p
	changes := mk.visibleChangeLocked(Change{Kind: ChangePopupUpdated, Popup: &p})
	mk.mem.mu.Unlock()

	mk.mem.notify(changes)
}

func (mk *MemoryMarker) OpenPopup() {
	mk.mem.mu.Lock()
	mk.popupOpen = true
	popup := mk.popup
	changes := mk.visibleChangeLocked(Change{Kind: ChangePopupOpened, Popup: &popup})
	mk.mem.mu.Unlock()

	mk.mem.notify(changes)
}

func (mk *MemoryMarker) ClosePopup() {
	mk.mem.mu.Lock()
	if !mk.popupOpen {
		mk.mem.mu.Unlock()
		return
	}
	mk.popupOpen = false
	changes := mk.visibleChangeLocked(Change{Kind: ChangePopupClosed})
	mk.mem.mu.Unlock()

	mk.mem.notify(changes)
}

// PopupOpen reports whether the popup is currently shown.
func (mk *MemoryMarker) PopupOpen() bool {
	mk.mem.mu.Lock()
	defer mk.mem.mu.Unlock()
	return mk.popupOpen
}

func (mk *MemoryMarker) On(ev Event, h Handler) {
	mk.mem.mu.Lock()
	defer mk.mem.mu.Unlock()
	mk.handlers[ev] = append(mk.handlers[ev], h)
}

func (mk *MemoryMarker) Off(ev Event) {
	mk.mem.mu.Lock()
	defer mk.mem.mu.Unlock()
	delete(mk.handlers, ev)
}

// Handlers returns how many handlers are attached for ev.
func (mk *MemoryMarker) Handlers(ev Event) int {
	mk.mem.mu.Lock()
	defer mk.mem.mu.Unlock()
	return len(mk.handlers[ev])
}

func (mk *MemoryMarker) Dragging() DragHandle {
	if mk.drag == nil {
		return nil
	}
	return mk.drag
}

func (mk *MemoryMarker) SetCursor(cursor string) {
	mk.mem.mu.Lock()
	if mk.cursor == cursor {
		mk.mem.mu.Unlock()
		return
	}
	mk.cursor = cursor
	changes := mk.visibleChangeLocked(Change{Kind: ChangeCursor, Cursor: cursor})
	mk.mem.mu.Unlock()

	mk.mem.notify(changes)
}

// Cursor returns the cursor shown when hovering the marker.
func (mk *MemoryMarker) Cursor() string {
	mk.mem.mu.Lock()
	defer mk.mem.mu.Unlock()
	return mk.cursor
}

// ZIndexOffset returns the stacking offset the marker was created with.
func (mk *MemoryMarker) ZIndexOffset() int { return mk.zIndex }

// Title returns the hover title the marker was created with.
func (mk *MemoryMarker) Title() string { return mk.title }

func (mk *MemoryMarker) fire(ev Event) {
	mk.mem.mu.Lock()
	handlers := append([]Handler(nil), mk.handlers[ev]...)
	mk.mem.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

func (mk *MemoryMarker) shownLocked() Change {
	icon := mk.icon
	popup := mk.popup
	return Change{
		Kind:         ChangeMarkerShown,
		Layer:        mk.group.name,
		Key:          mk.key,
		LatLng:       mk.pos,
		Icon:         &icon,
		Popup:        &popup,
		Cursor:       mk.cursor,
		Draggable:    mk.drag != nil && mk.drag.enabled,
		ZIndexOffset: mk.zIndex,
	}
}

// visibleChangeLocked stamps c with the marker identity, or drops it when the
// marker is not drawn.
func (mk *MemoryMarker) visibleChangeLocked(c Change) []Change {
	if mk.group == nil || !mk.group.attached {
		return nil
	}
	c.Layer = mk.group.name
	c.Key = mk.key
	return []Change{c}
}

type memoryDrag struct {
	marker  *MemoryMarker
	enabled bool
}

func (d *memoryDrag) Enable()  { d.set(true) }
func (d *memoryDrag) Disable() { d.set(false) }

func (d *memoryDrag) Enabled() bool {
	d.marker.mem.mu.Lock()
	defer d.marker.mem.mu.Unlock()
	return d.enabled
}

func (d *memoryDrag) set(enabled bool) {
	mk := d.marker
	mk.mem.mu.Lock()
	if d.enabled == enabled {
		mk.mem.mu.Unlock()
		return
	}
	d.enabled = enabled
	changes := mk.visibleChangeLocked(Change{Kind: ChangeDraggable, Draggable: enabled})
	mk.mem.mu.Unlock()

	mk.mem.notify(changes)
}
