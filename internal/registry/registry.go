// Package registry keeps a set of map entities and their markers in sync.
//
// Entities live in one indexed arena keyed by id. Markers only carry that id;
// every derived piece of state (icon, popup, layer membership) is regenerated
// from the arena through a single update path. A registry is not safe for
// concurrent use; callers serialize access.
package registry

import (
	"log/slog"

	"github.com/eastwood-fallfest/festmap/internal/render"
	"github.com/eastwood-fallfest/festmap/internal/surface"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// DefaultFocusZoom is used by Focus when no zoom is given.
const DefaultFocusZoom = 17

// Entity is what a registry can hold. T is the concrete value type itself.
type Entity[T any] interface {
	EntityID() string
	EntityType() string
	EntityCategory() string
	DisplayName() string
	Position() core.LatLng
	SearchText() string
	IsFeatured() bool
	WithPosition(p core.LatLng) T
	Clone() T
}

// Presenter builds the icon and popup for an entity.
type Presenter[T any] interface {
	Icon(e T) render.Icon
	Popup(e T) render.Popup
}

// Options configure a Registry. All callbacks are optional and receive
// copies, never arena values.
type Options[T any] struct {
	// Name names the layer group and tags logs and metrics.
	Name   string
	Logger *slog.Logger

	OnClick  func(e T, m surface.Marker)
	OnDrag   func(e T, p core.LatLng)
	OnAction func(a render.Action, e T)
	// OnDragModeChange is called with false when drag mode is switched off.
	OnDragModeChange func(enabled bool)

	// Featured overrides the entity's own featured flag for filtering.
	Featured func(e T) bool
	// DefaultFilter is active right after construction.
	DefaultFilter *Filter

	FocusZoom    int
	ZIndexOffset int
	// HoverClose closes the popup on mouseout as well as opening it on hover.
	HoverClose bool
}

type modeKind int

const (
	modeFilter modeKind = iota
	modeOnly
	modeAll
	modeNone
)

type visibility struct {
	kind modeKind
	key  string
}

// Registry owns one layer group on a surface and one marker per entity.
type Registry[T Entity[T]] struct {
	name      string
	log       *slog.Logger
	surface   surface.Surface
	presenter Presenter[T]
	opts      Options[T]
	metrics   *instruments

	group    surface.LayerGroup
	entities map[string]T
	order    []string
	markers  map[string]surface.Marker

	mode      visibility
	filter    *Filter
	dragMode  bool
	destroyed bool
}

// New creates a registry, attaches a fresh layer group to surf and builds a
// marker for every entity. Duplicate ids in entities are skipped.
func New[T Entity[T]](surf surface.Surface, presenter Presenter[T], entities []T, opts Options[T]) *Registry[T] {
	if opts.Name == "" {
		opts.Name = "markers"
	}
	if opts.FocusZoom <= 0 {
		opts.FocusZoom = DefaultFocusZoom
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("registry", opts.Name)

	metrics, err := newInstruments(opts.Name)
	if err != nil {
		logger.Warn("metrics unavailable", "error", err)
		metrics = noopInstruments(opts.Name)
	}

	r := &Registry[T]{
		name:      opts.Name,
		log:       logger,
		surface:   surf,
		presenter: presenter,
		opts:      opts,
		metrics:   metrics,
		group:     surf.NewLayerGroup(opts.Name),
		entities:  make(map[string]T, len(entities)),
		markers:   make(map[string]surface.Marker, len(entities)),
		filter:    opts.DefaultFilter.Clone(),
	}

	r.load(entities)
	r.applyAll()

	logger.Debug("registry created", "entities", len(r.order), "visible", r.group.Len())
	return r
}

// Name returns the registry (and layer group) name.
func (r *Registry[T]) Name() string { return r.name }

// Layer returns the layer group this registry draws into.
func (r *Registry[T]) Layer() surface.LayerGroup { return r.group }

func (r *Registry[T]) alive(op string) bool {
	if r.destroyed {
		r.log.Error("registry used after destroy", "op", op)
		return false
	}
	return true
}

// Add inserts e and shows it if it passes the active visibility mode.
// Returns false, leaving state untouched, when the id is already present.
func (r *Registry[T]) Add(e T) bool {
	if !r.alive("add") {
		return false
	}
	if !r.insert(e) {
		return false
	}
	r.applyOne(e.EntityID())
	r.metrics.op("add")
	return true
}

// Remove drops the entity and its marker. Returns false if id is unknown.
func (r *Registry[T]) Remove(id string) bool {
	if !r.alive("remove") {
		return false
	}
	m, ok := r.markers[id]
	if !ok {
		return false
	}
	if r.group.HasLayer(m) {
		r.group.RemoveLayer(m)
	}
	delete(r.markers, id)
	delete(r.entities, id)
	r.order = deleteID(r.order, id)
	r.metrics.op("remove")
	return true
}

// Update replaces the entity with fn applied to a copy of it, rebuilds its
// marker and re-checks its visibility. fn must not change the id.
func (r *Registry[T]) Update(id string, fn func(T) T) bool {
	if !r.alive("update") {
		return false
	}
	cur, ok := r.entities[id]
	if !ok {
		return false
	}
	next := fn(cur.Clone())
	if next.EntityID() != id {
		r.log.Warn("update changed entity id, ignoring", "id", id, "newId", next.EntityID())
		return false
	}

	if old, ok := r.markers[id]; ok && r.group.HasLayer(old) {
		r.group.RemoveLayer(old)
	}
	r.entities[id] = next
	r.markers[id] = r.newMarker(next)
	r.applyOne(id)
	r.metrics.op("update")
	return true
}

// ApplyFilter replaces the active filter and returns to filter mode. A nil
// filter shows everything.
func (r *Registry[T]) ApplyFilter(f *Filter) {
	if !r.alive("applyFilter") {
		return
	}
	r.filter = f.Clone()
	r.mode = visibility{kind: modeFilter}
	r.applyAll()
	r.metrics.op("filter")
}

// ClearFilters is ApplyFilter(nil).
func (r *Registry[T]) ClearFilters() {
	r.ApplyFilter(nil)
}

// ActiveFilter returns a copy of the filter, nil when none is set.
func (r *Registry[T]) ActiveFilter() *Filter {
	if !r.alive("activeFilter") {
		return nil
	}
	return r.filter.Clone()
}

func (r *Registry[T]) setMode(op string, v visibility) {
	if !r.alive(op) {
		return
	}
	r.mode = v
	r.applyAll()
	r.metrics.op(op)
}

func (r *Registry[T]) setVisible(visible bool) {
	if !r.alive("setVisible") {
		return
	}
	switch {
	case visible && !r.surface.HasLayer(r.group):
		r.surface.AddLayer(r.group)
	case !visible && r.surface.HasLayer(r.group):
		r.surface.RemoveLayer(r.group)
	}
}

// SetDragMode makes every marker draggable (or not). While enabled, hover
// popups are detached, clicks are ignored and the cursor shows "move".
func (r *Registry[T]) SetDragMode(enabled bool) {
	if !r.alive("setDragMode") {
		return
	}
	if r.dragMode == enabled {
		return
	}
	r.dragMode = enabled
	r.log.Info("drag mode changed", "enabled", enabled, "markers", len(r.markers))

	for _, id := range r.order {
		m := r.markers[id]
		if enabled {
			r.enableDrag(id, m)
			m.Off(surface.EventMouseOver)
			m.Off(surface.EventMouseOut)
			m.SetCursor(surface.CursorMove)
		} else {
			if d := m.Dragging(); d != nil {
				d.Disable()
			}
			r.attachHover(m)
			m.SetCursor(surface.CursorPointer)
		}
	}

	if !enabled && r.opts.OnDragModeChange != nil {
		r.opts.OnDragModeChange(false)
	}
}

// DragMode reports whether drag mode is on.
func (r *Registry[T]) DragMode() bool { return r.dragMode }

// Focus centers the surface on the entity and opens its popup. zoom <= 0
// uses the configured focus zoom. A filtered-out entity is centered but its
// popup stays closed.
func (r *Registry[T]) Focus(id string, zoom int) bool {
	if !r.alive("focus") {
		return false
	}
	e, ok := r.entities[id]
	if !ok {
		return false
	}
	if zoom <= 0 {
		zoom = r.opts.FocusZoom
	}
	r.surface.SetView(e.Position(), zoom)
	if m := r.markers[id]; r.group.HasLayer(m) {
		m.OpenPopup()
	}
	return true
}

// TriggerAction routes a popup button press to OnAction. Without OnAction a
// view-details action falls back to OnClick.
func (r *Registry[T]) TriggerAction(a render.Action) bool {
	if !r.alive("action") {
		return false
	}
	e, ok := r.entities[a.EntityID]
	if !ok {
		return false
	}
	switch {
	case r.opts.OnAction != nil:
		r.opts.OnAction(a, e.Clone())
	case a.Kind == render.ActionViewDetails && r.opts.OnClick != nil:
		r.opts.OnClick(e.Clone(), r.markers[a.EntityID])
	default:
		r.log.Warn("unhandled popup action", "kind", a.Kind, "id", a.EntityID)
		return false
	}
	return true
}

// Import discards every entity and marker and rebuilds from entities. The
// visibility mode is kept. The first occurrence of a duplicate id wins.
func (r *Registry[T]) Import(entities []T) {
	if !r.alive("import") {
		return
	}
	r.group.ClearLayers()
	r.entities = make(map[string]T, len(entities))
	r.markers = make(map[string]surface.Marker, len(entities))
	r.order = nil

	r.load(entities)
	r.applyAll()
	r.metrics.op("import")
	r.log.Info("imported entities", "count", len(r.order))
}

// Export returns copies of every entity in insertion order.
func (r *Registry[T]) Export() []T {
	if !r.alive("export") {
		return nil
	}
	return r.All()
}

// Destroy removes the layer group from the surface and drops all state.
// The registry must not be used afterwards.
func (r *Registry[T]) Destroy() {
	if !r.alive("destroy") {
		return
	}
	r.group.ClearLayers()
	r.surface.RemoveLayer(r.group)
	r.entities = nil
	r.markers = nil
	r.order = nil
	r.filter = nil
	r.destroyed = true
	r.log.Debug("registry destroyed")
}

func (r *Registry[T]) load(entities []T) {
	for _, e := range entities {
		r.insert(e)
	}
}

func (r *Registry[T]) insert(e T) bool {
	id := e.EntityID()
	if _, exists := r.entities[id]; exists {
		r.log.Warn("duplicate entity id, skipping", "id", id)
		return false
	}
	e = e.Clone()
	r.entities[id] = e
	r.order = append(r.order, id)
	r.markers[id] = r.newMarker(e)
	return true
}

func (r *Registry[T]) newMarker(e T) surface.Marker {
	id := e.EntityID()
	m := r.surface.NewMarker(surface.MarkerOptions{
		Key:          id,
		LatLng:       e.Position(),
		Icon:         r.presenter.Icon(e),
		Popup:        r.popup(e),
		Title:        e.DisplayName(),
		Draggable:    r.dragMode,
		ZIndexOffset: r.opts.ZIndexOffset,
		RiseOnHover:  true,
	})

	m.On(surface.EventClick, func(surface.Event) { r.handleClick(id, m) })
	m.On(surface.EventDragStart, func(surface.Event) { m.ClosePopup() })
	m.On(surface.EventDragEnd, func(surface.Event) { r.handleDragEnd(id, m) })

	if r.dragMode {
		r.enableDrag(id, m)
		m.SetCursor(surface.CursorMove)
	} else {
		if d := m.Dragging(); d != nil {
			d.Disable()
		}
		r.attachHover(m)
	}
	return m
}

// popup never fails; a panicking presenter yields a name-only popup.
func (r *Registry[T]) popup(e T) (p render.Popup) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("popup generation failed", "id", e.EntityID(), "panic", rec)
			p = render.FallbackPopup(e.EntityID(), e.DisplayName())
		}
	}()
	return r.presenter.Popup(e)
}

func (r *Registry[T]) attachHover(m surface.Marker) {
	m.Off(surface.EventMouseOver)
	m.Off(surface.EventMouseOut)
	m.On(surface.EventMouseOver, func(surface.Event) { m.OpenPopup() })
	if r.opts.HoverClose {
		m.On(surface.EventMouseOut, func(surface.Event) { m.ClosePopup() })
	}
}

func (r *Registry[T]) enableDrag(id string, m surface.Marker) {
	d := m.Dragging()
	if d == nil {
		r.log.Warn("marker has no drag handle", "id", id)
		return
	}
	d.Enable()
}

func (r *Registry[T]) handleClick(id string, m surface.Marker) {
	if r.destroyed || r.dragMode || r.markers[id] != m {
		return
	}
	if r.opts.OnClick != nil {
		r.opts.OnClick(r.entities[id].Clone(), m)
	}
}

func (r *Registry[T]) handleDragEnd(id string, m surface.Marker) {
	if r.destroyed || r.markers[id] != m {
		return
	}
	pos := m.LatLng()
	e := r.entities[id].WithPosition(pos)
	r.entities[id] = e
	r.metrics.drag()
	r.log.Debug("marker dragged", "id", id, "position", pos.String())

	if r.opts.OnDrag != nil {
		r.opts.OnDrag(e.Clone(), pos)
	}
	m.SetPopupContent(r.popup(e))

	if r.mode.kind == modeFilter && r.filter != nil && r.filter.Bounds != nil {
		r.applyOne(id)
	}
}

func (r *Registry[T]) passes(e T) bool {
	switch r.mode.kind {
	case modeAll:
		return true
	case modeNone:
		return false
	case modeOnly:
		return e.EntityType() == r.mode.key
	default:
		return matches(r.filter, e, r.featured)
	}
}

func (r *Registry[T]) featured(e T) bool {
	if r.opts.Featured != nil {
		return r.opts.Featured(e)
	}
	return e.IsFeatured()
}

func (r *Registry[T]) applyOne(id string) {
	m := r.markers[id]
	shown := r.group.HasLayer(m)
	switch want := r.passes(r.entities[id]); {
	case want && !shown:
		r.group.AddLayer(m)
	case !want && shown:
		r.group.RemoveLayer(m)
	}
}

func (r *Registry[T]) applyAll() {
	for _, id := range r.order {
		r.applyOne(id)
	}
}

func deleteID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
