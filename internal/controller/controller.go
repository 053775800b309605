// Package controller is the single entry point between callers (HTTP,
// websocket, dataset reloads, the CLI) and the two marker registries. It
// turns UI actions into registry calls and owns the state that spans both
// registries: the filter panel, infrastructure selection, dev mode captures,
// visitor preferences and snapshots.
//
// Every exported method takes the controller lock, so registries see one
// caller at a time. Registry callbacks run while that lock is held and must
// never call back into exported methods.
package controller

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/eastwood-fallfest/festmap/internal/dataset"
	"github.com/eastwood-fallfest/festmap/internal/geo"
	"github.com/eastwood-fallfest/festmap/internal/queue"
	"github.com/eastwood-fallfest/festmap/internal/registry"
	"github.com/eastwood-fallfest/festmap/internal/render"
	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/internal/storage/memory"
	"github.com/eastwood-fallfest/festmap/internal/surface"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

var (
	// ErrUnknownEntity is returned for ids no registry holds.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrDuplicateEntity is returned when adding an id that already exists.
	ErrDuplicateEntity = errors.New("duplicate entity")

	// ErrInvalidArgument covers malformed coordinates, types and names.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownLayer is returned for gestures naming no registry layer.
	ErrUnknownLayer = errors.New("unknown layer")

	// ErrNoGestures is returned when the surface cannot replay gestures.
	ErrNoGestures = errors.New("surface does not accept gestures")

	// ErrNotDraggable is returned for drags outside dev mode.
	ErrNotDraggable = errors.New("marker is not draggable")
)

// DefaultCaptureLimit bounds the dev mode capture queue.
const DefaultCaptureLimit = 200

// Gestures replays browser interactions on the surface. surface.Memory
// implements it.
type Gestures interface {
	Fire(layer, key string, ev surface.Event) bool
	DragTo(layer, key string, p core.LatLng) bool
}

// Config holds controller settings.
type Config struct {
	Festival     string
	Base         core.LatLng
	FeaturedIDs  []string
	FocusZoom    int
	CaptureLimit int
}

// Dependencies holds the collaborators of a Controller.
type Dependencies struct {
	Surface  surface.Surface
	Gestures Gestures        // optional
	Storage  storage.Backend // nil uses an in-memory backend
	Logger   *slog.Logger

	// OnCapture is told about every dev mode capture. It runs under the
	// controller lock.
	OnCapture func(Capture)
	Now       func() time.Time
}

// Capture records one drag completed in dev mode.
type Capture struct {
	Registry    string      `json:"registry"`
	EntityID    string      `json:"entityId"`
	Name        string      `json:"name"`
	Coordinates core.LatLng `json:"coordinates"`
	Offset      geo.Offset  `json:"offset"`
	Snippet     string      `json:"snippet"`
	At          time.Time   `json:"at"`
}

// Controller owns both registries.
type Controller struct {
	mu   sync.Mutex
	cfg  Config
	deps Dependencies
	log  *slog.Logger

	vendors *registry.VendorRegistry
	infra   *registry.InfrastructureRegistry

	filter       FilterState
	infraType    core.InfrastructureType
	infraVisible bool
	devMode      bool

	captures    *queue.Queue[Capture]
	lastCapture *Capture

	selected    string
	detailsOpen string
	clicked     string
	closed      bool
}

// New builds both registries from ds and returns a controller over them.
func New(cfg Config, deps Dependencies, ds dataset.Dataset) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Storage == nil {
		deps.Storage = memory.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if cfg.CaptureLimit <= 0 {
		cfg.CaptureLimit = DefaultCaptureLimit
	}
	if ds.Base != nil && cfg.Base == (core.LatLng{}) {
		cfg.Base = *ds.Base
	}

	c := &Controller{
		cfg:          cfg,
		deps:         deps,
		log:          deps.Logger.With("component", "controller"),
		infraVisible: true,
		captures:     queue.New[Capture](cfg.CaptureLimit),
	}

	c.vendors = registry.NewVendorRegistry(deps.Surface, ds.Vendors, registry.Options[core.Vendor]{
		Logger:           deps.Logger,
		OnClick:          c.onVendorClick,
		OnDrag:           func(v core.Vendor, p core.LatLng) { c.onDrag(registry.VendorLayer, v.ID, v.Name, p) },
		OnAction:         c.onVendorAction,
		OnDragModeChange: c.onDragModeChange,
		Featured:         registry.FeaturedSet(cfg.FeaturedIDs),
		FocusZoom:        cfg.FocusZoom,
	})
	c.infra = registry.NewInfrastructureRegistry(deps.Surface, ds.Infrastructure, registry.Options[core.InfrastructureItem]{
		Logger:           deps.Logger,
		OnDrag:           func(i core.InfrastructureItem, p core.LatLng) { c.onDrag(registry.InfrastructureLayer, i.ID, i.Name, p) },
		OnDragModeChange: c.onDragModeChange,
		FocusZoom:        cfg.FocusZoom,
	})

	c.log.Info("controller ready",
		"vendors", c.vendors.Len(),
		"infrastructure", c.infra.Len(),
	)
	return c
}

// Close destroys both registries. Later calls become no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.vendors.Destroy()
	c.infra.Destroy()
}

// Festival returns the configured festival name.
func (c *Controller) Festival() string { return c.cfg.Festival }

// Base returns the point dataset offsets are measured from.
func (c *Controller) Base() core.LatLng {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Base
}

// Stats returns per-registry statistics keyed by layer name.
func (c *Controller) Stats() map[string]registry.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]registry.Stats{
		c.vendors.Name(): c.vendors.Stats(),
		c.infra.Name():   c.infra.Stats(),
	}
}

// Selected returns the id of the last clicked vendor and whether its
// details were opened through the popup action.
func (c *Controller) Selected() (id string, detailsOpen bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.selected != "" && c.detailsOpen == c.selected
}

// ClearSelection forgets the selected vendor.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
	c.detailsOpen = ""
}

// Reload replaces both registries' contents. Filters, infrastructure
// selection and dev mode stay as they are.
func (c *Controller) Reload(ds dataset.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.importLocked(ds.Vendors, ds.Infrastructure)
	if ds.Base != nil {
		c.cfg.Base = *ds.Base
	}
	c.log.Info("dataset reloaded", "vendors", c.vendors.Len(), "infrastructure", c.infra.Len())
}

// Export returns the current map contents as a dataset.
func (c *Controller) Export() dataset.Dataset {
	c.mu.Lock()
	defer c.mu.Unlock()
	base := c.cfg.Base
	return dataset.Dataset{
		Name:           c.cfg.Festival,
		Base:           &base,
		Vendors:        c.vendors.Export(),
		Infrastructure: c.infra.Export(),
	}
}

func (c *Controller) importLocked(vendors []core.Vendor, items []core.InfrastructureItem) {
	c.vendors.Import(vendors)
	c.infra.Import(items)
	if _, ok := c.vendors.Get(c.selected); !ok {
		c.selected = ""
		c.detailsOpen = ""
	}
}

func (c *Controller) onVendorClick(v core.Vendor, _ surface.Marker) {
	c.selected = v.ID
	c.clicked = v.ID
	c.log.Debug("vendor selected", "id", v.ID)
}

func (c *Controller) onVendorAction(a render.Action, v core.Vendor) {
	if a.Kind != render.ActionViewDetails {
		c.log.Warn("unhandled popup action", "kind", a.Kind, "id", v.ID)
		return
	}
	c.selected = v.ID
	c.detailsOpen = v.ID
	c.clicked = v.ID
}

func (c *Controller) onDrag(layer, id, name string, p core.LatLng) {
	offset := geo.OffsetFrom(c.cfg.Base, p)
	capture := Capture{
		Registry:    layer,
		EntityID:    id,
		Name:        name,
		Coordinates: p,
		Offset:      offset,
		Snippet:     geo.FormatOffset(offset),
		At:          c.deps.Now(),
	}
	c.captures.Push(capture)
	c.lastCapture = &capture
	c.log.Info("coordinates captured", "registry", layer, "id", id, "coordinates", p.String(), "snippet", capture.Snippet)
	if c.deps.OnCapture != nil {
		c.deps.OnCapture(capture)
	}
}

func (c *Controller) onDragModeChange(enabled bool) {
	if !enabled {
		c.lastCapture = nil
	}
}

// Offset measures p from the base point and formats it as a dataset entry.
func (c *Controller) Offset(p core.LatLng) (geo.Offset, string) {
	c.mu.Lock()
	base := c.cfg.Base
	c.mu.Unlock()
	o := geo.OffsetFrom(base, p)
	return o, geo.FormatOffset(o)
}
