package controller

import (
	"github.com/eastwood-fallfest/festmap/internal/dataset"
	"github.com/eastwood-fallfest/festmap/internal/dispatcher"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/eastwood-fallfest/festmap/pkg/streaming"
)

// Command names accepted by Register'd dispatchers.
const (
	CmdFilterSet      = "filter.set"
	CmdFilterCategory = "filter.category"
	CmdFilterSearch   = "filter.search"
	CmdFilterFeatured = "filter.featured"
	CmdFilterReset    = "filter.reset"

	CmdInfraSelect  = "infra.select"
	CmdInfraVisible = "infra.visible"
	CmdDevMode      = "dev.mode"
	CmdDevCaptures  = "dev.captures"

	CmdVendorAdd    = "vendor.add"
	CmdVendorUpdate = "vendor.update"
	CmdVendorRemove = "vendor.remove"
	CmdVendorFocus  = "vendor.focus"
	CmdInfraAdd     = "infra.add"
	CmdInfraUpdate  = "infra.update"
	CmdInfraRemove  = "infra.remove"
	CmdInfraFocus   = "infra.focus"

	CmdGesture     = "gesture"
	CmdPopupAction = "popup.action"

	CmdPrefsGet       = "prefs.get"
	CmdFavoriteToggle = "favorite.toggle"
	CmdVisitedMark    = "visited.mark"

	CmdSnapshotSave   = "snapshot.save"
	CmdSnapshotLoad   = "snapshot.load"
	CmdSnapshotList   = "snapshot.list"
	CmdSnapshotDelete = "snapshot.delete"

	CmdStats         = "stats"
	CmdExport        = "export"
	CmdDatasetReload = "dataset.reload"
)

type idArgs struct {
	ID   string `json:"id"`
	Zoom int    `json:"zoom,omitempty"`
}

type vendorUpdateArgs struct {
	ID    string           `json:"id"`
	Patch core.VendorPatch `json:"patch"`
}

type infraUpdateArgs struct {
	ID    string                   `json:"id"`
	Patch core.InfrastructurePatch `json:"patch"`
}

type sessionArgs struct {
	Session  string `json:"session"`
	VendorID string `json:"vendorId,omitempty"`
}

// GestureArgs is the payload of the gesture command.
type GestureArgs struct {
	Session string `json:"session,omitempty"`
	Type    string `json:"type"`
	streaming.GesturePayload
}

type nameArgs struct {
	Name string `json:"name"`
}

// Register wires every controller operation into d.
func (c *Controller) Register(d *dispatcher.Dispatcher) {
	d.Register(CmdFilterSet, func(e dispatcher.Event) (any, error) {
		var s FilterState
		if err := e.Decode(&s); err != nil {
			return nil, err
		}
		return c.SetFilter(s), nil
	})
	d.Register(CmdFilterCategory, func(e dispatcher.Event) (any, error) {
		var args struct {
			Category string `json:"category"`
		}
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.ToggleCategory(args.Category), nil
	})
	d.Register(CmdFilterSearch, func(e dispatcher.Event) (any, error) {
		var args struct {
			Query string `json:"query"`
		}
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.SetSearch(args.Query), nil
	})
	d.Register(CmdFilterFeatured, func(e dispatcher.Event) (any, error) {
		var args struct {
			Featured *bool `json:"featured"`
		}
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		if args.Featured == nil {
			return c.ToggleFeatured(), nil
		}
		return c.SetFeaturedOnly(*args.Featured), nil
	})
	d.Register(CmdFilterReset, func(dispatcher.Event) (any, error) {
		return c.ResetFilters(), nil
	})

	d.Register(CmdInfraSelect, func(e dispatcher.Event) (any, error) {
		var args struct {
			Type core.InfrastructureType `json:"type"`
		}
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.SelectInfrastructure(args.Type)
	})
	d.Register(CmdInfraVisible, func(e dispatcher.Event) (any, error) {
		var args struct {
			Visible bool `json:"visible"`
		}
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.SetInfrastructureVisible(args.Visible), nil
	})
	d.Register(CmdDevMode, func(e dispatcher.Event) (any, error) {
		var args struct {
			Enabled bool `json:"enabled"`
		}
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		c.SetDevMode(args.Enabled)
		return map[string]bool{"enabled": args.Enabled}, nil
	}, dispatcher.Logged())
	d.Register(CmdDevCaptures, func(e dispatcher.Event) (any, error) {
		var args struct {
			Drain bool `json:"drain"`
		}
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		if args.Drain {
			return c.DrainCaptures(), nil
		}
		return c.Captures(), nil
	})

	d.Register(CmdVendorAdd, func(e dispatcher.Event) (any, error) {
		var v core.Vendor
		if err := e.Decode(&v); err != nil {
			return nil, err
		}
		if err := c.AddVendor(v); err != nil {
			return nil, err
		}
		return v, nil
	}, dispatcher.Logged())
	d.Register(CmdVendorUpdate, func(e dispatcher.Event) (any, error) {
		var args vendorUpdateArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.UpdateVendor(args.ID, args.Patch)
	}, dispatcher.Logged())
	d.Register(CmdVendorRemove, func(e dispatcher.Event) (any, error) {
		var args idArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return nil, c.RemoveVendor(args.ID)
	}, dispatcher.Logged())
	d.Register(CmdVendorFocus, func(e dispatcher.Event) (any, error) {
		var args idArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return nil, c.FocusVendor(args.ID, args.Zoom)
	})

	d.Register(CmdInfraAdd, func(e dispatcher.Event) (any, error) {
		var item core.InfrastructureItem
		if err := e.Decode(&item); err != nil {
			return nil, err
		}
		if err := c.AddInfrastructure(item); err != nil {
			return nil, err
		}
		return item, nil
	}, dispatcher.Logged())
	d.Register(CmdInfraUpdate, func(e dispatcher.Event) (any, error) {
		var args infraUpdateArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.UpdateInfrastructure(args.ID, args.Patch)
	}, dispatcher.Logged())
	d.Register(CmdInfraRemove, func(e dispatcher.Event) (any, error) {
		var args idArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return nil, c.RemoveInfrastructure(args.ID)
	}, dispatcher.Logged())
	d.Register(CmdInfraFocus, func(e dispatcher.Event) (any, error) {
		var args idArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return nil, c.FocusInfrastructure(args.ID, args.Zoom)
	})

	d.Register(CmdGesture, func(e dispatcher.Event) (any, error) {
		var args GestureArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.Gesture(args.Session, args.Type, args.GesturePayload)
	})
	d.Register(CmdPopupAction, func(e dispatcher.Event) (any, error) {
		var args streaming.PopupActionPayload
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.PopupAction(args)
	})

	d.Register(CmdPrefsGet, func(e dispatcher.Event) (any, error) {
		var args sessionArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.Preferences(args.Session)
	})
	d.Register(CmdFavoriteToggle, func(e dispatcher.Event) (any, error) {
		var args sessionArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.ToggleFavorite(args.Session, args.VendorID)
	})
	d.Register(CmdVisitedMark, func(e dispatcher.Event) (any, error) {
		var args sessionArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.MarkVisited(args.Session, args.VendorID)
	})

	d.Register(CmdSnapshotSave, func(e dispatcher.Event) (any, error) {
		var args nameArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.SaveSnapshot(args.Name)
	}, dispatcher.Logged())
	d.Register(CmdSnapshotLoad, func(e dispatcher.Event) (any, error) {
		var args nameArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return c.LoadSnapshot(args.Name)
	}, dispatcher.Logged())
	d.Register(CmdSnapshotList, func(dispatcher.Event) (any, error) {
		return c.ListSnapshots()
	})
	d.Register(CmdSnapshotDelete, func(e dispatcher.Event) (any, error) {
		var args nameArgs
		if err := e.Decode(&args); err != nil {
			return nil, err
		}
		return nil, c.DeleteSnapshot(args.Name)
	}, dispatcher.Logged())

	d.Register(CmdStats, func(dispatcher.Event) (any, error) {
		return c.Stats(), nil
	})
	d.Register(CmdExport, func(dispatcher.Event) (any, error) {
		return c.Export(), nil
	})

	// Reloads come from the file watcher goroutine and are applied in order
	// by the buffer worker.
	d.Register(CmdDatasetReload, func(e dispatcher.Event) (any, error) {
		var ds dataset.Dataset
		if err := e.Decode(&ds); err != nil {
			return nil, err
		}
		c.Reload(ds)
		return nil, nil
	}, dispatcher.Buffered(4), dispatcher.Blocking(), dispatcher.Logged())
}
