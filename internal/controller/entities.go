package controller

import (
	"fmt"

	"github.com/eastwood-fallfest/festmap/internal/dataset"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// AddVendor validates v and adds it to the vendor registry.
func (c *Controller) AddVendor(v core.Vendor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := dataset.ValidateVendor(v); err != nil {
		return fmt.Errorf("%w: vendor %q: %v", ErrInvalidArgument, v.ID, err)
	}
	if !c.vendors.Add(v) {
		return fmt.Errorf("%w: vendor %q", ErrDuplicateEntity, v.ID)
	}
	return nil
}

// UpdateVendor merges patch into the vendor with id. The result must still
// validate.
func (c *Controller) UpdateVendor(id string, patch core.VendorPatch) (core.Vendor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.vendors.Get(id)
	if !ok {
		return core.Vendor{}, fmt.Errorf("%w: vendor %q", ErrUnknownEntity, id)
	}
	if err := dataset.ValidateVendor(patch.Apply(current)); err != nil {
		return core.Vendor{}, fmt.Errorf("%w: vendor %q: %v", ErrInvalidArgument, id, err)
	}
	c.vendors.UpdateVendor(id, patch)
	updated, _ := c.vendors.Get(id)
	return updated, nil
}

// RemoveVendor removes the vendor with id.
func (c *Controller) RemoveVendor(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.vendors.Remove(id) {
		return fmt.Errorf("%w: vendor %q", ErrUnknownEntity, id)
	}
	if c.selected == id {
		c.selected = ""
		c.detailsOpen = ""
	}
	return nil
}

// FocusVendor centers the map on the vendor and opens its popup.
func (c *Controller) FocusVendor(id string, zoom int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.vendors.Focus(id, zoom) {
		return fmt.Errorf("%w: vendor %q", ErrUnknownEntity, id)
	}
	return nil
}

// Vendor returns a copy of one vendor.
func (c *Controller) Vendor(id string) (core.Vendor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vendors.Get(id)
}

// Vendors returns the vendors currently drawn on the map.
func (c *Controller) Vendors() []core.Vendor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vendors.Visible()
}

// AddInfrastructure validates item and adds it.
func (c *Controller) AddInfrastructure(item core.InfrastructureItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := dataset.ValidateItem(item); err != nil {
		return fmt.Errorf("%w: infrastructure %q: %v", ErrInvalidArgument, item.ID, err)
	}
	if !c.infra.Add(item) {
		return fmt.Errorf("%w: infrastructure %q", ErrDuplicateEntity, item.ID)
	}
	return nil
}

// UpdateInfrastructure merges patch into the item with id.
func (c *Controller) UpdateInfrastructure(id string, patch core.InfrastructurePatch) (core.InfrastructureItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.infra.Get(id)
	if !ok {
		return core.InfrastructureItem{}, fmt.Errorf("%w: infrastructure %q", ErrUnknownEntity, id)
	}
	if err := dataset.ValidateItem(patch.Apply(current)); err != nil {
		return core.InfrastructureItem{}, fmt.Errorf("%w: infrastructure %q: %v", ErrInvalidArgument, id, err)
	}
	c.infra.UpdateItem(id, patch)
	updated, _ := c.infra.Get(id)
	return updated, nil
}

// RemoveInfrastructure removes the item with id.
func (c *Controller) RemoveInfrastructure(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.infra.Remove(id) {
		return fmt.Errorf("%w: infrastructure %q", ErrUnknownEntity, id)
	}
	return nil
}

// FocusInfrastructure centers the map on the item and opens its popup.
func (c *Controller) FocusInfrastructure(id string, zoom int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.infra.Focus(id, zoom) {
		return fmt.Errorf("%w: infrastructure %q", ErrUnknownEntity, id)
	}
	return nil
}

// Infrastructure returns the items currently drawn on the map.
func (c *Controller) Infrastructure() []core.InfrastructureItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.infra.Visible()
}

// Import replaces both registries' contents after validating every entry.
// Nothing changes when any entry is invalid.
func (c *Controller) Import(vendors []core.Vendor, items []core.InfrastructureItem) error {
	if err := validateEntities(vendors, items); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.importLocked(vendors, items)
	return nil
}

// validateEntities checks every entity before anything is replaced, so a
// bad list leaves both registries untouched.
func validateEntities(vendors []core.Vendor, items []core.InfrastructureItem) error {
	for i, v := range vendors {
		if err := dataset.ValidateVendor(v); err != nil {
			return fmt.Errorf("%w: vendors[%d]: %v", ErrInvalidArgument, i, err)
		}
	}
	for i, item := range items {
		if err := dataset.ValidateItem(item); err != nil {
			return fmt.Errorf("%w: infrastructure[%d]: %v", ErrInvalidArgument, i, err)
		}
	}
	return nil
}
