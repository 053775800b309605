package registry

// Stats summarizes a registry. It is derived from current state on demand.
type Stats struct {
	Total      int            `json:"total"`
	Visible    int            `json:"visible"`
	ByType     map[string]int `json:"byType"`
	ByCategory map[string]int `json:"byCategory"`
}

// Stats counts entities by type and category. Visible counts markers that
// are actually in the layer group.
func (r *Registry[T]) Stats() Stats {
	if !r.alive("stats") {
		return Stats{}
	}
	s := Stats{
		Total:      len(r.order),
		Visible:    r.group.Len(),
		ByType:     make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for _, id := range r.order {
		e := r.entities[id]
		s.ByType[e.EntityType()]++
		s.ByCategory[e.EntityCategory()]++
	}
	return s
}

// Get returns a copy of the entity with id.
func (r *Registry[T]) Get(id string) (T, bool) {
	var zero T
	if !r.alive("get") {
		return zero, false
	}
	e, ok := r.entities[id]
	if !ok {
		return zero, false
	}
	return e.Clone(), true
}

// Len returns the number of entities.
func (r *Registry[T]) Len() int {
	return len(r.order)
}

// All returns copies of every entity in insertion order.
func (r *Registry[T]) All() []T {
	return r.collect(func(string, T) bool { return true })
}

// Visible returns the entities whose marker is currently in the layer group.
func (r *Registry[T]) Visible() []T {
	return r.collect(func(id string, _ T) bool { return r.group.HasLayer(r.markers[id]) })
}

func (r *Registry[T]) ByType(typ string) []T {
	return r.collect(func(_ string, e T) bool { return e.EntityType() == typ })
}

func (r *Registry[T]) ByCategory(category string) []T {
	return r.collect(func(_ string, e T) bool { return e.EntityCategory() == category })
}

func (r *Registry[T]) collect(keep func(string, T) bool) []T {
	if r.destroyed {
		return nil
	}
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		if e := r.entities[id]; keep(id, e) {
			out = append(out, e.Clone())
		}
	}
	return out
}
