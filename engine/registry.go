package engine

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/moodflight/entity"
)

// ErrAliased is returned when an entity instance would occupy two slots
var ErrAliased = errors.New("entity already registered")

// Registry is the ordered collection of live entities
// Order is draw order. While an indicator is reserved it always occupies the
// last slot and appends land before it.
type Registry struct {
	entities  []*entity.Entity
	members   map[*entity.Entity]struct{}
	indicator bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{members: make(map[*entity.Entity]struct{})}
}

// Len returns the number of slots
func (r *Registry) Len() int {
	return len(r.entities)
}

// At returns the entity in slot i
func (r *Registry) At(i int) *entity.Entity {
	return r.entities[i]
}

// Contains reports whether e occupies a slot
func (r *Registry) Contains(e *entity.Entity) bool {
	_, ok := r.members[e]
	return ok
}

// Set overwrites slot i in place
func (r *Registry) Set(i int, e *entity.Entity) error {
	old := r.entities[i]
	if old == e {
		return nil
	}
	if r.Contains(e) {
		return errors.Wrapf(ErrAliased, "slot %d", i)
	}
	delete(r.members, old)
	r.members[e] = struct{}{}
	r.entities[i] = e
	return nil
}

// Append adds e at the end, before the reserved indicator slot if any
func (r *Registry) Append(e *entity.Entity) error {
	if r.Contains(e) {
		return errors.Wrapf(ErrAliased, "%s %d", e.Kind, e.ID)
	}
	r.members[e] = struct{}{}

	if !r.indicator {
		r.entities = append(r.entities, e)
		return nil
	}
	last := len(r.entities) - 1
	r.entities = append(r.entities, r.entities[last])
	r.entities[last] = e
	return nil
}

// SetIndicator appends e and reserves the last slot for it
func (r *Registry) SetIndicator(e *entity.Entity) error {
	if r.indicator {
		return errors.New("indicator already reserved")
	}
	if err := r.Append(e); err != nil {
		return err
	}
	r.indicator = true
	return nil
}

// Indicator returns the reserved tail entity, if any
func (r *Registry) Indicator() (*entity.Entity, bool) {
	if !r.indicator {
		return nil, false
	}
	return r.entities[len(r.entities)-1], true
}

// RemoveIndicator drops the reserved tail slot
func (r *Registry) RemoveIndicator() (*entity.Entity, bool) {
	if !r.indicator {
		return nil, false
	}
	last := len(r.entities) - 1
	e := r.entities[last]
	r.entities[last] = nil
	r.entities = r.entities[:last]
	delete(r.members, e)
	r.indicator = false
	return e, true
}

// HasKind reports whether any live entity is of kind k
func (r *Registry) HasKind(k entity.Kind) bool {
	for _, e := range r.entities {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// CountKind counts live entities of kind k
func (r *Registry) CountKind(k entity.Kind) int {
	n := 0
	for _, e := range r.entities {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Retain compacts the registry, keeping entities for which keep returns true.
// Relative order is preserved.
func (r *Registry) Retain(keep func(*entity.Entity) bool) int {
	removed := 0
	n := 0
	last := len(r.entities) - 1
	for i, e := range r.entities {
		if (r.indicator && i == last) || keep(e) {
			r.entities[n] = e
			n++
			continue
		}
		delete(r.members, e)
		removed++
	}
	clear(r.entities[n:])
	r.entities = r.entities[:n]
	return removed
}

// Reset replaces the whole population and releases the indicator reservation
func (r *Registry) Reset(entities []*entity.Entity) error {
	members := make(map[*entity.Entity]struct{}, len(entities))
	for _, e := range entities {
		if _, dup := members[e]; dup {
			return errors.Wrapf(ErrAliased, "%s %d", e.Kind, e.ID)
		}
		members[e] = struct{}{}
	}
	r.entities = append(r.entities[:0:0], entities...)
	r.members = members
	r.indicator = false
	return nil
}
