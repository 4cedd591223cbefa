package ecs

import "fmt"

// storage is the type-erased face of a ComponentStorage. The Registry owns
// storages through it and uses it for the per-entity sweep on destroy.
type storage interface {
	Remove(id EntityID)
	Has(id EntityID) bool
	Len() int
	Type() ComponentTypeID
}

// ComponentStorage is a packed store for one component type. components[i]
// belongs to entities[i], and index[entities[i]] == i for every slot.
//
// Pointers returned by Add, AddValue and Get are valid only until the next
// Add or Remove on the same storage: growth may move the backing array and
// removal moves the last slot into the hole.
type ComponentStorage[T any] struct {
	components []T
	entities   []EntityID
	index      map[EntityID]int
	typ        ComponentTypeID
}

func NewComponentStorage[T any]() *ComponentStorage[T] {
	return &ComponentStorage[T]{
		components: make([]T, 0, 64),
		entities:   make([]EntityID, 0, 64),
		index:      make(map[EntityID]int, 64),
		typ:        ComponentTypeOf[T](),
	}
}

// Add returns the component for id, creating a default one if absent.
// An existing component is returned unchanged.
func (s *ComponentStorage[T]) Add(id EntityID) *T {
	if i, ok := s.index[id]; ok {
		return &s.components[i]
	}
	var zero T
	c := s.push(id, zero)
	if d, ok := any(c).(Defaulter); ok {
		d.SetDefaults()
	}
	return c
}

// AddValue stores v for id. If id already has a component, v is ignored and
// the existing one is returned.
func (s *ComponentStorage[T]) AddValue(id EntityID, v T) *T {
	if i, ok := s.index[id]; ok {
		return &s.components[i]
	}
	return s.push(id, v)
}

func (s *ComponentStorage[T]) push(id EntityID, v T) *T {
	s.index[id] = len(s.components)
	s.components = append(s.components, v)
	s.entities = append(s.entities, id)
	return &s.components[len(s.components)-1]
}

func (s *ComponentStorage[T]) Get(id EntityID) (*T, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: entity %d has no %s", ErrMissingComponent, id, s.typ.Name())
	}
	return &s.components[i], nil
}

func (s *ComponentStorage[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

// Remove swaps id's slot with the last one and pops. No-op if absent.
func (s *ComponentStorage[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	last := len(s.components) - 1
	if i != last {
		moved := s.entities[last]
		s.components[i] = s.components[last]
		s.entities[i] = moved
		s.index[moved] = i
	}
	var zero T
	s.components[last] = zero // drop references held by the popped slot
	s.components = s.components[:last]
	s.entities = s.entities[:last]
	delete(s.index, id)
}

// Components returns the packed component slice. Callers must not append to
// or reslice it; element mutation is allowed.
func (s *ComponentStorage[T]) Components() []T { return s.components }

// Entities returns the packed owner slice, index-aligned with Components.
func (s *ComponentStorage[T]) Entities() []EntityID { return s.entities }

func (s *ComponentStorage[T]) Len() int { return len(s.components) }

func (s *ComponentStorage[T]) Type() ComponentTypeID { return s.typ }
