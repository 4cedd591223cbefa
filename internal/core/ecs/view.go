package ecs

import "iter"

// View is a lazy traversal of one storage in packed order, yielding entity
// handles paired with pointers into the storage. Adding or removing a
// component of the viewed type while iterating is not supported.
type View[T any] struct {
	storage *ComponentStorage[T]
	reg     *Registry
}

// Len returns the number of entities the view would currently yield.
func (v View[T]) Len() int {
	if v.storage == nil {
		return 0
	}
	return v.storage.Len()
}

func (v View[T]) Each(fn func(Entity, *T)) {
	if v.storage == nil {
		return
	}
	for i := range v.storage.components {
		fn(Entity{id: v.storage.entities[i], reg: v.reg}, &v.storage.components[i])
	}
}

// All returns a range-over-func sequence. Each range statement starts at the
// first packed slot.
func (v View[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		if v.storage == nil {
			return
		}
		for i := 0; i < len(v.storage.components); i++ {
			if !yield(Entity{id: v.storage.entities[i], reg: v.reg}, &v.storage.components[i]) {
				return
			}
		}
	}
}

// Iter returns a cursor positioned before the first element.
func (v View[T]) Iter() *ViewIterator[T] {
	return &ViewIterator[T]{view: v, index: -1}
}

// ViewIterator is a cursor over a View:
//
//	it := view.Iter()
//	for it.Next() {
//		e, c := it.Entity(), it.Get()
//	}
type ViewIterator[T any] struct {
	view  View[T]
	index int
}

func (it *ViewIterator[T]) Next() bool {
	if it.index+1 >= it.view.Len() {
		it.index = it.view.Len()
		return false
	}
	it.index++
	return true
}

func (it *ViewIterator[T]) Entity() Entity {
	return Entity{id: it.view.storage.entities[it.index], reg: it.view.reg}
}

func (it *ViewIterator[T]) Get() *T {
	return &it.view.storage.components[it.index]
}

// Reset rewinds the cursor to before the first element.
func (it *ViewIterator[T]) Reset() { it.index = -1 }
