package ecs

import "fmt"

// Registry owns entity ID allocation and every component storage. Storages
// are created on the first add of their type and live as long as the
// Registry, even when empty.
//
// A Registry is not safe for concurrent use. Callers on more than one
// goroutine must serialize access themselves.
type Registry struct {
	pool         *EntityPool
	storages     map[ComponentTypeID]storage
	order        []storage // creation order, swept on destroy
	destroyQueue []EntityID
}

func NewRegistry() *Registry {
	return &Registry{
		pool:         NewEntityPool(),
		storages:     make(map[ComponentTypeID]storage, 16),
		order:        make([]storage, 0, 16),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

// CreateEntity returns a handle to a new or recycled ID. The entity starts
// with no components.
func (r *Registry) CreateEntity() Entity {
	return Entity{id: r.pool.Create(), reg: r}
}

// Entity wraps a raw ID in a handle bound to r. The handle is not checked.
func (r *Registry) Entity(id EntityID) Entity {
	return Entity{id: id, reg: r}
}

// DestroyEntity drops e's component from every storage and frees its ID.
// Invalid or already destroyed entities are ignored.
func (r *Registry) DestroyEntity(e Entity) {
	if !r.IsValidEntity(e) {
		return
	}
	for _, s := range r.order {
		s.Remove(e.id)
	}
	r.pool.Destroy(e.id)
}

// IsValidEntity reports whether e is a live entity of this Registry. Handles
// bound to another Registry are rejected; registry-less handles are judged
// by ID alone.
func (r *Registry) IsValidEntity(e Entity) bool {
	if e.reg != nil && e.reg != r {
		return false
	}
	return r.pool.Alive(e.id)
}

// EntityCount returns the number of live entities.
func (r *Registry) EntityCount() int { return r.pool.Len() }

// Entities returns handles for every live entity in ascending ID order.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, 0, r.pool.Len())
	r.pool.Each(func(id EntityID) {
		out = append(out, Entity{id: id, reg: r})
	})
	return out
}

// StorageCount returns the number of component types ever added.
func (r *Registry) StorageCount() int { return len(r.order) }

// MarkForDestruction queues e for FlushDestroyQueue. Systems use it to avoid
// destroying entities while a view is being iterated.
func (r *Registry) MarkForDestruction(e Entity) {
	if !r.IsValidEntity(e) {
		return
	}
	r.destroyQueue = append(r.destroyQueue, e.id)
}

// FlushDestroyQueue destroys every queued entity and returns the IDs that
// were actually destroyed. Duplicates in the queue are destroyed once.
func (r *Registry) FlushDestroyQueue() []EntityID {
	if len(r.destroyQueue) == 0 {
		return nil
	}
	destroyed := make([]EntityID, 0, len(r.destroyQueue))
	for _, id := range r.destroyQueue {
		if !r.pool.Alive(id) {
			continue
		}
		r.DestroyEntity(Entity{id: id, reg: r})
		destroyed = append(destroyed, id)
	}
	r.destroyQueue = r.destroyQueue[:0]
	return destroyed
}

// PendingDestroy returns the number of queued destructions.
func (r *Registry) PendingDestroy() int { return len(r.destroyQueue) }

func (r *Registry) invalid(e Entity) error {
	return fmt.Errorf("%w: %s", ErrInvalidEntity, e)
}

// ── Typed access ──

func storageFor[T any](r *Registry) *ComponentStorage[T] {
	s, ok := r.storages[ComponentTypeOf[T]()]
	if !ok {
		return nil
	}
	return s.(*ComponentStorage[T])
}

func storageOrCreate[T any](r *Registry) *ComponentStorage[T] {
	if s := storageFor[T](r); s != nil {
		return s
	}
	s := NewComponentStorage[T]()
	r.storages[s.Type()] = s
	r.order = append(r.order, s)
	return s
}

// StorageOf returns the storage for T, or nil if no entity ever received a T.
func StorageOf[T any](r *Registry) *ComponentStorage[T] {
	return storageFor[T](r)
}

// AddComponent gives e a default T, or returns the T it already has.
func AddComponent[T any](r *Registry, e Entity) (*T, error) {
	if !r.IsValidEntity(e) {
		return nil, r.invalid(e)
	}
	return storageOrCreate[T](r).Add(e.id), nil
}

// AddComponentWith gives e the value v, or returns the T it already has
// untouched.
func AddComponentWith[T any](r *Registry, e Entity, v T) (*T, error) {
	if !r.IsValidEntity(e) {
		return nil, r.invalid(e)
	}
	return storageOrCreate[T](r).AddValue(e.id, v), nil
}

func GetComponent[T any](r *Registry, e Entity) (*T, error) {
	if !r.IsValidEntity(e) {
		return nil, r.invalid(e)
	}
	s := storageFor[T](r)
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredComponent, ComponentTypeOf[T]().Name())
	}
	return s.Get(e.id)
}

func HasComponent[T any](r *Registry, e Entity) bool {
	if !r.IsValidEntity(e) {
		return false
	}
	s := storageFor[T](r)
	return s != nil && s.Has(e.id)
}

// RemoveComponent drops e's T. Missing entities, storages or components are
// ignored.
func RemoveComponent[T any](r *Registry, e Entity) {
	if !r.IsValidEntity(e) {
		return
	}
	if s := storageFor[T](r); s != nil {
		s.Remove(e.id)
	}
}

// GetEntitiesWith returns handles for every entity holding a T, in packed
// storage order.
func GetEntitiesWith[T any](r *Registry) []Entity {
	s := storageFor[T](r)
	if s == nil {
		return nil
	}
	out := make([]Entity, len(s.entities))
	for i, id := range s.entities {
		out[i] = Entity{id: id, reg: r}
	}
	return out
}

// GetView returns a lazy view over T's storage.
func GetView[T any](r *Registry) View[T] {
	return View[T]{storage: storageFor[T](r), reg: r}
}
