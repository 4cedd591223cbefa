package ecs

import (
	"reflect"
	"sync"
)

// EntityID identifies an entity inside one Registry. IDs start at 1 and are
// recycled after destruction; 0 is reserved as the null entity.
type EntityID uint32

// NullEntity is the reserved "no entity" ID.
const NullEntity EntityID = 0

// ComponentTypeID is the process-wide key for a component type. IDs are
// handed out in first-use order and never change for the life of the process.
type ComponentTypeID uint32

// componentTypes maps Go types to their ComponentTypeID. Registries may live
// on different goroutines, so this table is the one locked structure in the
// package.
var componentTypes = struct {
	mu    sync.Mutex
	ids   map[reflect.Type]ComponentTypeID
	types []reflect.Type
}{
	ids: make(map[reflect.Type]ComponentTypeID, 16),
}

// ComponentTypeOf returns the ComponentTypeID for T, assigning one on first use.
func ComponentTypeOf[T any]() ComponentTypeID {
	t := reflect.TypeOf((*T)(nil)).Elem()

	componentTypes.mu.Lock()
	defer componentTypes.mu.Unlock()
	if id, ok := componentTypes.ids[t]; ok {
		return id
	}
	id := ComponentTypeID(len(componentTypes.types))
	componentTypes.ids[t] = id
	componentTypes.types = append(componentTypes.types, t)
	return id
}

// Name returns the Go type name registered under id, or "" if unknown.
func (id ComponentTypeID) Name() string {
	componentTypes.mu.Lock()
	defer componentTypes.mu.Unlock()
	if int(id) >= len(componentTypes.types) {
		return ""
	}
	return componentTypes.types[id].String()
}

// Defaulter is implemented by component types whose default state is not the
// Go zero value. Storage calls SetDefaults on every slot created by Add.
type Defaulter interface {
	SetDefaults()
}
