package ecs

import (
	"fmt"
	"strconv"
)

// Entity is a handle: an ID plus a non-owning pointer to the Registry that
// issued it. All state lives in the Registry. Handles are comparable, and
// two handles are equal only if both the ID and the Registry match.
//
// A handle must not be used after its Registry is discarded.
type Entity struct {
	id  EntityID
	reg *Registry
}

// Null is the zero handle. It is never valid.
var Null = Entity{}

func (e Entity) ID() EntityID { return e.id }

func (e Entity) Registry() *Registry { return e.reg }

// IsValid reports whether the handle is well-formed: a non-null ID and a
// Registry. It does not check that the entity is still alive; use Alive.
func (e Entity) IsValid() bool {
	return e.id != NullEntity && e.reg != nil
}

// Alive reports whether the owning Registry still considers e live.
func (e Entity) Alive() bool {
	return e.reg != nil && e.reg.IsValidEntity(e)
}

// Destroy forwards to Registry.DestroyEntity.
func (e Entity) Destroy() {
	if e.reg != nil {
		e.reg.DestroyEntity(e)
	}
}

// Less orders handles by ID.
func (e Entity) Less(other Entity) bool { return e.id < other.id }

func (e Entity) String() string {
	return "Entity(" + strconv.FormatUint(uint64(e.id), 10) + ")"
}

// ── Handle-side component access ──
// Each helper forwards to the matching Registry function with e's ID.

func Add[T any](e Entity) (*T, error) {
	if e.reg == nil {
		return nil, fmt.Errorf("%w: %s has no registry", ErrInvalidEntity, e)
	}
	return AddComponent[T](e.reg, e)
}

func AddWith[T any](e Entity, v T) (*T, error) {
	if e.reg == nil {
		return nil, fmt.Errorf("%w: %s has no registry", ErrInvalidEntity, e)
	}
	return AddComponentWith(e.reg, e, v)
}

func Get[T any](e Entity) (*T, error) {
	if e.reg == nil {
		return nil, fmt.Errorf("%w: %s has no registry", ErrInvalidEntity, e)
	}
	return GetComponent[T](e.reg, e)
}

func Has[T any](e Entity) bool {
	return e.reg != nil && HasComponent[T](e.reg, e)
}

func Remove[T any](e Entity) {
	if e.reg != nil {
		RemoveComponent[T](e.reg, e)
	}
}
