package ecs

import "errors"

var (
	// ErrInvalidEntity is returned when an operation addresses a null,
	// foreign or destroyed entity.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUnregisteredComponent is returned by GetComponent when no entity
	// has ever received a component of the requested type.
	ErrUnregisteredComponent = errors.New("component type not registered")

	// ErrMissingComponent is returned when the entity is valid and the
	// storage exists, but this entity has no component of that type.
	ErrMissingComponent = errors.New("missing component")
)
