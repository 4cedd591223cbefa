package event

import "github.com/nexusengine/nexus/internal/core/ecs"

type SceneLoaded struct {
	Path     string
	Entities int
}

type EntityDestroyed struct {
	ID ecs.EntityID
}

type FrameRendered struct {
	Frame     uint64
	DrawCalls int
}
