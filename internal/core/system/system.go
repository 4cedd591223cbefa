package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput   Phase = iota // 0: drain watcher / event queues
	PhaseScript               // 1: Lua on_update hooks
	PhaseUpdate               // 2: component logic
	PhaseRender               // 3: build + submit draw lists
	PhasePersist              // 4: scene snapshots
	PhaseCleanup              // 5: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseScript:
		return "script"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
