package system

import (
	"time"

	"github.com/nexusengine/nexus/internal/core/event"
	coresys "github.com/nexusengine/nexus/internal/core/system"
)

// InputSystem delivers last frame's events before anything else runs.
// Phase 0 (Input).
type InputSystem struct {
	bus *event.Bus
}

func NewInputSystem(bus *event.Bus) *InputSystem {
	return &InputSystem{bus: bus}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	s.bus.Swap()
	s.bus.Dispatch()
}
