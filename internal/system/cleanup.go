package system

import (
	"time"

	"github.com/nexusengine/nexus/internal/core/ecs"
	"github.com/nexusengine/nexus/internal/core/event"
	coresys "github.com/nexusengine/nexus/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at frame end
// and announces each destroyed ID. Phase 5 (Cleanup).
type CleanupSystem struct {
	reg *ecs.Registry
	bus *event.Bus
}

func NewCleanupSystem(reg *ecs.Registry, bus *event.Bus) *CleanupSystem {
	return &CleanupSystem{reg: reg, bus: bus}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	for _, id := range s.reg.FlushDestroyQueue() {
		event.Emit(s.bus, event.EntityDestroyed{ID: id})
	}
}
