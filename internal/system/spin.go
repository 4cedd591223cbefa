package system

import (
	"time"

	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/core/ecs"
	coresys "github.com/nexusengine/nexus/internal/core/system"
)

// SpinSystem rotates every entity that has both a Transform and a Spin.
// Phase 2 (Update).
type SpinSystem struct {
	reg *ecs.Registry
}

func NewSpinSystem(reg *ecs.Registry) *SpinSystem {
	return &SpinSystem{reg: reg}
}

func (s *SpinSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SpinSystem) Update(dt time.Duration) {
	sec := float32(dt.Seconds())
	ecs.Each2(s.reg, func(_ ecs.Entity, t *component.Transform, sp *component.Spin) {
		t.Rotate(sp.Step(sec))
	})
}
