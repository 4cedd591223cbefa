package system

import (
	"time"

	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/core/ecs"
	"github.com/nexusengine/nexus/internal/core/event"
	coresys "github.com/nexusengine/nexus/internal/core/system"
	"github.com/nexusengine/nexus/internal/render"
	"go.uber.org/zap"
)

// RenderSystem builds a frame from the registry and hands it to the
// backend. Phase 3 (Render).
type RenderSystem struct {
	reg      *ecs.Registry
	backend  render.Backend
	bus      *event.Bus
	log      *zap.Logger
	fallback component.Camera
	logEvery uint64 // 0 = never
	frame    uint64
}

func NewRenderSystem(reg *ecs.Registry, backend render.Backend, bus *event.Bus, fallback component.Camera, logEvery int, log *zap.Logger) *RenderSystem {
	if logEvery < 0 {
		logEvery = 0
	}
	return &RenderSystem{
		reg:      reg,
		backend:  backend,
		bus:      bus,
		log:      log,
		fallback: fallback,
		logEvery: uint64(logEvery),
	}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *RenderSystem) Update(_ time.Duration) {
	s.frame++
	f := render.BuildFrame(s.reg, s.fallback)
	f.Index = s.frame
	if err := s.backend.Submit(f); err != nil {
		s.log.Error("frame submit failed", zap.Uint64("frame", s.frame), zap.Error(err))
		return
	}
	event.Emit(s.bus, event.FrameRendered{Frame: s.frame, DrawCalls: len(f.Commands)})

	if s.logEvery > 0 && s.frame%s.logEvery == 0 {
		s.log.Info("rendered frames",
			zap.Uint64("frame", s.frame),
			zap.Int("entities", s.reg.EntityCount()),
			zap.Int("draws", len(f.Commands)),
		)
	}
}

// Frames returns the number of frames built so far.
func (s *RenderSystem) Frames() uint64 { return s.frame }
