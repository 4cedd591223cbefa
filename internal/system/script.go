package system

import (
	"time"

	"github.com/nexusengine/nexus/internal/core/event"
	coresys "github.com/nexusengine/nexus/internal/core/system"
	"github.com/nexusengine/nexus/internal/scripting"
)

// ScriptSystem runs the Lua on_update hook each frame and forwards scene
// loads to on_scene_loaded. Phase 1 (Script).
type ScriptSystem struct {
	engine *scripting.Engine
}

func NewScriptSystem(engine *scripting.Engine, bus *event.Bus) *ScriptSystem {
	s := &ScriptSystem{engine: engine}
	event.Subscribe(bus, func(ev event.SceneLoaded) {
		s.engine.OnSceneLoaded(ev.Path, ev.Entities)
	})
	return s
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseScript }

func (s *ScriptSystem) Update(dt time.Duration) {
	s.engine.OnUpdate(dt)
}
