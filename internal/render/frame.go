package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/core/ecs"
)

// DrawCommand is one mesh draw for a frame.
type DrawCommand struct {
	Entity       ecs.Entity
	Model        mgl32.Mat4
	MeshPath     string
	MaterialPath string
	MeshID       uint32
	MaterialID   uint32
}

// Frame is the draw list handed to a Backend.
type Frame struct {
	Index      uint64
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Camera     ecs.Entity // ecs.Null when the fallback camera was used
	Commands   []DrawCommand
}

// DefaultEye is where the fallback camera sits, looking down -Z.
var DefaultEye = mgl32.Vec3{0, 0, 5}

// BuildFrame walks every entity with a Transform and emits a draw for the
// ones with a visible, valid MeshRenderer. Components are read only.
// fallback is used when no active primary camera exists.
func BuildFrame(reg *ecs.Registry, fallback component.Camera) Frame {
	var f Frame
	f.View, f.Projection, f.Camera = selectCamera(reg, fallback)

	meshes := ecs.StorageOf[component.MeshRenderer](reg)
	ecs.GetView[component.Transform](reg).Each(func(e ecs.Entity, t *component.Transform) {
		if meshes == nil || !meshes.Has(e.ID()) {
			return
		}
		mr, err := meshes.Get(e.ID())
		if err != nil || !mr.Visible || !mr.IsValid() {
			return
		}
		f.Commands = append(f.Commands, DrawCommand{
			Entity:       e,
			Model:        t.WorldMatrix(),
			MeshPath:     mr.MeshPath,
			MaterialPath: mr.MaterialPath,
			MeshID:       mr.MeshID,
			MaterialID:   mr.MaterialID,
		})
	})
	return f
}

// selectCamera picks the lowest-ID active primary camera that also has a
// Transform. Without one, the fallback sits at DefaultEye.
func selectCamera(reg *ecs.Registry, fallback component.Camera) (view, proj mgl32.Mat4, cam ecs.Entity) {
	cam = ecs.Null
	var camT *component.Transform
	var camC *component.Camera
	ecs.Each2(reg, func(e ecs.Entity, c *component.Camera, t *component.Transform) {
		if !c.Primary || !c.Active {
			return
		}
		if cam == ecs.Null || e.Less(cam) {
			cam, camC, camT = e, c, t
		}
	})
	if cam == ecs.Null {
		return mgl32.LookAtV(DefaultEye, DefaultEye.Add(component.AxisForward), component.AxisUp), fallback.ProjectionMatrix(), cam
	}
	eye := camT.Position
	return mgl32.LookAtV(eye, eye.Add(camT.Forward()), camT.Up()), camC.ProjectionMatrix(), cam
}
