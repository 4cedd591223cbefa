package component

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nexusengine/nexus/internal/core/ecs"
)

// Axis directions in the engine's right-handed, -Z forward convention.
var (
	AxisRight   = mgl32.Vec3{1, 0, 0}
	AxisUp      = mgl32.Vec3{0, 1, 0}
	AxisForward = mgl32.Vec3{0, 0, -1}
)

// Transform positions an entity in the scene. Setters keep the cached local
// matrix in sync; write fields directly only if you call MarkDirty after.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	Parent   ecs.Entity
	Children []ecs.Entity

	local mgl32.Mat4
	clean bool
}

func NewTransform(pos mgl32.Vec3) Transform {
	return Transform{
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// SetDefaults resets to the origin with identity rotation and unit scale.
func (t *Transform) SetDefaults() {
	*t = NewTransform(mgl32.Vec3{})
}

// LocalMatrix returns Translation * Rotation * Scale, recomputed only when
// the transform changed.
func (t *Transform) LocalMatrix() mgl32.Mat4 {
	if !t.clean {
		tr := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
		sc := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
		t.local = tr.Mul4(t.Rotation.Normalize().Mat4()).Mul4(sc)
		t.clean = true
	}
	return t.local
}

// WorldMatrix currently equals LocalMatrix; parents do not propagate.
func (t *Transform) WorldMatrix() mgl32.Mat4 {
	return t.LocalMatrix()
}

func (t *Transform) MarkDirty() { t.clean = false }

func (t *Transform) Translate(delta mgl32.Vec3) {
	t.Position = t.Position.Add(delta)
	t.MarkDirty()
}

// Rotate post-multiplies the current rotation by q.
func (t *Transform) Rotate(q mgl32.Quat) {
	t.Rotation = t.Rotation.Mul(q)
	t.MarkDirty()
}

func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.Position = p
	t.MarkDirty()
}

func (t *Transform) SetRotation(q mgl32.Quat) {
	t.Rotation = q
	t.MarkDirty()
}

func (t *Transform) SetScale(s mgl32.Vec3) {
	t.Scale = s
	t.MarkDirty()
}

// SetEulerAngles sets the rotation from roll (X), pitch (Y) and yaw (Z) in
// radians.
func (t *Transform) SetEulerAngles(e mgl32.Vec3) {
	t.Rotation = QuatFromEuler(e)
	t.MarkDirty()
}

func (t *Transform) EulerAngles() mgl32.Vec3 {
	return EulerFromQuat(t.Rotation)
}

func (t *Transform) Forward() mgl32.Vec3 { return t.Rotation.Rotate(AxisForward) }
func (t *Transform) Right() mgl32.Vec3   { return t.Rotation.Rotate(AxisRight) }
func (t *Transform) Up() mgl32.Vec3      { return t.Rotation.Rotate(AxisUp) }

// SetParent records the parent link only. Callers maintain the parent's
// Children list with AddChild / RemoveChild.
func (t *Transform) SetParent(p ecs.Entity) {
	t.Parent = p
	t.MarkDirty()
}

func (t *Transform) AddChild(child ecs.Entity) {
	t.Children = append(t.Children, child)
}

func (t *Transform) RemoveChild(child ecs.Entity) {
	for i, c := range t.Children {
		if c == child {
			// clone first: copies of the Transform share the backing array
			t.Children = slices.Delete(slices.Clone(t.Children), i, i+1)
			return
		}
	}
}

func (t Transform) String() string {
	return fmt.Sprintf("Transform(pos: %s, rot: %s, scale: %s)",
		vecString(t.Position), quatString(t.Rotation), vecString(t.Scale))
}

// QuatFromEuler builds a quaternion from X/Y/Z angles in radians, applied
// X first, then Y, then Z.
func QuatFromEuler(e mgl32.Vec3) mgl32.Quat {
	return mgl32.AnglesToQuat(e.Z(), e.Y(), e.X(), mgl32.ZYX)
}

// EulerFromQuat is the inverse of QuatFromEuler. Pitch is clamped to ±90°.
func EulerFromQuat(q mgl32.Quat) mgl32.Vec3 {
	w, x, y, z := float64(q.W), float64(q.V[0]), float64(q.V[1]), float64(q.V[2])

	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	var pitch float64
	sinp := 2 * (w*y - z*x)
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	yaw := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return mgl32.Vec3{float32(roll), float32(pitch), float32(yaw)}
}

func vecString(v mgl32.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}

func quatString(q mgl32.Quat) string {
	return fmt.Sprintf("(%g, %g, %g, %g)", q.V[0], q.V[1], q.V[2], q.W)
}
