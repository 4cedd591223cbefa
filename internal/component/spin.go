package component

import "github.com/go-gl/mathgl/mgl32"

// Spin rotates an entity's Transform at a constant rate, in radians per
// second around each local axis.
type Spin struct {
	Rate mgl32.Vec3
}

// Step returns the rotation to apply for a frame of dt seconds.
func (s Spin) Step(dt float32) mgl32.Quat {
	return QuatFromEuler(s.Rate.Mul(dt))
}
