package component

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

type Camera struct {
	FOV         float32 // vertical, degrees
	AspectRatio float32
	Near        float32
	Far         float32
	Projection  Projection
	OrthoSize   float32 // half-height of the orthographic view

	Primary bool
	Active  bool
}

func NewCamera(fov, aspect, near, far float32) Camera {
	return Camera{
		FOV:         fov,
		AspectRatio: aspect,
		Near:        near,
		Far:         far,
		Projection:  Perspective,
		OrthoSize:   5,
		Active:      true,
	}
}

func (c *Camera) SetDefaults() {
	*c = NewCamera(45, 16.0/9.0, 0.1, 100)
}

func (c Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Projection == Orthographic {
		hw := c.OrthoSize * c.AspectRatio
		hh := c.OrthoSize
		return mgl32.Ortho(-hw, hw, -hh, hh, c.Near, c.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) SetPerspective(fov, aspect, near, far float32) {
	c.Projection = Perspective
	c.FOV, c.AspectRatio, c.Near, c.Far = fov, aspect, near, far
}

func (c *Camera) SetOrthographic(size, aspect, near, far float32) {
	c.Projection = Orthographic
	c.OrthoSize, c.AspectRatio, c.Near, c.Far = size, aspect, near, far
}

func (c Camera) String() string {
	if c.Projection == Orthographic {
		return fmt.Sprintf("Camera(Orthographic, Size: %g)", c.OrthoSize)
	}
	return fmt.Sprintf("Camera(Perspective, FOV: %g°)", c.FOV)
}
