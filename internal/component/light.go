package component

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type LightType int

const (
	LightDirectional LightType = iota // sun-like, infinite distance
	LightPoint                        // radiates in all directions
	LightSpot                         // cone
)

func (t LightType) String() string {
	switch t {
	case LightDirectional:
		return "Directional"
	case LightPoint:
		return "Point"
	case LightSpot:
		return "Spot"
	}
	return "Unknown"
}

// ParseLightType maps a scene-file name to a LightType.
func ParseLightType(s string) (LightType, error) {
	switch s {
	case "", "directional":
		return LightDirectional, nil
	case "point":
		return LightPoint, nil
	case "spot":
		return LightSpot, nil
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}

type Light struct {
	Type      LightType
	Color     mgl32.Vec3 // RGB, 0-1
	Intensity float32

	Range float32 // point / spot

	InnerCone float32 // spot, degrees
	OuterCone float32 // spot, degrees

	Active      bool
	CastShadows bool
}

func (l *Light) SetDefaults() {
	*l = NewDirectionalLight(mgl32.Vec3{1, 1, 1}, 1)
}

func newLight(t LightType, color mgl32.Vec3, intensity float32) Light {
	return Light{
		Type:        t,
		Color:       color,
		Intensity:   intensity,
		Range:       10,
		InnerCone:   30,
		OuterCone:   45,
		Active:      true,
		CastShadows: true,
	}
}

func NewDirectionalLight(color mgl32.Vec3, intensity float32) Light {
	return newLight(LightDirectional, color, intensity)
}

func NewPointLight(rng float32, color mgl32.Vec3, intensity float32) Light {
	l := newLight(LightPoint, color, intensity)
	l.Range = rng
	return l
}

func NewSpotLight(rng, inner, outer float32, color mgl32.Vec3, intensity float32) Light {
	l := newLight(LightSpot, color, intensity)
	l.Range = rng
	l.InnerCone = inner
	l.OuterCone = outer
	return l
}

func (l Light) String() string {
	return fmt.Sprintf("Light(%s, Color: %s, Intensity: %g)", l.Type, vecString(l.Color), l.Intensity)
}
