package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/core/ecs"
	"github.com/nexusengine/nexus/internal/data"
	"go.uber.org/zap"
)

// Spawn creates one entity per table entry and attaches the components the
// entry describes. aspect feeds every Camera. On error, entities created so
// far are destroyed again.
func Spawn(reg *ecs.Registry, tbl *data.SceneTable, aspect float32, log *zap.Logger) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, len(tbl.Entities))
	for i := range tbl.Entities {
		e, err := spawnEntry(reg, &tbl.Entities[i], aspect)
		if err != nil {
			for _, done := range out {
				reg.DestroyEntity(done)
			}
			return nil, fmt.Errorf("spawn entity %d: %w", i, err)
		}
		out = append(out, e)
	}
	log.Debug("scene spawned",
		zap.String("scene", tbl.Name),
		zap.Int("entities", len(out)),
	)
	return out, nil
}

func spawnEntry(reg *ecs.Registry, entry *data.EntityEntry, aspect float32) (ecs.Entity, error) {
	e := reg.CreateEntity()
	if err := attach(e, entry, aspect); err != nil {
		reg.DestroyEntity(e)
		return ecs.Null, err
	}
	return e, nil
}

func attach(e ecs.Entity, entry *data.EntityEntry, aspect float32) error {
	if entry.Name != "" {
		if _, err := ecs.AddWith(e, component.Name{Value: entry.Name}); err != nil {
			return err
		}
	}
	if entry.Tag != "" {
		if _, err := ecs.AddWith(e, component.Tag{Value: entry.Tag}); err != nil {
			return err
		}
	}
	if tr := entry.Transform; tr != nil {
		t := component.NewTransform(vec(tr.Position))
		t.SetEulerAngles(degToRad(vec(tr.Rotation)))
		if tr.Scale != nil {
			t.SetScale(vec(*tr.Scale))
		}
		if _, err := ecs.AddWith(e, t); err != nil {
			return err
		}
	}
	if m := entry.Mesh; m != nil {
		mr := component.NewMeshRenderer(m.Mesh, m.Material)
		mr.MeshID, mr.MaterialID = m.MeshID, m.MaterialID
		mr.Visible = !m.Hidden
		mr.CastShadows, mr.ReceiveShadows = !m.NoShadows, !m.NoReceive
		if _, err := ecs.AddWith(e, mr); err != nil {
			return err
		}
	}
	if l := entry.Light; l != nil {
		light, err := buildLight(l)
		if err != nil {
			return err
		}
		if _, err := ecs.AddWith(e, light); err != nil {
			return err
		}
	}
	if c := entry.Camera; c != nil {
		if _, err := ecs.AddWith(e, buildCamera(c, aspect)); err != nil {
			return err
		}
	}
	if s := entry.Spin; s != nil {
		if _, err := ecs.AddWith(e, component.Spin{Rate: degToRad(vec(*s))}); err != nil {
			return err
		}
	}
	return nil
}

func buildLight(l *data.LightEntry) (component.Light, error) {
	typ, err := component.ParseLightType(l.Type)
	if err != nil {
		return component.Light{}, err
	}
	color := mgl32.Vec3{1, 1, 1}
	if l.Color != nil {
		color = vec(*l.Color)
	}
	intensity := l.Intensity
	if intensity == 0 {
		intensity = 1
	}

	var light component.Light
	switch typ {
	case component.LightPoint:
		light = component.NewPointLight(orDefault(l.Range, 10), color, intensity)
	case component.LightSpot:
		light = component.NewSpotLight(orDefault(l.Range, 10), orDefault(l.InnerCone, 30), orDefault(l.OuterCone, 45), color, intensity)
	default:
		light = component.NewDirectionalLight(color, intensity)
	}
	light.CastShadows = !l.NoShadows
	light.Active = !l.Inactive
	return light, nil
}

func buildCamera(c *data.CameraEntry, aspect float32) component.Camera {
	cam := component.NewCamera(orDefault(c.FOV, 45), aspect, orDefault(c.Near, 0.1), orDefault(c.Far, 100))
	if c.Projection == "orthographic" {
		cam.SetOrthographic(orDefault(c.OrthoSize, 5), aspect, cam.Near, cam.Far)
	}
	cam.Primary = c.Primary
	cam.Active = !c.Inactive
	return cam
}

func orDefault(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}

func vec(v data.Vec3) mgl32.Vec3 { return mgl32.Vec3(v) }

func degToRad(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{mgl32.DegToRad(v[0]), mgl32.DegToRad(v[1]), mgl32.DegToRad(v[2])}
}

func radToDeg(v mgl32.Vec3) data.Vec3 {
	return data.Vec3{mgl32.RadToDeg(v[0]), mgl32.RadToDeg(v[1]), mgl32.RadToDeg(v[2])}
}

// FindByName returns the first live entity whose Name matches, in ID order.
func FindByName(reg *ecs.Registry, name string) (ecs.Entity, bool) {
	found := ecs.Null
	ecs.GetView[component.Name](reg).Each(func(e ecs.Entity, n *component.Name) {
		if n.Value == name && (found == ecs.Null || e.Less(found)) {
			found = e
		}
	})
	return found, found != ecs.Null
}
