package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/core/ecs"
	"github.com/nexusengine/nexus/internal/data"
	"go.uber.org/zap"
)

const demo = `
name: demo
entities:
  - name: Cube
    tag: Prop
    transform:
      position: [1, 0, 0]
      rotation: [0, 45, 0]
    mesh:
      mesh: cube.obj
      material: default.mat
    spin: [0, 90, 0]
  - name: Lamp
    transform:
      position: [0, 3, 0]
    light:
      type: spot
      intensity: 2
  - name: Eye
    transform:
      position: [0, 0, 10]
    camera:
      fov: 60
      primary: true
  - name: Cube
`

func loadDemo(t *testing.T) *data.SceneTable {
	t.Helper()
	tbl, err := data.ParseScene([]byte(demo), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return tbl
}

func TestSpawnAttachesSections(t *testing.T) {
	reg := ecs.NewRegistry()
	ents, err := Spawn(reg, loadDemo(t), 2, zap.NewNop())
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(ents) != 4 || reg.EntityCount() != 4 {
		t.Fatalf("spawned %d entities, registry has %d", len(ents), reg.EntityCount())
	}

	cube := ents[0]
	mr, err := ecs.Get[component.MeshRenderer](cube)
	if err != nil || mr.MeshPath != "cube.obj" || mr.MaterialPath != "default.mat" || !mr.Visible {
		t.Fatalf("cube mesh = %+v, %v", mr, err)
	}
	tr, _ := ecs.Get[component.Transform](cube)
	if tr.Position != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("cube position = %v", tr.Position)
	}
	if tag, _ := ecs.Get[component.Tag](cube); tag == nil || !tag.HasTag("Prop") {
		t.Fatalf("cube tag missing")
	}
	if spin, _ := ecs.Get[component.Spin](cube); spin == nil || !mgl32.FloatEqualThreshold(spin.Rate[1], mgl32.DegToRad(90), 1e-5) {
		t.Fatalf("cube spin = %v", spin)
	}

	light, err := ecs.Get[component.Light](ents[1])
	if err != nil || light.Type != component.LightSpot || light.Intensity != 2 || light.Range != 10 || light.OuterCone != 45 {
		t.Fatalf("lamp light = %+v, %v", light, err)
	}

	cam, err := ecs.Get[component.Camera](ents[2])
	if err != nil || cam.FOV != 60 || cam.AspectRatio != 2 || !cam.Primary || cam.Far != 100 {
		t.Fatalf("eye camera = %+v, %v", cam, err)
	}

	if ecs.Has[component.Transform](ents[3]) || !ecs.Has[component.Name](ents[3]) {
		t.Fatalf("bare entry should only carry a name")
	}
}

func TestFindByNameReturnsLowestID(t *testing.T) {
	reg := ecs.NewRegistry()
	ents, err := Spawn(reg, loadDemo(t), 1, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	got, ok := FindByName(reg, "Cube")
	if !ok || got != ents[0] {
		t.Fatalf("FindByName(Cube) = %v, %v", got, ok)
	}
	reg.DestroyEntity(ents[0])
	if got, ok = FindByName(reg, "Cube"); !ok || got != ents[3] {
		t.Fatalf("after destroy FindByName(Cube) = %v, %v", got, ok)
	}
	if _, ok := FindByName(reg, "Nobody"); ok {
		t.Fatalf("found an entity that does not exist")
	}
}

func TestCaptureIsStable(t *testing.T) {
	reg := ecs.NewRegistry()
	if _, err := Spawn(reg, loadDemo(t), 1, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	a, err := Capture(reg, "demo")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	b, err := Capture(reg, "demo")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if a.Digest != b.Digest {
		t.Fatalf("unchanged scene produced different digests")
	}
	if a.ID == b.ID {
		t.Fatalf("snapshots share an id")
	}
	if a.Entities != 4 {
		t.Fatalf("captured %d entities", a.Entities)
	}

	cube, _ := FindByName(reg, "Cube")
	tr, _ := ecs.Get[component.Transform](cube)
	tr.Translate(mgl32.Vec3{0, 1, 0})
	c, err := Capture(reg, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if c.Digest == a.Digest {
		t.Fatalf("moved entity did not change the digest")
	}
}

func TestRestoreRebuildsScene(t *testing.T) {
	src := ecs.NewRegistry()
	if _, err := Spawn(src, loadDemo(t), 1, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	eye, _ := FindByName(src, "Eye")
	cam, _ := ecs.Get[component.Camera](eye)
	cam.Active = false
	srcLamp, _ := FindByName(src, "Lamp")
	light, _ := ecs.Get[component.Light](srcLamp)
	light.Active, light.CastShadows = false, false
	srcCube, _ := FindByName(src, "Cube")
	mesh, _ := ecs.Get[component.MeshRenderer](srcCube)
	mesh.CastShadows = false

	snap, err := Capture(src, "demo")
	if err != nil {
		t.Fatal(err)
	}

	dst := ecs.NewRegistry()
	ents, err := Restore(dst, snap, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(ents) != src.EntityCount() {
		t.Fatalf("restored %d of %d entities", len(ents), src.EntityCount())
	}
	lamp, ok := FindByName(dst, "Lamp")
	if !ok {
		t.Fatalf("lamp missing after restore")
	}
	if l, err := ecs.Get[component.Light](lamp); err != nil || l.Type != component.LightSpot || l.Intensity != 2 || l.Active || l.CastShadows {
		t.Fatalf("lamp light = %+v, %v", l, err)
	}
	eye, _ = FindByName(dst, "Eye")
	if c, err := ecs.Get[component.Camera](eye); err != nil || c.Active || !c.Primary {
		t.Fatalf("eye camera = %+v, %v", c, err)
	}
	cube, _ := FindByName(dst, "Cube")
	if m, err := ecs.Get[component.MeshRenderer](cube); err != nil || m.CastShadows || !m.ReceiveShadows || !m.Visible {
		t.Fatalf("cube mesh = %+v, %v", m, err)
	}
	tr, err := ecs.Get[component.Transform](cube)
	if err != nil {
		t.Fatal(err)
	}
	if yaw := mgl32.RadToDeg(tr.EulerAngles()[1]); !mgl32.FloatEqualThreshold(yaw, 45, 1e-2) {
		t.Fatalf("cube rotation = %v degrees", yaw)
	}
}

func TestRestoreRejectsTamperedDocument(t *testing.T) {
	reg := ecs.NewRegistry()
	if _, err := Spawn(reg, loadDemo(t), 1, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	snap, err := Capture(reg, "demo")
	if err != nil {
		t.Fatal(err)
	}
	snap.Document = append(snap.Document, '#')
	if _, err := Restore(ecs.NewRegistry(), snap, 1, zap.NewNop()); err == nil {
		t.Fatalf("expected digest mismatch")
	}
}

func TestClear(t *testing.T) {
	reg := ecs.NewRegistry()
	ents, err := Spawn(reg, loadDemo(t), 1, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if n := Clear(reg); n != len(ents) {
		t.Fatalf("cleared %d, want %d", n, len(ents))
	}
	if reg.EntityCount() != 0 || len(ecs.GetEntitiesWith[component.Name](reg)) != 0 {
		t.Fatalf("registry not empty after clear")
	}
	for _, e := range ents {
		if e.Alive() {
			t.Fatalf("%v still valid", e)
		}
	}
}
