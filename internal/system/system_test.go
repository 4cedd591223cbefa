package system

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/core/ecs"
	"github.com/nexusengine/nexus/internal/core/event"
	coresys "github.com/nexusengine/nexus/internal/core/system"
	"github.com/nexusengine/nexus/internal/render"
	"github.com/nexusengine/nexus/internal/scene"
	"go.uber.org/zap"
)

func TestSpinSystemRotates(t *testing.T) {
	reg := ecs.NewRegistry()
	e := reg.CreateEntity()
	ecs.AddWith(e, component.NewTransform(mgl32.Vec3{}))
	ecs.AddWith(e, component.Spin{Rate: mgl32.Vec3{0, math.Pi / 2, 0}})
	still := reg.CreateEntity()
	ecs.AddWith(still, component.NewTransform(mgl32.Vec3{}))

	NewSpinSystem(reg).Update(500 * time.Millisecond)

	tr, _ := ecs.Get[component.Transform](e)
	if got := tr.EulerAngles()[1]; !mgl32.FloatEqualThreshold(got, math.Pi/4, 1e-4) {
		t.Fatalf("pitch = %v, want pi/4", got)
	}
	st, _ := ecs.Get[component.Transform](still)
	if st.Rotation != mgl32.QuatIdent() {
		t.Fatalf("entity without Spin rotated")
	}
}

func TestCleanupAnnouncesDestroyed(t *testing.T) {
	reg := ecs.NewRegistry()
	bus := event.NewBus()
	var got []ecs.EntityID
	event.Subscribe(bus, func(ev event.EntityDestroyed) { got = append(got, ev.ID) })

	a, b := reg.CreateEntity(), reg.CreateEntity()
	reg.MarkForDestruction(b)
	reg.MarkForDestruction(b)

	NewCleanupSystem(reg, bus).Update(0)
	if b.Alive() || !a.Alive() {
		t.Fatalf("wrong entity destroyed")
	}
	if len(got) != 0 {
		t.Fatalf("events delivered in the same frame")
	}
	NewInputSystem(bus).Update(0)
	if len(got) != 1 || got[0] != b.ID() {
		t.Fatalf("destroyed events = %v", got)
	}
}

func TestRenderSystemSubmitsAndAnnounces(t *testing.T) {
	reg := ecs.NewRegistry()
	bus := event.NewBus()
	rec := render.NewRecorder()
	e := reg.CreateEntity()
	ecs.AddWith(e, component.NewTransform(mgl32.Vec3{}))
	ecs.AddWith(e, component.NewMeshRenderer("cube.obj", "default.mat"))

	var frames []event.FrameRendered
	event.Subscribe(bus, func(ev event.FrameRendered) { frames = append(frames, ev) })

	rs := NewRenderSystem(reg, rec, bus, component.NewCamera(45, 1, 0.1, 100), 2, zap.NewNop())
	rs.Update(0)
	rs.Update(0)
	bus.Swap()
	bus.Dispatch()

	if rec.Frames() != 2 || rec.Last().Index != 2 || len(rec.Last().Commands) != 1 {
		t.Fatalf("recorder saw %d frames, last %+v", rec.Frames(), rec.Last())
	}
	if len(frames) != 2 || frames[1].Frame != 2 || frames[1].DrawCalls != 1 {
		t.Fatalf("frame events = %+v", frames)
	}
}

type failingBackend struct{}

func (failingBackend) Submit(render.Frame) error { return errors.New("device lost") }

func TestRenderSystemSubmitError(t *testing.T) {
	bus := event.NewBus()
	rs := NewRenderSystem(ecs.NewRegistry(), failingBackend{}, bus, component.Camera{}, 0, zap.NewNop())
	rs.Update(0)
	if bus.Pending() != 0 {
		t.Fatalf("failed frame was announced")
	}
}

type memStore struct {
	saved []*scene.Snapshot
	calls int
}

func (m *memStore) Save(_ context.Context, snap *scene.Snapshot) (bool, error) {
	m.calls++
	if n := len(m.saved); n > 0 && m.saved[n-1].Digest == snap.Digest {
		return false, nil
	}
	m.saved = append(m.saved, snap)
	return true, nil
}

func TestPersistenceInterval(t *testing.T) {
	reg := ecs.NewRegistry()
	e := reg.CreateEntity()
	ecs.AddWith(e, component.Name{Value: "Cube"})
	store := &memStore{}
	ps := NewPersistenceSystem(reg, store, "demo", 3, zap.NewNop())

	for i := 0; i < 6; i++ {
		ps.Update(0)
	}
	if store.calls != 2 || len(store.saved) != 1 {
		t.Fatalf("calls=%d saved=%d", store.calls, len(store.saved))
	}
	if store.saved[0].Scene != "demo" || store.saved[0].Entities != 1 {
		t.Fatalf("snapshot = %+v", store.saved[0])
	}

	ecs.AddWith(e, component.Tag{Value: "Prop"})
	if err := ps.SaveNow(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(store.saved) != 2 {
		t.Fatalf("changed scene not saved")
	}

	idle := NewPersistenceSystem(reg, store, "demo", 0, zap.NewNop())
	for i := 0; i < 10; i++ {
		idle.Update(0)
	}
	if store.calls != 3 {
		t.Fatalf("interval 0 should never save on its own")
	}
}

type reloadCounter struct{ n int }

func (r *reloadCounter) Reload() error { r.n++; return nil }

func writeScene(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReloadSystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	writeScene(t, path, "name: demo\nentities:\n  - name: A\n  - name: B\n")

	reg := ecs.NewRegistry()
	bus := event.NewBus()
	var loaded []event.SceneLoaded
	event.Subscribe(bus, func(ev event.SceneLoaded) { loaded = append(loaded, ev) })

	changes := make(chan string, 4)
	scripts := &reloadCounter{}
	rs := NewReloadSystem(reg, bus, path, "", 1, changes, scripts, zap.NewNop())
	if err := rs.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if reg.EntityCount() != 2 || rs.Name() != "demo" {
		t.Fatalf("count=%d name=%q", reg.EntityCount(), rs.Name())
	}

	// nothing pending: no work
	rs.Update(0)
	if scripts.n != 0 || reg.EntityCount() != 2 {
		t.Fatalf("idle update changed state")
	}

	writeScene(t, path, "name: demo\nentities:\n  - name: C\n")
	changes <- path
	changes <- filepath.Join(dir, "other.yaml")
	changes <- filepath.Join(dir, "main.lua")
	rs.Update(0)
	if reg.EntityCount() != 1 || scripts.n != 1 {
		t.Fatalf("after reload count=%d scripts=%d", reg.EntityCount(), scripts.n)
	}

	// a broken file keeps the current scene
	writeScene(t, path, "entities:\n  - light: {type: laser}\n")
	changes <- path
	rs.Update(0)
	if reg.EntityCount() != 1 {
		t.Fatalf("broken scene replaced the registry")
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	changes <- path
	rs.Update(0)
	if reg.EntityCount() != 1 {
		t.Fatalf("missing scene file replaced the registry")
	}

	NewInputSystem(bus).Update(0)
	if len(loaded) != 2 || loaded[1].Entities != 1 {
		t.Fatalf("scene events = %+v", loaded)
	}

	close(changes)
	rs.Update(0)
}

func TestSystemsRunInPhaseOrder(t *testing.T) {
	reg := ecs.NewRegistry()
	bus := event.NewBus()
	r := coresys.NewRunner()
	rec := render.NewRecorder()

	e := reg.CreateEntity()
	ecs.AddWith(e, component.NewTransform(mgl32.Vec3{}))
	ecs.AddWith(e, component.NewMeshRenderer("cube.obj", ""))

	r.Register(NewCleanupSystem(reg, bus))
	r.Register(NewRenderSystem(reg, rec, bus, component.Camera{}, 0, zap.NewNop()))
	r.Register(NewInputSystem(bus))

	// the entity is drawn in this frame and destroyed at its end
	reg.MarkForDestruction(e)
	r.Tick(time.Second / 60)
	if len(rec.Last().Commands) != 1 || e.Alive() {
		t.Fatalf("render must see the entity before cleanup destroys it")
	}
	r.Tick(time.Second / 60)
	if len(rec.Last().Commands) != 0 {
		t.Fatalf("destroyed entity still drawn")
	}
}
