package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// APIVersion is exposed to scripts as API_VERSION.
const APIVersion = 1

// Engine wraps a single gopher-lua VM bound to one registry.
// Single-goroutine access only (frame loop).
type Engine struct {
	dir string
	reg *ecs.Registry
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM, installs the entity API and runs every .lua
// file in dir in name order. A missing dir yields an engine with no scripts.
func NewEngine(dir string, reg *ecs.Registry, log *zap.Logger) (*Engine, error) {
	e := &Engine{dir: dir, reg: reg, log: log}
	vm, err := e.boot()
	if err != nil {
		return nil, err
	}
	e.vm = vm
	return e, nil
}

func (e *Engine) boot() (*lua.LState, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))
	e.install(vm)
	if err := loadDir(vm, e.dir, e.log); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return vm, nil
}

// Reload rebuilds the VM from disk. On failure the old VM stays active.
func (e *Engine) Reload() error {
	vm, err := e.boot()
	if err != nil {
		return err
	}
	e.vm.Close()
	e.vm = vm
	e.log.Info("scripts reloaded", zap.String("dir", e.dir))
	return nil
}

// loadDir runs all .lua files in a directory.
func loadDir(vm *lua.LState, dir string, log *zap.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// OnUpdate calls the global on_update(dt) with dt in seconds, if defined.
// Script errors are logged and swallowed.
func (e *Engine) OnUpdate(dt time.Duration) {
	e.callHook("on_update", lua.LNumber(dt.Seconds()))
}

// OnSceneLoaded calls on_scene_loaded(path, entities), if defined.
func (e *Engine) OnSceneLoaded(path string, entities int) {
	e.callHook("on_scene_loaded", lua.LString(path), lua.LNumber(entities))
}

// HasHook reports whether a global function of that name exists.
func (e *Engine) HasHook(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

func (e *Engine) callHook(name string, args ...lua.LValue) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua hook error", zap.String("func", name), zap.Error(err))
	}
}

// DoString runs a chunk against the live VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// --- entity API ---

// kind is a component type scripts can name.
type kind struct {
	has   func(ecs.Entity) bool
	count func(*ecs.Registry) int
}

func kindOf[T any]() kind {
	return kind{
		has:   ecs.Has[T],
		count: func(r *ecs.Registry) int { return ecs.GetView[T](r).Len() },
	}
}

var kinds = map[string]kind{
	"name":      kindOf[component.Name](),
	"tag":       kindOf[component.Tag](),
	"transform": kindOf[component.Transform](),
	"mesh":      kindOf[component.MeshRenderer](),
	"light":     kindOf[component.Light](),
	"camera":    kindOf[component.Camera](),
	"spin":      kindOf[component.Spin](),
}

func (e *Engine) install(vm *lua.LState) {
	for name, fn := range map[string]lua.LGFunction{
		"spawn":        e.luaSpawn,
		"destroy":      e.luaDestroy,
		"find":         e.luaFind,
		"position":     e.luaPosition,
		"set_position": e.luaSetPosition,
		"translate":    e.luaTranslate,
		"set_spin":     e.luaSetSpin,
		"has":          e.luaHas,
		"count":        e.luaCount,
		"log":          e.luaLog,
	} {
		vm.SetGlobal(name, vm.NewFunction(fn))
	}
}

// entityArg resolves argument n to a live entity.
func (e *Engine) entityArg(L *lua.LState, n int) (ecs.Entity, bool) {
	id := ecs.EntityID(L.CheckInt(n))
	ent := e.reg.Entity(id)
	return ent, e.reg.IsValidEntity(ent)
}

func vec3Arg(L *lua.LState, n int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(L.CheckNumber(n)),
		float32(L.CheckNumber(n + 1)),
		float32(L.CheckNumber(n + 2)),
	}
}

// spawn(name) -> id. The entity gets a Name and a Transform at the origin.
func (e *Engine) luaSpawn(L *lua.LState) int {
	ent := e.reg.CreateEntity()
	name := L.OptString(1, "Entity")
	ecs.AddWith(ent, component.Name{Value: name})
	ecs.Add[component.Transform](ent)
	L.Push(lua.LNumber(ent.ID()))
	return 1
}

// destroy(id) -> bool. Destruction happens at the end of the frame.
func (e *Engine) luaDestroy(L *lua.LState) int {
	ent, ok := e.entityArg(L, 1)
	if ok {
		e.reg.MarkForDestruction(ent)
	}
	L.Push(lua.LBool(ok))
	return 1
}

// find(name) -> id or nil, lowest ID first.
func (e *Engine) luaFind(L *lua.LState) int {
	name := L.CheckString(1)
	var found ecs.Entity
	ecs.GetView[component.Name](e.reg).Each(func(ent ecs.Entity, n *component.Name) {
		if n.Value == name && (found == ecs.Null || ent.Less(found)) {
			found = ent
		}
	})
	if found == ecs.Null {
		L.Push(lua.LNil)
	} else {
		L.Push(lua.LNumber(found.ID()))
	}
	return 1
}

// position(id) -> x, y, z or nil.
func (e *Engine) luaPosition(L *lua.LState) int {
	ent, ok := e.entityArg(L, 1)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	t, err := ecs.Get[component.Transform](ent)
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(t.Position.X()))
	L.Push(lua.LNumber(t.Position.Y()))
	L.Push(lua.LNumber(t.Position.Z()))
	return 3
}

func (e *Engine) withTransform(L *lua.LState, fn func(*component.Transform)) int {
	ent, ok := e.entityArg(L, 1)
	if ok {
		t, err := ecs.Get[component.Transform](ent)
		if err != nil {
			ok = false
		} else {
			fn(t)
		}
	}
	L.Push(lua.LBool(ok))
	return 1
}

// set_position(id, x, y, z) -> bool
func (e *Engine) luaSetPosition(L *lua.LState) int {
	p := vec3Arg(L, 2)
	return e.withTransform(L, func(t *component.Transform) { t.SetPosition(p) })
}

// translate(id, dx, dy, dz) -> bool
func (e *Engine) luaTranslate(L *lua.LState) int {
	d := vec3Arg(L, 2)
	return e.withTransform(L, func(t *component.Transform) { t.Translate(d) })
}

// set_spin(id, x, y, z) -> bool, rates in degrees per second.
func (e *Engine) luaSetSpin(L *lua.LState) int {
	r := vec3Arg(L, 2)
	ent, ok := e.entityArg(L, 1)
	if ok {
		rate := mgl32.Vec3{mgl32.DegToRad(r[0]), mgl32.DegToRad(r[1]), mgl32.DegToRad(r[2])}
		if s, err := ecs.AddWith(ent, component.Spin{Rate: rate}); err == nil {
			s.Rate = rate // AddWith keeps an existing Spin
		}
	}
	L.Push(lua.LBool(ok))
	return 1
}

// has(id, kind) -> bool
func (e *Engine) luaHas(L *lua.LState) int {
	ent, ok := e.entityArg(L, 1)
	k, known := kinds[L.CheckString(2)]
	if !known {
		L.ArgError(2, "unknown component kind")
		return 0
	}
	L.Push(lua.LBool(ok && k.has(ent)))
	return 1
}

// count([kind]) -> number. Without a kind, counts live entities.
func (e *Engine) luaCount(L *lua.LState) int {
	if L.GetTop() == 0 {
		L.Push(lua.LNumber(e.reg.EntityCount()))
		return 1
	}
	k, known := kinds[L.CheckString(1)]
	if !known {
		L.ArgError(1, "unknown component kind")
		return 0
	}
	L.Push(lua.LNumber(k.count(e.reg)))
	return 1
}

// log(msg)
func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
