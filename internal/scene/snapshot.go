package scene

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/core/ecs"
	"github.com/nexusengine/nexus/internal/data"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

// Snapshot is a serialisable copy of a registry's scene components. Digest
// covers Document only, so two captures of an unchanged scene match.
type Snapshot struct {
	ID       uuid.UUID
	Scene    string
	TakenAt  time.Time
	Entities int
	Document []byte // YAML scene table
	Digest   [blake2b.Size256]byte
}

// Capture converts every live entity back into a scene entry, in ID order.
func Capture(reg *ecs.Registry, name string) (*Snapshot, error) {
	tbl := data.SceneTable{Name: name}
	for _, e := range reg.Entities() {
		tbl.Entities = append(tbl.Entities, captureEntity(e))
	}
	doc, err := yaml.Marshal(&tbl)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return &Snapshot{
		ID:       uuid.New(),
		Scene:    name,
		TakenAt:  time.Now().UTC(),
		Entities: len(tbl.Entities),
		Document: doc,
		Digest:   blake2b.Sum256(doc),
	}, nil
}

func captureEntity(e ecs.Entity) data.EntityEntry {
	var entry data.EntityEntry
	if n, err := ecs.Get[component.Name](e); err == nil {
		entry.Name = n.Value
	}
	if t, err := ecs.Get[component.Tag](e); err == nil {
		entry.Tag = t.Value
	}
	if t, err := ecs.Get[component.Transform](e); err == nil {
		scale := data.Vec3(t.Scale)
		entry.Transform = &data.TransformEntry{
			Position: data.Vec3(t.Position),
			Rotation: radToDeg(t.EulerAngles()),
			Scale:    &scale,
		}
	}
	if m, err := ecs.Get[component.MeshRenderer](e); err == nil && m.IsValid() {
		entry.Mesh = &data.MeshEntry{
			Mesh:       m.MeshPath,
			Material:   m.MaterialPath,
			MeshID:     m.MeshID,
			MaterialID: m.MaterialID,
			Hidden:     !m.Visible,
			NoShadows:  !m.CastShadows,
			NoReceive:  !m.ReceiveShadows,
		}
	}
	if l, err := ecs.Get[component.Light](e); err == nil {
		color := data.Vec3(l.Color)
		le := &data.LightEntry{
			Color:     &color,
			Intensity: l.Intensity,
			NoShadows: !l.CastShadows,
			Inactive:  !l.Active,
		}
		switch l.Type {
		case component.LightPoint:
			le.Type, le.Range = "point", l.Range
		case component.LightSpot:
			le.Type, le.Range = "spot", l.Range
			le.InnerCone, le.OuterCone = l.InnerCone, l.OuterCone
		default:
			le.Type = "directional"
		}
		entry.Light = le
	}
	if c, err := ecs.Get[component.Camera](e); err == nil {
		ce := &data.CameraEntry{
			Projection: "perspective",
			FOV:        c.FOV,
			Near:       c.Near,
			Far:        c.Far,
			Primary:    c.Primary,
			Inactive:   !c.Active,
		}
		if c.Projection == component.Orthographic {
			ce.Projection, ce.OrthoSize = "orthographic", c.OrthoSize
		}
		entry.Camera = ce
	}
	if s, err := ecs.Get[component.Spin](e); err == nil {
		rate := radToDeg(s.Rate)
		entry.Spin = &rate
	}
	return entry
}

// Restore parses the snapshot document and spawns it into reg.
func Restore(reg *ecs.Registry, snap *Snapshot, aspect float32, log *zap.Logger) ([]ecs.Entity, error) {
	if blake2b.Sum256(snap.Document) != snap.Digest {
		return nil, fmt.Errorf("snapshot %s: digest mismatch", snap.ID)
	}
	tbl, err := data.ParseScene(snap.Document, "")
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	return Spawn(reg, tbl, aspect, log)
}

// Clear destroys every live entity in reg.
func Clear(reg *ecs.Registry) int {
	ents := reg.Entities()
	for _, e := range ents {
		reg.DestroyEntity(e)
	}
	return len(ents)
}
