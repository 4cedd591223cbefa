package system

import (
	"context"
	"time"

	"github.com/nexusengine/nexus/internal/core/ecs"
	coresys "github.com/nexusengine/nexus/internal/core/system"
	"github.com/nexusengine/nexus/internal/scene"
	"go.uber.org/zap"
)

// SnapshotStore is satisfied by persist.SnapshotRepo.
type SnapshotStore interface {
	Save(ctx context.Context, snap *scene.Snapshot) (bool, error)
}

// PersistenceSystem periodically snapshots the scene. Unchanged scenes are
// skipped by the store. Phase 4 (Persist).
type PersistenceSystem struct {
	reg       *ecs.Registry
	store     SnapshotStore
	scene     string
	log       *zap.Logger
	tickCount int
	interval  int // snapshot every N frames, 0 = only on SaveNow
}

func NewPersistenceSystem(reg *ecs.Registry, store SnapshotStore, sceneName string, intervalFrames int, log *zap.Logger) *PersistenceSystem {
	return &PersistenceSystem{
		reg:      reg,
		store:    store,
		scene:    sceneName,
		log:      log,
		interval: intervalFrames,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.SaveNow(ctx); err != nil {
		s.log.Error("scene snapshot failed", zap.String("scene", s.scene), zap.Error(err))
	}
}

// SaveNow captures and stores the scene immediately. Called on shutdown.
func (s *PersistenceSystem) SaveNow(ctx context.Context) error {
	snap, err := scene.Capture(s.reg, s.scene)
	if err != nil {
		return err
	}
	wrote, err := s.store.Save(ctx, snap)
	if err != nil {
		return err
	}
	if wrote {
		s.log.Debug("scene snapshot saved",
			zap.String("scene", s.scene),
			zap.Stringer("id", snap.ID),
			zap.Int("entities", snap.Entities),
		)
	}
	return nil
}

// SetScene changes the name future snapshots are stored under.
func (s *PersistenceSystem) SetScene(name string) { s.scene = name }
