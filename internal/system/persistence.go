package system

import (
	"context"
	"time"

	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/world"
	"go.uber.org/zap"
)

// SnapshotStore persists serialized worlds.
type SnapshotStore interface {
	Save(ctx context.Context, name string, blob []byte, actors int) (bool, error)
}

// PersistenceSystem periodically saves a snapshot of the world. Identical
// consecutive snapshots are skipped by the store. Phase 4 (Persist).
type PersistenceSystem struct {
	world     *world.World
	store     SnapshotStore
	name      string
	log       *zap.Logger
	tickCount int
	interval  int // auto-save every N ticks
}

func NewPersistenceSystem(w *world.World, store SnapshotStore, name string, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		world:    w,
		store:    store,
		name:     name,
		log:      log,
		interval: intervalTicks,
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
	s.SaveNow()
}

// SaveNow writes a snapshot immediately. Called for graceful shutdown too.
func (s *PersistenceSystem) SaveNow() {
	blob, err := s.world.Serialize()
	if err != nil {
		s.log.Error("serialize world", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	saved, err := s.store.Save(ctx, s.name, blob, s.world.Len())
	if err != nil {
		s.log.Error("save snapshot", zap.String("name", s.name), zap.Error(err))
		return
	}
	if saved {
		s.log.Info("snapshot saved", zap.String("name", s.name), zap.Int("actors", s.world.Len()), zap.Int("bytes", len(blob)))
	}
}
