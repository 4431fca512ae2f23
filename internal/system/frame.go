package system

import (
	"time"

	coresys "github.com/l1jgo/simcore/internal/core/system"
	gonet "github.com/l1jgo/simcore/internal/net"
	"github.com/l1jgo/simcore/internal/world"
	"go.uber.org/zap"
)

// FrameSink receives encoded frames.
type FrameSink interface {
	Sessions() int
	Broadcast(data []byte)
}

// FrameSystem sends the active drawables to connected renderers.
// Phase 3 (Output).
type FrameSystem struct {
	world *world.World
	sink  FrameSink
	tick  uint64
	log   *zap.Logger
}

func NewFrameSystem(w *world.World, sink FrameSink, log *zap.Logger) *FrameSystem {
	return &FrameSystem{world: w, sink: sink, log: log}
}

func (s *FrameSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *FrameSystem) Update(_ time.Duration) {
	s.tick++
	if s.sink.Sessions() == 0 {
		return
	}
	data, err := gonet.EncodeFrame(s.tick, s.world.Frame())
	if err != nil {
		s.log.Error("encode frame", zap.Uint64("tick", s.tick), zap.Error(err))
		return
	}
	s.sink.Broadcast(data)
}
