package system

import (
	"time"

	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/world"
)

// SimulationSystem advances the world by the scaled tick duration.
// Phase 2 (Update).
type SimulationSystem struct {
	world     *world.World
	timeScale float64
	ticks     uint64
}

func NewSimulationSystem(w *world.World, timeScale float64) *SimulationSystem {
	return &SimulationSystem{world: w, timeScale: timeScale}
}

func (s *SimulationSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SimulationSystem) Update(dt time.Duration) {
	s.ticks++
	s.world.Tick(dt.Seconds() * s.timeScale)
}

// Ticks returns how many ticks have been simulated.
func (s *SimulationSystem) Ticks() uint64 { return s.ticks }
