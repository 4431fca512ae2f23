package component

import (
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/geom"
	"github.com/l1jgo/simcore/internal/physics"
)

type ForcesState struct {
	GravityX      float64 `json:"gravityX"`
	GravityY      float64 `json:"gravityY"`
	MediumDensity float64 `json:"mediumDensity"`
}

// Forces holds the world-scoped forces. It lives on the root actor.
type Forces struct {
	ecs.Base
	S ForcesState
}

func NewForces(a *ecs.Actor) *Forces {
	f := &Forces{}
	f.Init(ecs.KindForces, a, nil)
	return f
}

func (f *Forces) State() any { return &f.S }

// List returns the forces every moving body is subject to.
func (f *Forces) List() []physics.Force {
	var out []physics.Force
	if g := geom.V(f.S.GravityX, f.S.GravityY); !g.IsZero() {
		out = append(out, physics.Acceleration(g))
	}
	if f.S.MediumDensity > 0 {
		out = append(out, physics.Medium(f.S.MediumDensity))
	}
	return out
}

// WorldForces reads the active forces component of w's root actor. A world
// without one has no ambient forces.
func WorldForces(w ecs.World) []physics.Force {
	f, ok := ecs.Get[*Forces](w.Root(), ecs.KindForces)
	if !ok || !f.Active() {
		return nil
	}
	return f.List()
}
