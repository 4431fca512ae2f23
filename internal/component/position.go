package component

import (
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/geom"
)

type PositionState struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Position is where an actor is in world space. Other kinds read and write
// it directly during the tick.
type Position struct {
	ecs.Base
	S PositionState
}

func NewPosition(a *ecs.Actor) *Position {
	p := &Position{}
	p.Init(ecs.KindPosition, a, nil)
	return p
}

func (p *Position) State() any { return &p.S }

func (p *Position) Vec() geom.Vec { return geom.V(p.S.X, p.S.Y) }

func (p *Position) Set(v geom.Vec) {
	p.S.X = v.X
	p.S.Y = v.Y
}

// PositionLens resolves actor ids to their position component.
func PositionLens(w ecs.World) ecs.LensFunc[*Position] {
	return ecs.ComponentLens[*Position](w, ecs.KindPosition)
}
