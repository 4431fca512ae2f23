package component

import (
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/geom"
)

type ScreenBoundsState struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ScreenBounds is the viewport. It lives on the root actor; when the root
// also has a position the viewport is offset by it, so anchoring the root
// to another actor makes the view follow that actor.
type ScreenBounds struct {
	ecs.Base
	S ScreenBoundsState
}

func NewScreenBounds(a *ecs.Actor) *ScreenBounds {
	s := &ScreenBounds{S: ScreenBoundsState{W: 1366, H: 768}}
	s.Init(ecs.KindScreenBounds, a, nil)
	return s
}

func (s *ScreenBounds) State() any { return &s.S }

// Bounds returns the visible region in world space.
func (s *ScreenBounds) Bounds() geom.Bounds {
	origin := geom.V(s.S.X, s.S.Y)
	if pos, ok := ecs.Get[*Position](s.Actor(), ecs.KindPosition); ok {
		origin = origin.Add(pos.Vec())
	}
	return geom.Bounds{ID: s.Actor().ID.String(), TopLeft: origin, W: s.S.W, H: s.S.H}
}
