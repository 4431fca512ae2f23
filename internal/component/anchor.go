package component

import (
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/geom"
	"go.uber.org/zap"
)

type AnchorState struct {
	TargetActor string  `json:"targetActor"`
	OffsetX     float64 `json:"offsetX"`
	OffsetY     float64 `json:"offsetY"`
}

// Anchor pins its actor's position to another actor's position plus an
// offset. The target is held by id; a missing target leaves the actor where
// it is.
type Anchor struct {
	ecs.Base
	S AnchorState

	target ecs.LensFunc[*Position]
}

func NewAnchor(a *ecs.Actor) *Anchor {
	c := &Anchor{}
	c.Init(ecs.KindAnchor, a, c)
	return c
}

func (c *Anchor) State() any { return &c.S }

func (c *Anchor) Activate(w ecs.World) { c.target = PositionLens(w) }
func (c *Anchor) Deactivate(ecs.World) { c.target = nil }

func (c *Anchor) Tick(float64) {
	if c.target == nil || c.S.TargetActor == "" {
		return
	}
	pos, ok := ecs.Get[*Position](c.Actor(), ecs.KindPosition)
	if !ok {
		c.World().Log().Warn("anchor component without position",
			zap.String("actor", c.Actor().ID.String()))
		return
	}
	target, ok := c.target(ecs.ActorID(c.S.TargetActor))
	if !ok {
		return
	}
	pos.Set(target.Vec().Add(geom.V(c.S.OffsetX, c.S.OffsetY)))
}
