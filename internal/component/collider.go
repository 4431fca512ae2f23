package component

import (
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/geom"
	"github.com/l1jgo/simcore/internal/physics"
	"go.uber.org/zap"
)

type BoxColliderState struct {
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	IsStatic bool    `json:"isStatic"`
}

// BoxCollider is an axis-aligned box anchored at its actor's position. Static
// colliders occupy a slot in the physics partition grid while active.
type BoxCollider struct {
	ecs.Base
	S BoxColliderState

	key        physics.Key
	registered bool
}

func NewBoxCollider(a *ecs.Actor) *BoxCollider {
	c := &BoxCollider{}
	c.Init(ecs.KindBoxCollider, a, c)
	return c
}

func (c *BoxCollider) State() any { return &c.S }

// Bounds returns the box in world space.
func (c *BoxCollider) Bounds() (geom.Bounds, bool) {
	pos, ok := ecs.Get[*Position](c.Actor(), ecs.KindPosition)
	if !ok {
		return geom.Bounds{}, false
	}
	return geom.Bounds{ID: c.Actor().ID.String(), TopLeft: pos.Vec(), W: c.S.W, H: c.S.H}, true
}

// Partition reports the grid cell the collider is registered in.
func (c *BoxCollider) Partition() (physics.Key, bool) { return c.key, c.registered }

func (c *BoxCollider) Activate(w ecs.World) {
	if !c.S.IsStatic {
		return
	}
	b, ok := c.Bounds()
	if !ok {
		w.Log().Warn("static collider without position",
			zap.String("actor", c.Actor().ID.String()))
		return
	}
	c.key = w.Physics().AddToWorld(b)
	c.registered = true
}

func (c *BoxCollider) Deactivate(w ecs.World) {
	if !c.registered {
		return
	}
	w.Physics().RemoveFromWorld(c.key, c.Actor().ID.String())
	c.registered = false
}
