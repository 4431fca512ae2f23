package physics

import (
	"math"

	"github.com/l1jgo/simcore/internal/geom"
	"go.uber.org/zap"
)

// ForceKind tags the Force variant.
type ForceKind uint8

const (
	ForceAcceleration ForceKind = iota // uniform acceleration, e.g. gravity
	ForceMedium                        // quadratic drag through a medium
	ForcePush                          // constant force, independent of mass
)

// Force is an acceleration applied to every unit of mass, a medium of the
// given density that resists motion, or a plain push.
type Force struct {
	Kind    ForceKind
	Vector  geom.Vec
	Density float64
}

func Acceleration(v geom.Vec) Force { return Force{Kind: ForceAcceleration, Vector: v} }
func Medium(density float64) Force  { return Force{Kind: ForceMedium, Density: density} }
func Push(v geom.Vec) Force         { return Force{Kind: ForcePush, Vector: v} }

// Properties are the per-object constants the integrator needs.
type Properties struct {
	Mass        float64
	Bounce      float64  // 1 mirrors velocity on impact, 0 cancels the normal component
	Drag        geom.Vec // drag coefficient per axis
	FrontalArea float64
}

// Body is the mutable kinematic state advanced by Move.
type Body struct {
	ID    string
	Pos   geom.Vec
	Vel   geom.Vec
	Acc   geom.Vec
	Props Properties
}

// Move advances b by t seconds, resolving collisions against static colliders
// along the swept path. Guard conditions are logged and leave b in its last
// valid state.
func (e *Engine) Move(b *Body, forces []Force, t float64) {
	e.move(b, forces, t, true, 0)
}

// Drift advances b like Move but passes through colliders.
func (e *Engine) Drift(b *Body, forces []Force, t float64) {
	e.move(b, forces, t, false, 0)
}

func (e *Engine) move(b *Body, forces []Force, t float64, collide bool, depth int) {
	if b.Props.Mass <= e.cfg.MassEpsilon {
		e.log.Warn("refusing to move body with non-positive mass",
			zap.String("body", b.ID), zap.Float64("mass", b.Props.Mass))
		return
	}

	start := b.Pos
	next := geom.IntegratePosition(b.Pos, b.Vel, b.Acc, t)

	if collide && !next.Equal(start) {
		hit := e.ClipRay(geom.Ray{Start: start, End: next})
		if hit.Hit() {
			if depth >= e.cfg.MaxReflections {
				e.log.Warn("reflection limit reached, accepting position for this step",
					zap.String("body", b.ID),
					zap.Int("depth", depth),
					zap.String("edge", hit.Edge.String()),
					zap.String("collider", hit.ID))
				return
			}

			fraction := math.Min(start.Dist(hit.Point)/start.Dist(next), 1)

			e.move(b, forces, fraction*t, false, depth)
			b.Pos = hit.Point
			b.Vel = b.Vel.ReflectDamped(hit.Edge.Normal(), b.Props.Bounce)
			e.move(b, forces, (1-fraction)*t, true, depth+1)
			return
		}
	}

	b.Pos = next

	acc := e.acceleration(b, forces)
	b.Vel = geom.Vec{
		X: b.Vel.X + 0.5*(b.Acc.X+acc.X)*t,
		Y: b.Vel.Y + 0.5*(b.Acc.Y+acc.Y)*t,
	}
	b.Acc = acc
}

// acceleration sums every force acting on b and divides by mass.
func (e *Engine) acceleration(b *Body, forces []Force) geom.Vec {
	var total geom.Vec
	for _, f := range forces {
		switch f.Kind {
		case ForceAcceleration:
			total = total.Add(f.Vector.Scale(b.Props.Mass))
		case ForcePush:
			total = total.Add(f.Vector)
		case ForceMedium:
			total = total.Add(geom.Vec{
				X: dragForce(b.Vel.X, f.Density, b.Props.Drag.X, b.Props.FrontalArea),
				Y: dragForce(b.Vel.Y, f.Density, b.Props.Drag.Y, b.Props.FrontalArea),
			})
		}
	}
	return total.Scale(1 / b.Props.Mass)
}

// dragForce is ½·ρ·v²·Cd·A, opposing v.
func dragForce(v, density, coefficient, area float64) float64 {
	if v == 0 {
		return 0
	}
	return -math.Copysign(0.5*density*v*v*coefficient*area, v)
}
