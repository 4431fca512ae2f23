package component

import (
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/geom"
	"github.com/l1jgo/simcore/internal/physics"
	"go.uber.org/zap"
)

type VelocityState struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	AX          float64 `json:"ax"`
	AY          float64 `json:"ay"`
	Mass        float64 `json:"mass"`
	Bounce      float64 `json:"bounce"`
	DragX       float64 `json:"dragX"`
	DragY       float64 `json:"dragY"`
	FrontalArea float64 `json:"frontalArea"`
	Collide     bool    `json:"collide"`
}

// Velocity moves its actor's Position through the physics engine each tick,
// under the world forces carried by the root actor plus its own applied force.
type Velocity struct {
	ecs.Base
	S VelocityState

	// applied is the force the actor currently applies to itself. It follows
	// live key state, so it is never part of the serialized state.
	applied geom.Vec
}

func NewVelocity(a *ecs.Actor) *Velocity {
	v := &Velocity{S: VelocityState{
		Mass:        1,
		Bounce:      1,
		DragX:       1,
		DragY:       1,
		FrontalArea: 1,
		Collide:     true,
	}}
	v.Init(ecs.KindVelocity, a, nil)
	return v
}

func (v *Velocity) State() any { return &v.S }

func (v *Velocity) Vec() geom.Vec { return geom.V(v.S.X, v.S.Y) }

// ApplyForce adds f to the force the actor applies to itself. Forces stay
// applied until an opposite force cancels them.
func (v *Velocity) ApplyForce(f geom.Vec) {
	v.applied = v.applied.Add(f)
}

func (v *Velocity) Force() geom.Vec { return v.applied }

func (v *Velocity) Tick(dt float64) {
	w := v.World()
	pos, ok := ecs.Get[*Position](v.Actor(), ecs.KindPosition)
	if !ok {
		w.Log().Warn("velocity component without position",
			zap.String("actor", v.Actor().ID.String()))
		return
	}

	body := physics.Body{
		ID:  v.Actor().ID.String(),
		Pos: pos.Vec(),
		Vel: v.Vec(),
		Acc: geom.V(v.S.AX, v.S.AY),
		Props: physics.Properties{
			Mass:        v.S.Mass,
			Bounce:      v.S.Bounce,
			Drag:        geom.V(v.S.DragX, v.S.DragY),
			FrontalArea: v.S.FrontalArea,
		},
	}

	forces := WorldForces(w)
	if f := v.Force(); !f.IsZero() {
		forces = append(forces, physics.Push(f))
	}

	if v.S.Collide {
		w.Physics().Move(&body, forces, dt)
	} else {
		w.Physics().Drift(&body, forces, dt)
	}

	pos.Set(body.Pos)
	v.S.X, v.S.Y = body.Vel.X, body.Vel.Y
	v.S.AX, v.S.AY = body.Acc.X, body.Acc.Y
}
