package component

import (
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/geom"
	"github.com/l1jgo/simcore/internal/input"
	"go.uber.org/zap"
)

// Default key codes.
const (
	KeyW = 87
	KeyA = 65
	KeyS = 83
	KeyD = 68
)

type ThrusterState struct {
	Up    int     `json:"up"`
	Down  int     `json:"down"`
	Left  int     `json:"left"`
	Right int     `json:"right"`
	Force float64 `json:"force"`
}

// Thruster pushes its actor's Velocity while direction keys are held. The
// force is applied on press and taken back on release.
type Thruster struct {
	ecs.Base
	S ThrusterState

	watchers input.Watchers
	held     geom.Vec
}

func NewThruster(a *ecs.Actor) *Thruster {
	t := &Thruster{S: ThrusterState{Up: KeyW, Down: KeyS, Left: KeyA, Right: KeyD, Force: 30}}
	t.Init(ecs.KindThruster, a, t)
	return t
}

func (t *Thruster) State() any { return &t.S }

// Held returns the force currently applied because of held keys.
func (t *Thruster) Held() geom.Vec { return t.held }

func (t *Thruster) Activate(w ecs.World) {
	f := t.S.Force
	t.bind(w, t.S.Up, geom.V(0, -f))
	t.bind(w, t.S.Down, geom.V(0, f))
	t.bind(w, t.S.Left, geom.V(-f, 0))
	t.bind(w, t.S.Right, geom.V(f, 0))
}

func (t *Thruster) bind(w ecs.World, code int, dir geom.Vec) {
	t.watchers.Add(w.Input().Watch(code, input.Callbacks{
		Pressed:  func() { t.push(dir) },
		Released: func() { t.push(dir.Scale(-1)) },
	}))
}

func (t *Thruster) push(f geom.Vec) {
	v, ok := ecs.Get[*Velocity](t.Actor(), ecs.KindVelocity)
	if !ok {
		t.World().Log().Warn("thruster component without velocity",
			zap.String("actor", t.Actor().ID.String()))
		return
	}
	v.ApplyForce(f)
	t.held = t.held.Add(f)
}

func (t *Thruster) Deactivate(ecs.World) {
	t.watchers.Cleanup()
	if t.held.IsZero() {
		return
	}
	if v, ok := ecs.Get[*Velocity](t.Actor(), ecs.KindVelocity); ok {
		v.ApplyForce(t.held.Scale(-1))
	}
	t.held = geom.Vec{}
}
