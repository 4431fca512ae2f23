package world

import (
	"github.com/l1jgo/simcore/internal/assets"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/input"
	"github.com/l1jgo/simcore/internal/physics"
	"go.uber.org/zap"
)

// World is the registry of live actors. It owns tick order and hands itself
// to components as their ecs.World.
// Accessed only from the game loop goroutine, no locks.
type World struct {
	physics  *physics.Engine
	assets   *assets.Loader
	keyboard *input.Keyboard
	factory  *Factory
	log      *zap.Logger

	actors   map[ecs.ActorID]*ecs.Actor
	order    []ecs.ActorID // registration order, drives Tick
	removals []ecs.ActorID
}

func New(p *physics.Engine, loader *assets.Loader, kb *input.Keyboard, classes Classes, log *zap.Logger) *World {
	return &World{
		physics:  p,
		assets:   loader,
		keyboard: kb,
		factory:  NewFactory(loader, classes, log),
		log:      log,
		actors:   make(map[ecs.ActorID]*ecs.Actor),
	}
}

func (w *World) Physics() *physics.Engine { return w.physics }
func (w *World) Assets() *assets.Loader   { return w.assets }
func (w *World) Input() *input.Keyboard   { return w.keyboard }
func (w *World) Log() *zap.Logger         { return w.log }
func (w *World) Factory() *Factory        { return w.factory }

// Actor looks up a live actor by id.
func (w *World) Actor(id ecs.ActorID) (*ecs.Actor, bool) {
	a, ok := w.actors[id]
	return a, ok
}

// Root returns the world-scoped actor, or nil before it is spawned.
func (w *World) Root() *ecs.Actor { return w.actors[ecs.RootID] }

// Len returns the number of live actors.
func (w *World) Len() int { return len(w.actors) }

// Each visits live actors in registration order.
func (w *World) Each(fn func(*ecs.Actor)) {
	for _, id := range w.order {
		fn(w.actors[id])
	}
}

// Spawn creates an actor of class with a fresh id and attaches it.
func (w *World) Spawn(class string, state ecs.State) *ecs.Actor {
	return w.SpawnWithID(ecs.NewActorID(), class, state)
}

// SpawnWithID creates an actor with a caller-chosen id. An actor already
// registered under id is removed first.
func (w *World) SpawnWithID(id ecs.ActorID, class string, state ecs.State) *ecs.Actor {
	if _, exists := w.actors[id]; exists {
		w.RemoveActor(id)
	}
	a := w.factory.Create(id, class, state)
	w.add(a)
	return a
}

func (w *World) add(a *ecs.Actor) {
	w.actors[a.ID] = a
	w.order = append(w.order, a.ID)
	a.Each(func(c ecs.Component) { c.SetWorld(w) })
	w.log.Debug("actor spawned",
		zap.String("actor", a.ID.String()), zap.String("class", a.Class), zap.Int("components", a.Len()))
}

// RemoveActor detaches every component of the actor and drops it from the
// registry. Removing an unknown id is a no-op.
func (w *World) RemoveActor(id ecs.ActorID) bool {
	a, ok := w.actors[id]
	if !ok {
		return false
	}
	delete(w.actors, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	a.Each(func(c ecs.Component) { c.SetWorld(nil) })
	w.log.Debug("actor removed", zap.String("actor", id.String()))
	return true
}

// QueueRemoval removes the actor when FlushRemovals runs at the end of the
// tick, so components can remove actors mid-tick.
func (w *World) QueueRemoval(id ecs.ActorID) {
	w.removals = append(w.removals, id)
}

// FlushRemovals applies queued removals and returns how many actors went.
func (w *World) FlushRemovals() int {
	n := 0
	for _, id := range w.removals {
		if w.RemoveActor(id) {
			n++
		}
	}
	w.removals = w.removals[:0]
	return n
}

// Tick updates every active component: actors in registration order,
// components within an actor in kind order.
func (w *World) Tick(dt float64) {
	order := append([]ecs.ActorID(nil), w.order...)
	for _, id := range order {
		a, ok := w.actors[id]
		if !ok {
			continue
		}
		a.Each(func(c ecs.Component) {
			if c.Active() {
				c.Tick(dt)
			}
		})
	}
}
