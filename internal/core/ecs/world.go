package ecs

import (
	"github.com/l1jgo/simcore/internal/assets"
	"github.com/l1jgo/simcore/internal/input"
	"github.com/l1jgo/simcore/internal/physics"
	"go.uber.org/zap"
)

// RootID is the well-known id of the actor carrying world-scoped components.
const RootID ActorID = "root"

// World is the view of the simulation a component gets while attached.
// Accessed only from the game loop goroutine, no locks.
type World interface {
	Physics() *physics.Engine
	Assets() *assets.Loader
	Input() *input.Keyboard
	Log() *zap.Logger

	// Actor looks up a live actor by id.
	Actor(id ActorID) (*Actor, bool)
	// Root returns the world-scoped actor, or nil before it is spawned.
	Root() *Actor
	// QueueRemoval removes the actor at the end of the current tick.
	QueueRemoval(id ActorID)
}
