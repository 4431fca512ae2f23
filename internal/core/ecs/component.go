package ecs

import "github.com/l1jgo/simcore/internal/assets"

// Component is one unit of per-actor behaviour. Concrete kinds embed Base
// for the lifecycle and supply their own state and hooks.
type Component interface {
	Kind() Kind
	Actor() *Actor
	World() World

	// SetWorld attaches the component to w, or detaches it when w is nil.
	SetWorld(w World)
	// SetLoaded records whether every asset the component needs is ready.
	SetLoaded(loaded bool)
	Loaded() bool
	// Active reports world != nil && loaded.
	Active() bool

	// State returns a pointer to the component's state record. The factory
	// decodes defaults and overrides into it; snapshots encode it.
	State() any

	Tick(dt float64)
}

// Hooks are the activation callbacks a concrete kind may implement.
// Deactivate receives the world the component was active in, even when
// the component has already been detached from it.
type Hooks interface {
	Activate(w World)
	Deactivate(w World)
}

// AssetUser is implemented by kinds whose state references external assets.
type AssetUser interface {
	Assets() []assets.Asset
}

// Drawable is implemented by kinds the renderer consumes.
type Drawable interface {
	Draw() (DrawCommand, bool)
}

// DrawCommand places one asset in world space. The world translates it to
// screen space before handing it to the renderer.
type DrawCommand struct {
	Actor    ActorID `json:"actor"`
	AssetKey string  `json:"asset"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
}

// Base implements the lifecycle half of Component. active flips exactly once
// per transition of (world != nil && loaded); redundant calls fire nothing.
type Base struct {
	kind      Kind
	actor     *Actor
	hooks     Hooks
	world     World
	loaded    bool
	activated bool
}

// Init wires the base to its actor and to the concrete component's hooks.
// hooks may be nil for kinds without world-presence side effects.
func (b *Base) Init(kind Kind, actor *Actor, hooks Hooks) {
	b.kind = kind
	b.actor = actor
	b.hooks = hooks
}

func (b *Base) Kind() Kind    { return b.kind }
func (b *Base) Actor() *Actor { return b.actor }
func (b *Base) World() World  { return b.world }
func (b *Base) Loaded() bool  { return b.loaded }
func (b *Base) Active() bool  { return b.activated }

func (b *Base) Tick(float64) {}

func (b *Base) SetWorld(w World) {
	prev := b.world
	b.world = w

	// Moving straight from one world to another is a detach followed by an
	// attach so the side effects land in the right place.
	if prev != nil && w != nil && prev != w && b.activated {
		b.activated = false
		b.deactivate(prev)
	}
	b.evaluate(prev)
}

func (b *Base) SetLoaded(loaded bool) {
	b.loaded = loaded
	b.evaluate(b.world)
}

func (b *Base) evaluate(prev World) {
	active := b.world != nil && b.loaded
	if active == b.activated {
		return
	}
	b.activated = active
	if active {
		if b.hooks != nil {
			b.hooks.Activate(b.world)
		}
		return
	}
	b.deactivate(prev)
}

func (b *Base) deactivate(w World) {
	if b.hooks != nil {
		b.hooks.Deactivate(w)
	}
}
