package ecs

import "github.com/google/uuid"

// ActorID is the durable handle for an actor. Actors never hold pointers to
// each other; cross-actor references are ActorIDs resolved through a lens.
type ActorID string

// NewActorID returns a fresh random id.
func NewActorID() ActorID {
	return ActorID(uuid.NewString())
}

func (id ActorID) String() string { return string(id) }
func (id ActorID) IsZero() bool   { return id == "" }

// Actor is an identity plus at most one component per Kind.
type Actor struct {
	ID    ActorID
	Class string

	components [kindCount]Component
	count      int
}

func NewActor(id ActorID, class string) *Actor {
	return &Actor{ID: id, Class: class}
}

// Add attaches c, replacing any component of the same kind.
func (a *Actor) Add(c Component) {
	k := c.Kind()
	if a.components[k] == nil {
		a.count++
	}
	a.components[k] = c
}

// Component returns the component of kind k.
func (a *Actor) Component(k Kind) (Component, bool) {
	if !k.Valid() {
		return nil, false
	}
	c := a.components[k]
	return c, c != nil
}

func (a *Actor) Has(k Kind) bool {
	_, ok := a.Component(k)
	return ok
}

func (a *Actor) Len() int { return a.count }

// Each visits components in Kind order.
func (a *Actor) Each(fn func(Component)) {
	for _, c := range a.components {
		if c != nil {
			fn(c)
		}
	}
}

// Get returns the component of kind k as its concrete type.
func Get[T Component](a *Actor, k Kind) (T, bool) {
	var zero T
	if a == nil {
		return zero, false
	}
	c, ok := a.Component(k)
	if !ok {
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}
