package ecs

// LensFunc reads a projection of another actor by id. ok is false when the
// actor, or the component the projection needs, is missing.
type LensFunc[T any] func(id ActorID) (T, bool)

// Lens builds a LensFunc over w. Relationships stay id-based so they survive
// the target being removed or replaced.
func Lens[T any](w World, project func(*Actor) (T, bool)) LensFunc[T] {
	return func(id ActorID) (T, bool) {
		var zero T
		if w == nil {
			return zero, false
		}
		a, ok := w.Actor(id)
		if !ok {
			return zero, false
		}
		return project(a)
	}
}

// ComponentLens projects an actor onto its component of kind k.
func ComponentLens[T Component](w World, k Kind) LensFunc[T] {
	return Lens(w, func(a *Actor) (T, bool) {
		return Get[T](a, k)
	})
}
