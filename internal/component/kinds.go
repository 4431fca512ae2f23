package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// New constructs the component of kind k for a, carrying its default state.
func New(k ecs.Kind, a *ecs.Actor) (ecs.Component, bool) {
	switch k {
	case ecs.KindPosition:
		return NewPosition(a), true
	case ecs.KindThruster:
		return NewThruster(a), true
	case ecs.KindVelocity:
		return NewVelocity(a), true
	case ecs.KindAnchor:
		return NewAnchor(a), true
	case ecs.KindBoxCollider:
		return NewBoxCollider(a), true
	case ecs.KindSprite:
		return NewSprite(a), true
	case ecs.KindForces:
		return NewForces(a), true
	case ecs.KindScreenBounds:
		return NewScreenBounds(a), true
	}
	return nil, false
}
