package ecs

// Kind identifies a component type. The set is closed: every kind the
// runtime can instantiate is listed here, in tick order.
type Kind uint8

const (
	KindPosition Kind = iota
	KindThruster
	KindVelocity
	KindAnchor
	KindBoxCollider
	KindSprite
	KindForces
	KindScreenBounds

	kindCount
)

// Kinds lists every kind in tick order.
var Kinds = func() []Kind {
	ks := make([]Kind, kindCount)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}()

// kindNames are the keys used in actor state records and snapshots.
var kindNames = [kindCount]string{
	KindPosition:     "position",
	KindThruster:     "thruster",
	KindVelocity:     "velocity",
	KindAnchor:       "anchor",
	KindBoxCollider:  "boxCollider",
	KindSprite:       "sprite",
	KindForces:       "forces",
	KindScreenBounds: "screenBounds",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) Valid() bool { return k < kindCount }

// ParseKind resolves a state record key to its Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}
