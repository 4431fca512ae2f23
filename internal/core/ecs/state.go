package ecs

// State is the declarative form of an actor: component kind name to the
// fields of that component's state record.
type State map[string]map[string]any
