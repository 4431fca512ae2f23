package world

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"go.uber.org/zap"
)

// refSuffix marks a component state field holding another actor's id. The
// match is by name only; a scalar field that happens to end in "Actor" is
// rewritten too.
const refSuffix = "Actor"

// Snapshot is the serialized form of a world.
type Snapshot struct {
	ActorStates []ActorState `json:"actorStates"`
}

// ActorState is one actor in a Snapshot.
type ActorState struct {
	UUID  ecs.ActorID `json:"uuid"`
	Class string      `json:"class,omitempty"`
	State ecs.State   `json:"state"`
}

// reserved ids keep their identity when a snapshot is copied into a world,
// and their entries are not respawned by a copy: a world has exactly one
// root, so copying must never spawn a second one under a fresh id.
func reserved(id ecs.ActorID) bool { return id == ecs.RootID }

// Capture records every actor's id, class and component states.
func (w *World) Capture() (*Snapshot, error) {
	snap := &Snapshot{ActorStates: make([]ActorState, 0, len(w.order))}
	for _, id := range w.order {
		a := w.actors[id]
		st := ActorState{UUID: a.ID, Class: a.Class, State: ecs.State{}}
		var err error
		a.Each(func(c ecs.Component) {
			if err != nil {
				return
			}
			fields, e := stateFields(c)
			if e != nil {
				err = fmt.Errorf("actor %s component %s: %w", a.ID, c.Kind(), e)
				return
			}
			st.State[c.Kind().String()] = fields
		})
		if err != nil {
			return nil, err
		}
		snap.ActorStates = append(snap.ActorStates, st)
	}
	return snap, nil
}

func stateFields(c ecs.Component) (map[string]any, error) {
	raw, err := json.Marshal(c.State())
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Serialize encodes the world as JSON.
func (w *World) Serialize() ([]byte, error) {
	snap, err := w.Capture()
	if err != nil {
		return nil, fmt.Errorf("capture world: %w", err)
	}
	return json.Marshal(snap)
}

// Deserialize spawns the actors in blob. With isCopy every actor id in the
// blob, including reference fields, is replaced by a fresh one. A non-empty
// class overrides the class recorded for each actor. Only an undecodable
// blob is an error; per-actor problems are logged.
func (w *World) Deserialize(blob []byte, isCopy bool, class string) error {
	var snap Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.ActorStates == nil {
		w.log.Warn("snapshot has no actor states")
		return nil
	}
	w.Restore(&snap, isCopy, class)
	return nil
}

// Restore spawns the actors of snap. See Deserialize.
func (w *World) Restore(snap *Snapshot, isCopy bool, class string) {
	states := snap.ActorStates
	if isCopy {
		states = w.remap(states)
	}
	for _, st := range states {
		cls := st.Class
		if class != "" {
			cls = class
		}
		if st.UUID.IsZero() {
			w.log.Warn("snapshot entry without id, skipping", zap.String("class", cls))
			continue
		}
		w.SpawnWithID(st.UUID, cls, st.State)
	}
}

// remap gives every entry a fresh id and rewrites reference fields to
// match. Reserved ids map to themselves and their entries are dropped.
func (w *World) remap(states []ActorState) []ActorState {
	ids := make(map[string]ecs.ActorID, len(states))
	for _, st := range states {
		if reserved(st.UUID) {
			ids[st.UUID.String()] = st.UUID
			continue
		}
		ids[st.UUID.String()] = ecs.NewActorID()
	}

	out := make([]ActorState, 0, len(states))
	for _, st := range states {
		if reserved(st.UUID) {
			continue
		}
		state := make(ecs.State, len(st.State))
		for kind, fields := range st.State {
			copied := make(map[string]any, len(fields))
			for name, v := range fields {
				ref, isRef := v.(string)
				if !isRef || !strings.HasSuffix(name, refSuffix) || ref == "" {
					copied[name] = v
					continue
				}
				if id, ok := ids[ref]; ok {
					copied[name] = id.String()
					continue
				}
				w.log.Warn("probably a bug: reference to an actor outside the snapshot, dropping it",
					zap.String("actor", st.UUID.String()),
					zap.String("component", kind),
					zap.String("field", name),
					zap.String("target", ref))
			}
			state[kind] = copied
		}
		out = append(out, ActorState{UUID: ids[st.UUID.String()], Class: st.Class, State: state})
	}
	return out
}
