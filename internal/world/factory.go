package world

import (
	"encoding/json"
	"sort"

	"github.com/l1jgo/simcore/internal/assets"
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"go.uber.org/zap"
)

// Classes resolves an actor class name to its component defaults.
type Classes interface {
	Defaults(class string) (ecs.State, bool)
}

// Factory turns declarative actor records into actors whose components
// become loaded once their assets are.
type Factory struct {
	loader  *assets.Loader
	classes Classes
	log     *zap.Logger
}

func NewFactory(loader *assets.Loader, classes Classes, log *zap.Logger) *Factory {
	return &Factory{loader: loader, classes: classes, log: log}
}

// Create builds an actor of class with the given id. Each component's state
// is its kind's default, overlaid by the class default, overlaid by state.
// Unknown component kinds are logged and skipped.
func (f *Factory) Create(id ecs.ActorID, class string, state ecs.State) *ecs.Actor {
	var defaults ecs.State
	if class != "" && f.classes != nil {
		d, ok := f.classes.Defaults(class)
		if !ok {
			f.log.Warn("unknown actor class, spawning without class defaults",
				zap.String("actor", id.String()), zap.String("class", class))
		}
		defaults = d
	}

	names := make([]string, 0, len(defaults)+len(state))
	seen := make(map[string]struct{}, cap(names))
	for _, layer := range []ecs.State{defaults, state} {
		for name := range layer {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	actor := ecs.NewActor(id, class)
	for _, name := range names {
		kind, ok := ecs.ParseKind(name)
		if !ok {
			f.log.Warn("unknown component kind, skipping",
				zap.String("actor", id.String()), zap.String("class", class), zap.String("component", name))
			continue
		}
		c, ok := component.New(kind, actor)
		if !ok {
			f.log.Warn("no constructor for component kind",
				zap.String("actor", id.String()), zap.String("component", name))
			continue
		}
		f.decode(c, id, name, defaults[name])
		f.decode(c, id, name, state[name])
		actor.Add(c)
		f.gate(c)
	}
	return actor
}

// decode overlays fields onto the component's state record. Fields absent
// from the layer keep their current value.
func (f *Factory) decode(c ecs.Component, id ecs.ActorID, name string, fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	raw, err := json.Marshal(fields)
	if err == nil {
		err = json.Unmarshal(raw, c.State())
	}
	if err != nil {
		f.log.Warn("invalid component state, keeping defaults",
			zap.String("actor", id.String()), zap.String("component", name), zap.Error(err))
	}
}

// gate marks c loaded once every asset it needs is. Resolution after the
// actor was removed only flips the loaded flag of a detached component.
func (f *Factory) gate(c ecs.Component) {
	var required []assets.Asset
	if u, ok := c.(ecs.AssetUser); ok {
		required = u.Assets()
	}
	f.loader.Require(required, func() { c.SetLoaded(true) })
}
