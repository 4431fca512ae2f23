package world

import (
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/geom"
)

// Frame is what the renderer gets once per tick.
type Frame struct {
	View      geom.Bounds       `json:"view"`
	Drawables []ecs.DrawCommand `json:"drawables"`
}

// View returns the visible region, from the root actor's screen bounds.
func (w *World) View() (geom.Bounds, bool) {
	s, ok := ecs.Get[*component.ScreenBounds](w.Root(), ecs.KindScreenBounds)
	if !ok || !s.Active() {
		return geom.Bounds{}, false
	}
	return s.Bounds(), true
}

// Drawables lists every active drawable component in screen space. With a
// view, anything outside it is culled; without one, world coordinates are
// passed through.
func (w *World) Drawables() []ecs.DrawCommand {
	view, hasView := w.View()
	var out []ecs.DrawCommand
	for _, id := range w.order {
		w.actors[id].Each(func(c ecs.Component) {
			d, ok := c.(ecs.Drawable)
			if !ok || !c.Active() {
				return
			}
			cmd, ok := d.Draw()
			if !ok {
				return
			}
			if hasView {
				box := geom.Bounds{TopLeft: geom.V(cmd.X, cmd.Y), W: cmd.W, H: cmd.H}
				if !view.Overlaps(box) {
					return
				}
				cmd.X -= view.TopLeft.X
				cmd.Y -= view.TopLeft.Y
			}
			out = append(out, cmd)
		})
	}
	return out
}

// Frame builds the renderer payload for the current tick.
func (w *World) Frame() Frame {
	view, _ := w.View()
	return Frame{View: view, Drawables: w.Drawables()}
}
