package component

import (
	"github.com/l1jgo/simcore/internal/assets"
	"github.com/l1jgo/simcore/internal/core/ecs"
)

type SpriteState struct {
	Asset   assets.Asset `json:"asset"`
	W       float64      `json:"w"` // 0 uses the loaded image size
	H       float64      `json:"h"`
	Visible bool         `json:"visible"`
}

// Sprite draws one image at its actor's position. It stays inactive until
// its image is loaded.
type Sprite struct {
	ecs.Base
	S SpriteState
}

func NewSprite(a *ecs.Actor) *Sprite {
	s := &Sprite{S: SpriteState{Visible: true}}
	s.Init(ecs.KindSprite, a, nil)
	return s
}

func (s *Sprite) State() any { return &s.S }

func (s *Sprite) Assets() []assets.Asset {
	if assets.Key(s.S.Asset) == "" {
		return nil
	}
	return []assets.Asset{s.S.Asset}
}

func (s *Sprite) Draw() (ecs.DrawCommand, bool) {
	if !s.S.Visible {
		return ecs.DrawCommand{}, false
	}
	pos, ok := ecs.Get[*Position](s.Actor(), ecs.KindPosition)
	if !ok {
		return ecs.DrawCommand{}, false
	}
	key := assets.Key(s.S.Asset)
	w, h := s.S.W, s.S.H
	if w == 0 || h == 0 {
		if d, ok := s.World().Assets().Drawable(key); ok {
			if w == 0 {
				w = float64(d.Width)
			}
			if h == 0 {
				h = float64(d.Height)
			}
		}
	}
	return ecs.DrawCommand{
		Actor:    s.Actor().ID,
		AssetKey: key,
		X:        pos.S.X,
		Y:        pos.S.Y,
		W:        w,
		H:        h,
	}, true
}
