package system

import (
	"time"

	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/input"
	gonet "github.com/l1jgo/simcore/internal/net"
)

// EventSource is where client key events come from.
type EventSource interface {
	Accept() (joined, left int)
	Events() <-chan gonet.KeyEvent
}

// InputSystem drains client key events into the keyboard, then delivers
// everything queued on the bus since the last tick. Phase 0 (Input).
type InputSystem struct {
	source     EventSource // nil when no clients are served
	keyboard   *input.Keyboard
	bus        *event.Bus
	maxPerTick int
}

func NewInputSystem(source EventSource, keyboard *input.Keyboard, bus *event.Bus, maxPerTick int) *InputSystem {
	return &InputSystem{
		source:     source,
		keyboard:   keyboard,
		bus:        bus,
		maxPerTick: maxPerTick,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	if s.source != nil {
		s.source.Accept()
		s.drain()
	}
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

func (s *InputSystem) drain() {
	for n := 0; s.maxPerTick <= 0 || n < s.maxPerTick; n++ {
		select {
		case ev := <-s.source.Events():
			if ev.Down {
				s.keyboard.Press(ev.Code)
			} else {
				s.keyboard.Release(ev.Code)
			}
		default:
			return
		}
	}
}
