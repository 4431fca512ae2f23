package input

import "github.com/l1jgo/simcore/internal/core/event"

// Callbacks fire on key edges. Either may be nil.
type Callbacks struct {
	Pressed  func()
	Released func()
}

// Keyboard turns externally delivered key events into per-code callbacks.
// Events travel through the bus so they are delivered at a fixed point in
// the tick.
type Keyboard struct {
	bus *event.Bus
}

func NewKeyboard(bus *event.Bus) *Keyboard {
	return &Keyboard{bus: bus}
}

// Press queues a key-down event.
func (k *Keyboard) Press(code int) { event.Emit(k.bus, event.KeyPressed{Code: code}) }

// Release queues a key-up event.
func (k *Keyboard) Release(code int) { event.Emit(k.bus, event.KeyReleased{Code: code}) }

// Watch registers callbacks for one key code. Pressed fires only when the
// key goes from up to down, Released only from down to up.
func (k *Keyboard) Watch(code int, cb Callbacks) *Watcher {
	w := &Watcher{code: code, cb: cb}
	w.subs[0] = event.Subscribe(k.bus, func(ev event.KeyPressed) {
		if ev.Code != w.code || w.removed {
			return
		}
		if !w.down && w.cb.Pressed != nil {
			w.cb.Pressed()
		}
		w.down = true
	})
	w.subs[1] = event.Subscribe(k.bus, func(ev event.KeyReleased) {
		if ev.Code != w.code || w.removed {
			return
		}
		if w.down && w.cb.Released != nil {
			w.cb.Released()
		}
		w.down = false
	})
	return w
}

// Watcher is one registration returned by Keyboard.Watch.
type Watcher struct {
	code    int
	cb      Callbacks
	down    bool
	removed bool
	subs    [2]event.Subscription
}

func (w *Watcher) Code() int    { return w.code }
func (w *Watcher) IsDown() bool { return w.down }

// Remove unregisters the watcher. No callback fires afterwards.
func (w *Watcher) Remove() {
	if w.removed {
		return
	}
	w.removed = true
	for _, s := range w.subs {
		s.Cancel()
	}
}

// Watchers groups registrations owned by one component so they can be
// released together.
type Watchers struct {
	list []*Watcher
}

func (ws *Watchers) Add(w *Watcher) *Watcher {
	ws.list = append(ws.list, w)
	return w
}

func (ws *Watchers) Len() int { return len(ws.list) }

// Cleanup removes every watcher in the group.
func (ws *Watchers) Cleanup() {
	for _, w := range ws.list {
		w.Remove()
	}
	ws.list = ws.list[:0]
}
