package event

import (
	"reflect"
	"sync"
)

type queued struct {
	typ   reflect.Type
	event any
}

type handler struct {
	id uint64
	fn func(any)
}

// Bus is a double-buffered event bus. Events emitted in tick N are readable
// after the next SwapBuffers, and are delivered in emission order across all
// event types.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []queued
	back     []queued
	handlers map[reflect.Type][]handler
	nextID   uint64
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]queued, 0, 64),
		back:     make([]queued, 0, 64),
		handlers: make(map[reflect.Type][]handler),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, queued{typ: typeOf[T](), event: event})
}

// Subscription identifies one registered handler.
type Subscription struct {
	bus *Bus
	typ reflect.Type
	id  uint64
}

// Cancel removes the handler. Safe to call more than once.
func (s Subscription) Cancel() {
	if s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	hs := s.bus.handlers[s.typ]
	for i, h := range hs {
		if h.id == s.id {
			s.bus.handlers[s.typ] = append(hs[:i:i], hs[i+1:]...)
			return
		}
	}
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeOf[T]()
	b.nextID++
	b.handlers[t] = append(b.handlers[t], handler{
		id: b.nextID,
		fn: func(ev any) { fn(ev.(T)) },
	})
	return Subscription{bus: b, typ: t, id: b.nextID}
}

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers all front-buffer events to their handlers. The handler
// list is snapshotted per event so handlers may cancel themselves.
func (b *Bus) DispatchAll() {
	for _, q := range b.front {
		b.mu.Lock()
		hs := append([]handler(nil), b.handlers[q.typ]...)
		b.mu.Unlock()
		for _, h := range hs {
			h.fn(q.event)
		}
	}
	b.front = b.front[:0]
}

// Pending reports how many events wait in the back buffer.
func (b *Bus) Pending() int { return len(b.back) }
