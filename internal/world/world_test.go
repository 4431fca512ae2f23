package world

import (
	"encoding/json"
	"testing"

	"github.com/l1jgo/simcore/internal/assets"
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"github.com/l1jgo/simcore/internal/geom"
	"github.com/l1jgo/simcore/internal/input"
	"github.com/l1jgo/simcore/internal/physics"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type classMap map[string]ecs.State

func (c classMap) Defaults(name string) (ecs.State, bool) {
	s, ok := c[name]
	return s, ok
}

var testClasses = classMap{
	"Block": {
		"sprite":      {"asset": map[string]any{"url": "assets/test/block.png"}},
		"position":    {"x": 0, "y": 0},
		"boxCollider": {"w": 50, "h": 50, "isStatic": true},
	},
	"Camera": {"position": {}},
	"Mover":  {"position": {}, "velocity": {"mass": 2}},
	"Blank":  {},
}

// manualBackend completes batches only when told to.
type manualBackend struct {
	batches [][]assets.Asset
	dones   []func(assets.Result)
}

func (m *manualBackend) Load(batch []assets.Asset, done func(assets.Result)) {
	m.batches = append(m.batches, batch)
	m.dones = append(m.dones, done)
}

func (m *manualBackend) completeNext(t *testing.T) {
	t.Helper()
	i := len(m.batches) - 1
	if i < 0 {
		t.Fatal("no batch dispatched")
	}
	res := assets.Result{Drawables: make(map[string]assets.Drawable)}
	for _, a := range m.batches[i] {
		k := assets.Key(a)
		res.Drawables[k] = assets.Drawable{Key: k, Width: 10, Height: 10}
	}
	m.dones[i](res)
}

type harness struct {
	w    *World
	be   *manualBackend
	bus  *event.Bus
	kb   *input.Keyboard
	logs *observer.ObservedLogs
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)
	be := &manualBackend{}
	bus := event.NewBus()
	kb := input.NewKeyboard(bus)
	w := New(physics.NewEngine(physics.DefaultConfig(), log), assets.NewLoader(be, log), kb, testClasses, log)
	return &harness{w: w, be: be, bus: bus, kb: kb, logs: logs}
}

func (h *harness) loadAll(t *testing.T) {
	t.Helper()
	h.be.completeNext(t)
	h.w.Assets().Poll()
}

func (h *harness) flushInput() {
	h.bus.SwapBuffers()
	h.bus.DispatchAll()
}

func sprite(t *testing.T, a *ecs.Actor) *component.Sprite {
	t.Helper()
	s, ok := ecs.Get[*component.Sprite](a, ecs.KindSprite)
	if !ok {
		t.Fatalf("actor %s has no sprite", a.ID)
	}
	return s
}

func position(t *testing.T, a *ecs.Actor) *component.Position {
	t.Helper()
	p, ok := ecs.Get[*component.Position](a, ecs.KindPosition)
	if !ok {
		t.Fatalf("actor %s has no position", a.ID)
	}
	return p
}

func TestSharedAssetLoadsOnce(t *testing.T) {
	h := newHarness(t)
	a := h.w.Spawn("Block", nil)
	b := h.w.Spawn("Block", ecs.State{"position": {"x": 200}})

	if len(h.be.batches) != 1 || len(h.be.batches[0]) != 1 {
		t.Fatalf("batches = %v, want one batch with one asset", h.be.batches)
	}
	if sprite(t, a).Active() || sprite(t, b).Active() {
		t.Fatal("sprite active before its asset loaded")
	}
	if !position(t, a).Active() {
		t.Fatal("component without assets not active after spawn")
	}

	h.loadAll(t)
	if !sprite(t, a).Active() || !sprite(t, b).Active() {
		t.Error("sprites not active after the shared batch resolved")
	}
	if len(h.be.batches) != 1 {
		t.Errorf("dispatched %d batches, want 1", len(h.be.batches))
	}
}

func TestLayeredComponentState(t *testing.T) {
	h := newHarness(t)
	a := h.w.Spawn("Mover", ecs.State{"velocity": {"bounce": 0.5}})

	v, ok := ecs.Get[*component.Velocity](a, ecs.KindVelocity)
	if !ok {
		t.Fatal("no velocity")
	}
	if v.S.Mass != 2 || v.S.Bounce != 0.5 || v.S.DragX != 1 || !v.S.Collide {
		t.Errorf("state = %+v, want class mass, caller bounce, kind defaults elsewhere", v.S)
	}
}

func TestUnknownComponentKindSkipped(t *testing.T) {
	h := newHarness(t)
	a := h.w.Spawn("Blank", ecs.State{"bogus": {}, "position": {"x": 3}})

	if a.Len() != 1 || position(t, a).S.X != 3 {
		t.Errorf("components = %d, want only position", a.Len())
	}
	if n := h.logs.FilterMessage("unknown component kind, skipping").Len(); n != 1 {
		t.Errorf("logged %d unknown kinds, want 1", n)
	}
	if _, ok := h.w.Actor(a.ID); !ok {
		t.Error("actor not registered")
	}
}

func TestStaticColliderOccupiesPartition(t *testing.T) {
	h := newHarness(t)
	a := h.w.Spawn("Block", ecs.State{"position": {"x": 100, "y": 100}})

	if p, b := h.w.Physics().Stats(); p != 1 || b != 1 {
		t.Fatalf("stats = %d partitions %d bounds, want 1/1", p, b)
	}
	c, _ := ecs.Get[*component.BoxCollider](a, ecs.KindBoxCollider)
	key, ok := c.Partition()
	if !ok || key != h.w.Physics().PartitionAt(geom.V(125, 125)) {
		t.Errorf("partition = %v ok=%v", key, ok)
	}

	if !h.w.RemoveActor(a.ID) {
		t.Fatal("remove failed")
	}
	if p, b := h.w.Physics().Stats(); p != 0 || b != 0 {
		t.Errorf("stats after removal = %d/%d, want 0/0", p, b)
	}
	if h.w.RemoveActor(a.ID) {
		t.Error("removing a missing actor reported success")
	}
	if h.logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", h.logs.All())
	}
}

func TestLateAssetAfterRemoval(t *testing.T) {
	h := newHarness(t)
	a := h.w.Spawn("Block", nil)
	s := sprite(t, a)
	h.w.RemoveActor(a.ID)

	h.loadAll(t)
	if s.Active() || s.World() != nil {
		t.Error("removed sprite became active")
	}
	if !s.Loaded() {
		t.Error("late resolution did not record the load")
	}
	if len(h.w.Drawables()) != 0 {
		t.Error("removed sprite is drawn")
	}
}

func TestSpawnWithIDReplacesOccupant(t *testing.T) {
	h := newHarness(t)
	old := h.w.SpawnWithID("cam", "Camera", nil)
	oldPos := position(t, old)
	h.w.SpawnWithID("cam", "Camera", ecs.State{"position": {"x": 9}})

	if h.w.Len() != 1 {
		t.Fatalf("len = %d, want 1", h.w.Len())
	}
	if oldPos.World() != nil {
		t.Error("replaced actor still attached")
	}
	a, _ := h.w.Actor("cam")
	if position(t, a).S.X != 9 {
		t.Error("replacement not registered")
	}
}

func TestQueueRemoval(t *testing.T) {
	h := newHarness(t)
	a := h.w.Spawn("Camera", nil)
	h.w.QueueRemoval(a.ID)
	h.w.QueueRemoval("missing")
	if h.w.Len() != 1 {
		t.Fatal("queued removal applied early")
	}
	if n := h.w.FlushRemovals(); n != 1 || h.w.Len() != 0 {
		t.Errorf("flushed %d, len %d", n, h.w.Len())
	}
}

func TestTickMovesAndAnchors(t *testing.T) {
	h := newHarness(t)
	mover := h.w.Spawn("Mover", ecs.State{"velocity": {"x": 10}})
	follower := h.w.Spawn("Blank", ecs.State{
		"position": {},
		"anchor":   {"targetActor": mover.ID.String(), "offsetX": 5, "offsetY": 5},
	})

	h.w.Tick(1)
	if got := position(t, mover).Vec(); !got.Equal(geom.V(10, 0)) {
		t.Errorf("mover at %v, want (10,0)", got)
	}
	if got := position(t, follower).Vec(); !got.Equal(geom.V(15, 5)) {
		t.Errorf("follower at %v, want (15,5)", got)
	}

	h.w.RemoveActor(mover.ID)
	h.w.Tick(1)
	if got := position(t, follower).Vec(); !got.Equal(geom.V(15, 5)) {
		t.Errorf("follower moved to %v after its target was removed", got)
	}
}

func TestRootForcesApplyToMovers(t *testing.T) {
	h := newHarness(t)
	h.w.SpawnWithID(ecs.RootID, "Blank", ecs.State{"forces": {"gravityY": 10}})
	mover := h.w.Spawn("Mover", nil)

	h.w.Tick(1)
	v, _ := ecs.Get[*component.Velocity](mover, ecs.KindVelocity)
	if v.S.Y != 5 || v.S.AY != 10 {
		t.Errorf("vy=%v ay=%v, want 5 and 10", v.S.Y, v.S.AY)
	}
}

func TestMissingSiblingLogged(t *testing.T) {
	h := newHarness(t)
	h.w.Spawn("Blank", ecs.State{"velocity": {"x": 1}})
	h.w.Tick(1)
	if h.logs.FilterMessage("velocity component without position").Len() != 1 {
		t.Errorf("logs = %v", h.logs.All())
	}
}

func TestThrusterFollowsKeysAndCleansUp(t *testing.T) {
	h := newHarness(t)
	a := h.w.Spawn("Mover", ecs.State{"thruster": {"force": 30}})
	v, _ := ecs.Get[*component.Velocity](a, ecs.KindVelocity)

	h.kb.Press(component.KeyW)
	h.kb.Press(component.KeyD)
	h.flushInput()
	if got := v.Force(); !got.Equal(geom.V(30, -30)) {
		t.Fatalf("force = %v, want (30,-30)", got)
	}
	h.kb.Release(component.KeyD)
	h.flushInput()
	if got := v.Force(); !got.Equal(geom.V(0, -30)) {
		t.Fatalf("force = %v, want (0,-30)", got)
	}

	h.w.RemoveActor(a.ID)
	if !v.Force().IsZero() {
		t.Errorf("held force %v not released on removal", v.Force())
	}
	h.kb.Release(component.KeyW)
	h.kb.Press(component.KeyA)
	h.flushInput()
	if !v.Force().IsZero() {
		t.Errorf("watchers still firing after removal: force %v", v.Force())
	}
}

func TestHeldThrustNotRestoredFromSnapshot(t *testing.T) {
	for _, isCopy := range []bool{false, true} {
		h := newHarness(t)
		a := h.w.Spawn("Mover", ecs.State{"thruster": {"force": 30}})
		orig, _ := ecs.Get[*component.Velocity](a, ecs.KindVelocity)

		h.kb.Press(component.KeyW)
		h.flushInput()
		if got := orig.Force(); !got.Equal(geom.V(0, -30)) {
			t.Fatalf("copy=%v: force = %v, want (0,-30)", isCopy, got)
		}

		blob, err := h.w.Serialize()
		if err != nil {
			t.Fatal(err)
		}
		if err := h.w.Deserialize(blob, isCopy, ""); err != nil {
			t.Fatal(err)
		}

		var restored []*component.Velocity
		h.w.Each(func(b *ecs.Actor) {
			if v, ok := ecs.Get[*component.Velocity](b, ecs.KindVelocity); ok && v != orig {
				restored = append(restored, v)
			}
		})
		if len(restored) != 1 {
			t.Fatalf("copy=%v: restored %d movers, want 1", isCopy, len(restored))
		}
		v := restored[0]
		if !v.Force().IsZero() {
			t.Errorf("copy=%v: restored actor starts with force %v", isCopy, v.Force())
		}

		h.kb.Release(component.KeyW)
		h.flushInput()
		if !v.Force().IsZero() {
			t.Errorf("copy=%v: force %v after key release", isCopy, v.Force())
		}
		if !orig.Force().IsZero() {
			t.Errorf("copy=%v: original force %v after key release", isCopy, orig.Force())
		}
	}
}

func TestDrawablesInScreenSpace(t *testing.T) {
	h := newHarness(t)
	h.w.SpawnWithID(ecs.RootID, "Blank", ecs.State{"screenBounds": {"x": 100, "y": 0, "w": 200, "h": 200}})
	visible := h.w.Spawn("Block", ecs.State{"position": {"x": 150, "y": 50}})
	h.w.Spawn("Block", ecs.State{"position": {"x": 1000, "y": 1000}})

	if n := len(h.w.Drawables()); n != 0 {
		t.Fatalf("%d drawables before assets loaded, want 0", n)
	}
	h.loadAll(t)

	got := h.w.Drawables()
	if len(got) != 1 {
		t.Fatalf("drawables = %+v, want one", got)
	}
	d := got[0]
	if d.Actor != visible.ID || d.X != 50 || d.Y != 50 || d.W != 10 || d.H != 10 || d.AssetKey != "assets/test/block.png" {
		t.Errorf("drawable = %+v", d)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	h := newHarness(t)
	a := h.w.Spawn("Mover", ecs.State{"position": {"x": 4, "y": 2}, "velocity": {"x": 3}})

	blob, err := h.w.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	h2 := newHarness(t)
	if err := h2.w.Deserialize(blob, false, ""); err != nil {
		t.Fatal(err)
	}
	b, ok := h2.w.Actor(a.ID)
	if !ok || b.Class != "Mover" {
		t.Fatalf("actor %s not restored (ok=%v)", a.ID, ok)
	}
	if got := position(t, b).Vec(); !got.Equal(geom.V(4, 2)) {
		t.Errorf("position = %v", got)
	}
	v, _ := ecs.Get[*component.Velocity](b, ecs.KindVelocity)
	if v.S.X != 3 || v.S.Mass != 2 {
		t.Errorf("velocity = %+v", v.S)
	}
}

func TestDeserializeReplacesExisting(t *testing.T) {
	h := newHarness(t)
	a := h.w.Spawn("Camera", nil)
	oldPos := position(t, a)
	blob, err := h.w.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if err := h.w.Deserialize(blob, false, ""); err != nil {
		t.Fatal(err)
	}
	if h.w.Len() != 1 || oldPos.World() != nil {
		t.Errorf("len=%d, old occupant attached=%v", h.w.Len(), oldPos.World() != nil)
	}
}

func TestCopyRemapsReferences(t *testing.T) {
	h := newHarness(t)
	b := h.w.Spawn("Camera", ecs.State{"position": {"x": 1}})
	a := h.w.Spawn("Blank", ecs.State{
		"position": {},
		"anchor":   {"targetActor": b.ID.String()},
	})

	blob, err := h.w.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if err := h.w.Deserialize(blob, true, ""); err != nil {
		t.Fatal(err)
	}
	if h.w.Len() != 4 {
		t.Fatalf("len = %d, want 4", h.w.Len())
	}

	var copyA, copyB *ecs.Actor
	h.w.Each(func(x *ecs.Actor) {
		if x.ID == a.ID || x.ID == b.ID {
			return
		}
		if x.Has(ecs.KindAnchor) {
			copyA = x
		} else {
			copyB = x
		}
	})
	if copyA == nil || copyB == nil {
		t.Fatal("copies not found")
	}
	anchor, _ := ecs.Get[*component.Anchor](copyA, ecs.KindAnchor)
	if anchor.S.TargetActor != copyB.ID.String() {
		t.Errorf("copy references %q, want %q", anchor.S.TargetActor, copyB.ID)
	}
	orig, _ := ecs.Get[*component.Anchor](a, ecs.KindAnchor)
	if orig.S.TargetActor != b.ID.String() {
		t.Error("original reference rewritten")
	}
}

func TestCopyKeepsRoot(t *testing.T) {
	h := newHarness(t)
	root := h.w.SpawnWithID(ecs.RootID, "Blank", ecs.State{"forces": {"gravityY": 1}})
	h.w.Spawn("Blank", ecs.State{"anchor": {"targetActor": ecs.RootID.String()}})

	blob, err := h.w.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if err := h.w.Deserialize(blob, true, ""); err != nil {
		t.Fatal(err)
	}
	if h.w.Len() != 3 || h.w.Root() != root {
		t.Errorf("len=%d, root replaced=%v", h.w.Len(), h.w.Root() != root)
	}
	if h.logs.Len() != 0 {
		t.Errorf("reference to root treated as dangling: %v", h.logs.All())
	}
}

func TestCopyDropsDanglingReference(t *testing.T) {
	h := newHarness(t)
	blob, _ := json.Marshal(Snapshot{ActorStates: []ActorState{{
		UUID:  "a",
		Class: "Blank",
		State: ecs.State{"anchor": {"targetActor": "ghost", "offsetX": 2}},
	}}})

	if err := h.w.Deserialize(blob, true, ""); err != nil {
		t.Fatal(err)
	}
	if h.logs.FilterMessage("probably a bug: reference to an actor outside the snapshot, dropping it").Len() != 1 {
		t.Errorf("logs = %v", h.logs.All())
	}
	var copied *ecs.Actor
	h.w.Each(func(x *ecs.Actor) { copied = x })
	if copied == nil || copied.ID == "a" {
		t.Fatalf("copy not spawned with a fresh id: %v", copied)
	}
	anchor, _ := ecs.Get[*component.Anchor](copied, ecs.KindAnchor)
	if anchor.S.TargetActor != "" || anchor.S.OffsetX != 2 {
		t.Errorf("anchor = %+v", anchor.S)
	}
}

func TestDeserializeErrors(t *testing.T) {
	h := newHarness(t)
	if err := h.w.Deserialize([]byte("{"), false, ""); err == nil {
		t.Error("garbage accepted")
	}
	if err := h.w.Deserialize([]byte("{}"), false, ""); err != nil {
		t.Errorf("empty snapshot: %v", err)
	}
	if h.logs.FilterMessage("snapshot has no actor states").Len() != 1 {
		t.Error("missing actor states not logged")
	}
}

func TestDeserializeClassOverride(t *testing.T) {
	h := newHarness(t)
	blob := []byte(`{"actorStates":[{"uuid":"x","class":"Blank","state":{}}]}`)
	if err := h.w.Deserialize(blob, false, "Camera"); err != nil {
		t.Fatal(err)
	}
	a, ok := h.w.Actor("x")
	if !ok || a.Class != "Camera" || !a.Has(ecs.KindPosition) {
		t.Errorf("actor = %+v ok=%v", a, ok)
	}
}
