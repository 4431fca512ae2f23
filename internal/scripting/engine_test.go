package scripting

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"go.uber.org/zap"
)

const testLevel = `
function build_demo(api)
  local player = api.spawn("Player", { position = { x = 1, y = 2 }, sprite = { asset = { url = "p.png" }, visible = false } })
  api.spawn("Blank", { anchor = { targetActor = player, offsetX = -10 } }, "root")
  for i = 0, 2 do
    api.block(i * api.block_size, 100)
  end
end

function build_broken(api)
  error("boom")
end
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "levels"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "levels", "demo.lua"), []byte(testLevel), 0o644); err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e
}

type recordingSpawner struct {
	ids []ecs.ActorID
}

func (r *recordingSpawner) SpawnWithID(id ecs.ActorID, class string, state ecs.State) *ecs.Actor {
	r.ids = append(r.ids, id)
	return ecs.NewActor(id, class)
}

func TestBuildLevel(t *testing.T) {
	e := newTestEngine(t)
	reqs, err := e.BuildLevel("demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 5 {
		t.Fatalf("got %d requests, want 5", len(reqs))
	}

	player := reqs[0]
	if player.Class != "Player" || player.ID.IsZero() {
		t.Errorf("player = %+v", player)
	}
	if player.State["position"]["x"] != 1.0 || player.State["sprite"]["visible"] != false {
		t.Errorf("player state = %v", player.State)
	}
	asset, _ := player.State["sprite"]["asset"].(map[string]any)
	if asset["url"] != "p.png" {
		t.Errorf("sprite asset = %v", player.State["sprite"]["asset"])
	}

	root := reqs[1]
	if root.ID != ecs.RootID || root.State["anchor"]["targetActor"] != player.ID.String() {
		t.Errorf("root = %+v", root)
	}

	for i, b := range reqs[2:] {
		if b.Class != "Block" || b.State["position"]["x"] != float64(i*BlockSize) || b.State["position"]["y"] != 100.0 {
			t.Errorf("block %d = %+v", i, b)
		}
	}

	var s recordingSpawner
	if n := Apply(&s, reqs); n != 5 || s.ids[1] != ecs.RootID {
		t.Errorf("applied %d, ids %v", n, s.ids)
	}
}

func TestBuildLevelErrors(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.BuildLevel("missing"); err == nil {
		t.Error("missing level built")
	}
	if _, err := e.BuildLevel("broken"); err == nil {
		t.Error("failing level built")
	}
}

func TestMissingScriptsDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	e.Close()
}

func TestShippedTestLevel(t *testing.T) {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "scripts")
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	reqs, err := e.BuildLevel("test")
	if err != nil {
		t.Fatal(err)
	}
	// player, root, 21 floor blocks, two walls of 4
	if len(reqs) != 31 {
		t.Fatalf("got %d requests, want 31", len(reqs))
	}
	if reqs[1].ID != ecs.RootID || reqs[1].Class != "Root" {
		t.Errorf("second request = %+v, want the root", reqs[1])
	}
	floor := reqs[2]
	if floor.State["position"]["x"] != float64(-10*BlockSize) || floor.State["position"]["y"] != float64(2*BlockSize) {
		t.Errorf("first floor block at %v", floor.State["position"])
	}
}
