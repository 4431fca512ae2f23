package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/l1jgo/simcore/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// BlockSize is the edge length of the blocks api.block places.
const BlockSize = 50

// Engine wraps a single gopher-lua VM holding the level scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "levels"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// SpawnRequest is one actor a level script asked for.
type SpawnRequest struct {
	ID    ecs.ActorID
	Class string
	State ecs.State
}

// BuildLevel calls Lua build_<name>(api) and returns the actors it spawned,
// in call order. The api table offers:
//
//	api.spawn(class, state [, id]) -> id
//	api.block(x, y [, state])      -> id
//	api.block_size
func (e *Engine) BuildLevel(name string) ([]SpawnRequest, error) {
	fnName := "build_" + name
	fn := e.vm.GetGlobal(fnName)
	if fn == lua.LNil {
		return nil, fmt.Errorf("lua function %s not found", fnName)
	}

	var reqs []SpawnRequest
	add := func(L *lua.LState, class string, state *lua.LTable, id string) int {
		if id == "" {
			id = ecs.NewActorID().String()
		}
		reqs = append(reqs, SpawnRequest{ID: ecs.ActorID(id), Class: class, State: tableToState(state)})
		L.Push(lua.LString(id))
		return 1
	}

	api := e.vm.NewTable()
	api.RawSetString("block_size", lua.LNumber(BlockSize))
	api.RawSetString("spawn", e.vm.NewFunction(func(L *lua.LState) int {
		return add(L, L.CheckString(1), L.OptTable(2, nil), L.OptString(3, ""))
	}))
	api.RawSetString("block", e.vm.NewFunction(func(L *lua.LState) int {
		x, y := L.CheckNumber(1), L.CheckNumber(2)
		state := L.OptTable(3, nil)
		if state == nil {
			state = L.NewTable()
		}
		pos := L.NewTable()
		pos.RawSetString("x", x)
		pos.RawSetString("y", y)
		state.RawSetString("position", pos)
		return add(L, "Block", state, "")
	}))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, api); err != nil {
		return nil, fmt.Errorf("lua %s: %w", fnName, err)
	}

	e.log.Info("level built", zap.String("level", name), zap.Int("actors", len(reqs)))
	return reqs, nil
}

// Spawner is what level requests are applied to.
type Spawner interface {
	SpawnWithID(id ecs.ActorID, class string, state ecs.State) *ecs.Actor
}

// Apply spawns every request in order.
func Apply(s Spawner, reqs []SpawnRequest) int {
	for _, r := range reqs {
		s.SpawnWithID(r.ID, r.Class, r.State)
	}
	return len(reqs)
}

// tableToState converts {kind = {field = value}} into an ecs.State.
// Entries that are not tables are ignored.
func tableToState(t *lua.LTable) ecs.State {
	state := ecs.State{}
	if t == nil {
		return state
	}
	t.ForEach(func(k, v lua.LValue) {
		fields, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		m, _ := toGo(fields).(map[string]any)
		state[luaKey(k)] = m
	})
	return state
}

// toGo converts a Lua value to its JSON-compatible Go form.
func toGo(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		m := make(map[string]any)
		v.ForEach(func(k, val lua.LValue) {
			m[luaKey(k)] = toGo(val)
		})
		return m
	}
	return nil
}

func luaKey(k lua.LValue) string {
	if n, ok := k.(lua.LNumber); ok {
		return strconv.FormatFloat(float64(n), 'f', -1, 64)
	}
	return k.String()
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
