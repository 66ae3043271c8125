package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/embervale/engine/internal/game/rng"
)

// Effects are the side effects a monster hook may return: a table with
// "stun_ticks" and "bonus_damage" fields, both optional.
type Effects struct {
	StunTicks   int
	BonusDamage int
}

// Manager owns one sandboxed LState holding every loaded hook script.
//
// Manager is safe for concurrent EvalHook after LoadDirectory completes;
// the mutex serializes calls into the single VM.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel context.CancelFunc
	roller *rng.Roller
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *rng.Roller, logger *zap.Logger) *Manager {
	return &Manager{roller: roller, logger: logger}
}

// LoadDirectory creates a sandboxed VM, registers the engine.* module, then
// executes every *.lua file in scriptDir in lexicographic order. Hook
// functions defined by those files become callable through EvalHook.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: a previous VM, if any, is closed and replaced.
func (m *Manager) LoadDirectory(scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.registerModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
	}
	m.state = L
	m.cancel = cancel
	m.mu.Unlock()
	return nil
}

// registerModules defines the engine.* table: engine.roll(min, max)
// returns a uniform integer using the simulation's random source, keeping
// scripted rolls replayable under a fixed seed.
func (m *Manager) registerModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)
	L.SetField(engine, "roll", L.NewFunction(func(ls *lua.LState) int {
		min := ls.CheckInt(1)
		max := ls.CheckInt(2)
		ls.Push(lua.LNumber(m.roller.Between(min, max)))
		return 1
	}))
}

// EvalHook calls the named Lua global function and decodes its returned
// table. A missing VM, undefined hook, or Lua runtime error yields zero
// effects; runtime errors are logged at Warn level and never propagated.
//
// Postcondition: StunTicks and BonusDamage are never negative.
func (m *Manager) EvalHook(hook string) (Effects, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return Effects{}, nil
	}
	L := m.state

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return Effects{}, nil
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return Effects{}, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return decodeEffects(ret), nil
}

// Close tears down the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
		m.state = nil
	}
}

func decodeEffects(v lua.LValue) Effects {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return Effects{}
	}
	var e Effects
	if n, ok := tbl.RawGetString("stun_ticks").(lua.LNumber); ok && n > 0 {
		e.StunTicks = int(n)
	}
	if n, ok := tbl.RawGetString("bonus_damage").(lua.LNumber); ok && n > 0 {
		e.BonusDamage = int(n)
	}
	return e
}
