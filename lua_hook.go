// lua_hook.go - the scripting host (spec.md §6 "Scripting hook",
// SPEC_FULL.md §4.10). One *lua.LState per lua_model script, built on
// gopher-lua, the corpus's own choice for embedding a scripting layer.

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LuaHost wraps one loaded peripheral-model script. Implements
// ScriptHost.
type LuaHost struct {
	path     string
	state    *lua.LState
	m        *MachineState
	freq     uint64
	detached bool
}

// LoadLuaModel loads and runs path, registering the Go-function
// bindings spec.md §6 names before execution so module-level code can
// call them immediately.
func LoadLuaModel(path string, m *MachineState, freq uint64) (*LuaHost, error) {
	L := lua.NewState()
	h := &LuaHost{path: path, state: L, m: m, freq: freq}
	h.registerBindings()

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, configErrorf("load lua model %s: %v", path, err)
	}
	return h, nil
}

func (h *LuaHost) registerBindings() {
	L := h.state
	L.SetGlobal("reg_read", L.NewFunction(h.luaRegRead))
	L.SetGlobal("reg_write", L.NewFunction(h.luaRegWrite))
	L.SetGlobal("io_bit_read", L.NewFunction(h.luaIOBitRead))
	L.SetGlobal("io_bit_write", L.NewFunction(h.luaIOBitWrite))
	L.SetGlobal("mcu_freq", L.NewFunction(h.luaMCUFreq))
	L.SetGlobal("set_run_state", L.NewFunction(h.luaSetRunState))
	L.SetGlobal("log", L.NewFunction(h.luaLog))
}

// Conf invokes the script's module_conf(mcu) once at load time.
func (h *LuaHost) Conf(mcuName string) error {
	return h.call("module_conf", mcuName)
}

// Tick invokes the script's module_tick(mcu) once per cycle. A Lua
// error here is recoverable (spec.md §7c): logged once, the script is
// detached for the remainder of the run.
func (h *LuaHost) Tick(mcuName string) error {
	if h.detached {
		return nil
	}
	if err := h.call("module_tick", mcuName); err != nil {
		h.detached = true
		return err
	}
	return nil
}

func (h *LuaHost) Detached() bool { return h.detached }

// Close releases the underlying Lua state.
func (h *LuaHost) Close() { h.state.Close() }

func (h *LuaHost) call(fn, mcuName string) error {
	L := h.state
	f := L.GetGlobal(fn)
	if f == lua.LNil {
		return nil
	}
	return L.CallByParam(lua.P{Fn: f, NRet: 0, Protect: true}, lua.LString(mcuName))
}

func (h *LuaHost) luaRegRead(L *lua.LState) int {
	name := L.CheckString(1)
	n, err := regByName(name)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LNumber(h.m.Reg(n)))
	return 1
}

func (h *LuaHost) luaRegWrite(L *lua.LState) int {
	name := L.CheckString(1)
	v := L.CheckNumber(2)
	n, err := regByName(name)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	h.m.SetReg(n, byte(v))
	return 0
}

func (h *LuaHost) luaIOBitRead(L *lua.LState) int {
	addr := L.CheckInt(1)
	bit := L.CheckInt(2)
	b := IOBit{Offset: h.m.Profile.IOAddr(addr), Bit: uint(bit)}
	if b.Read(h.m.DM) {
		L.Push(lua.LNumber(1))
	} else {
		L.Push(lua.LNumber(0))
	}
	return 1
}

func (h *LuaHost) luaIOBitWrite(L *lua.LState) int {
	addr := L.CheckInt(1)
	bit := L.CheckInt(2)
	v := L.CheckInt(3)
	b := IOBit{Offset: h.m.Profile.IOAddr(addr), Bit: uint(bit)}
	b.Write(h.m.DM, v != 0)
	return 0
}

func (h *LuaHost) luaMCUFreq(L *lua.LState) int {
	L.Push(lua.LNumber(h.freq))
	return 1
}

func (h *LuaHost) luaSetRunState(L *lua.LState) int {
	name := L.CheckString(1)
	s, ok := ParseRunState(name)
	if !ok {
		L.RaiseError("unknown run state %q", name)
		return 0
	}
	h.m.RunState = s
	return 0
}

func (h *LuaHost) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	logf("[%s] %s", h.path, msg)
	return 0
}

// regByName accepts "r0".."r31" (spec.md §6's reg_read/reg_write take a
// register name).
func regByName(name string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(name, "r%d", &n); err != nil || n < 0 || n > 31 {
		return 0, fmt.Errorf("unknown register %q", name)
	}
	return n, nil
}
