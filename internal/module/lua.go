package module

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Lua lifecycle function names a scripted module may define. All are
// optional; a missing function is skipped.
const (
	luaOnCreate  = "on_create"
	luaOnUpdate  = "on_update"
	luaOnDestroy = "on_destroy"
)

// luaModule runs a user-supplied Lua script as a behavior module. The
// script sees a global `imagesel` table exposing the selection context
// and may define on_create/on_update/on_destroy.
type luaModule struct {
	ctx    *Context
	path   string
	state  *lua.LState
	runErr error
}

// NewLuaConstructor returns a constructor that runs the Lua script at
// path as a behavior module. The path is validated when the module
// spec is resolved; runtime script errors are recorded on the
// instance and surfaced via Err.
func NewLuaConstructor(path string) Constructor {
	return func(ctx *Context) Module {
		return &luaModule{ctx: ctx, path: path}
	}
}

// OnCreate loads the script and calls its on_create function.
func (m *luaModule) OnCreate() {
	m.state = lua.NewState()
	m.registerAPI()
	m.pushSelectionState()

	if err := m.state.DoFile(m.path); err != nil {
		m.runErr = fmt.Errorf("load script %q: %w", m.path, err)
		return
	}
	m.call(luaOnCreate)
}

// OnUpdate refreshes the exposed selection state and calls on_update.
func (m *luaModule) OnUpdate() {
	if m.state == nil || m.runErr != nil {
		return
	}
	m.pushSelectionState()
	m.call(luaOnUpdate)
}

// OnDestroy calls on_destroy and closes the Lua state. Script errors
// during destroy do not block cleanup.
func (m *luaModule) OnDestroy() {
	if m.state == nil {
		return
	}
	if m.runErr == nil {
		m.call(luaOnDestroy)
	}
	m.state.Close()
	m.state = nil
}

// Err returns the first script error encountered, if any.
func (m *luaModule) Err() error {
	return m.runErr
}

// call invokes an optional global function in the script.
func (m *luaModule) call(name string) {
	fn := m.state.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return
	}
	if err := m.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		m.runErr = fmt.Errorf("script %q %s: %w", m.path, name, err)
	}
}

// registerAPI installs the `imagesel` table with host callbacks.
func (m *luaModule) registerAPI() {
	L := m.state
	tbl := L.NewTable()

	L.SetField(tbl, "annotate", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		value := L.CheckString(2)
		if m.ctx != nil && m.ctx.Overlay != nil {
			m.ctx.Overlay.SetAnnotation(name, value)
		}
		return 0
	}))

	L.SetField(tbl, "remove_annotation", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if m.ctx != nil && m.ctx.Overlay != nil {
			m.ctx.Overlay.RemoveAnnotation(name)
		}
		return 0
	}))

	L.SetField(tbl, "reposition", L.NewFunction(func(L *lua.LState) int {
		if m.ctx != nil && m.ctx.Owner != nil {
			m.ctx.Owner.Reposition()
		}
		return 0
	}))

	L.SetGlobal("imagesel", tbl)
}

// pushSelectionState mirrors the current image and overlay geometry
// into the script's `image` and `overlay` globals.
func (m *luaModule) pushSelectionState() {
	L := m.state

	imgTbl := L.NewTable()
	if m.ctx != nil && m.ctx.Image != nil {
		if b, ok := m.ctx.Image.Bounds(); ok {
			L.SetField(imgTbl, "width", lua.LNumber(b.Width))
			L.SetField(imgTbl, "height", lua.LNumber(b.Height))
		}
		natural := m.ctx.Image.NaturalSize()
		L.SetField(imgTbl, "natural_width", lua.LNumber(natural.Width))
		L.SetField(imgTbl, "natural_height", lua.LNumber(natural.Height))
	}
	L.SetGlobal("image", imgTbl)

	overlayTbl := L.NewTable()
	if m.ctx != nil && m.ctx.Overlay != nil {
		r := m.ctx.Overlay.Rect()
		L.SetField(overlayTbl, "left", lua.LNumber(r.Left))
		L.SetField(overlayTbl, "top", lua.LNumber(r.Top))
		L.SetField(overlayTbl, "width", lua.LNumber(r.Width))
		L.SetField(overlayTbl, "height", lua.LNumber(r.Height))
	}
	L.SetGlobal("overlay", overlayTbl)
}
