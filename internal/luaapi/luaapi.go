// Package luaapi exposes platform identity and view settings to Lua
// plugin scripts.
//
// The module registers as "platform". Scripts can inspect the OS
// snapshot, read and write the view's settings, list the resolved
// concrete keys, and request a reconciliation:
//
//	local platform = require("platform")
//	if platform.os().id == "ubuntu" then
//	    platform.set("font_size", 12)
//	end
//
// The hosting LState is single-goroutine; all functions run on the
// caller's goroutine, matching the host's cooperative event model.
package luaapi

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/platformset/internal/osinfo"
	"github.com/dshills/platformset/internal/reconcile"
)

// ModuleName is the name scripts require.
const ModuleName = "platform"

// Module binds one view and the host platform snapshot into a Lua state.
type Module struct {
	info       *osinfo.Info
	reconciler *reconcile.Reconciler
	view       reconcile.View
}

// NewModule creates the scripting surface for a view.
func NewModule(info *osinfo.Info, r *reconcile.Reconciler, view reconcile.View) *Module {
	return &Module{info: info, reconciler: r, view: view}
}

// Register preloads the module so scripts can require it.
func (m *Module) Register(L *lua.LState) {
	L.PreloadModule(ModuleName, m.load)
}

func (m *Module) load(L *lua.LState) int {
	exports := map[string]lua.LGFunction{
		"os":        m.osFn,
		"version":   m.versionFn,
		"get":       m.getFn,
		"set":       m.setFn,
		"keys":      m.keysFn,
		"reconcile": m.reconcileFn,
	}
	L.Push(L.SetFuncs(L.NewTable(), exports))
	return 1
}

// osFn returns the OS snapshot as a table.
func (m *Module) osFn(L *lua.LState) int {
	tbl := L.NewTable()
	tbl.RawSetString("arch", lua.LString(m.info.Arch))
	tbl.RawSetString("bits", lua.LNumber(m.info.Bits))
	tbl.RawSetString("type", lua.LString(m.info.Type))
	tbl.RawSetString("family", lua.LString(m.info.Family))
	tbl.RawSetString("id", lua.LString(m.info.ID))
	tbl.RawSetString("subsys", lua.LString(m.info.Subsys))
	tbl.RawSetString("version", lua.LString(m.info.Version.String()))
	L.Push(tbl)
	return 1
}

// versionFn returns the rendered OS version string.
func (m *Module) versionFn(L *lua.LState) int {
	L.Push(lua.LString(m.info.Version.String()))
	return 1
}

// getFn returns a setting value, or the optional default when absent.
func (m *Module) getFn(L *lua.LState) int {
	key := L.CheckString(1)
	var def any
	if L.GetTop() >= 2 {
		def = toGo(L.Get(2))
	}
	L.Push(toLua(L, m.view.Settings.Get(key, def)))
	return 1
}

// setFn writes a setting value.
func (m *Module) setFn(L *lua.LState) int {
	key := L.CheckString(1)
	m.view.Settings.Set(key, toGo(L.Get(2)))
	return 0
}

// keysFn returns the resolved concrete key list in merge order.
func (m *Module) keysFn(L *lua.LState) int {
	L.Push(toLua(L, m.reconciler.Keys(m.view.Settings)))
	return 1
}

// reconcileFn runs a reconciliation for the bound view.
func (m *Module) reconcileFn(L *lua.LState) int {
	m.reconciler.Reconcile(m.view)
	return 0
}
