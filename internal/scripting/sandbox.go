package scripting

import (
	lua "github.com/yuin/gopher-lua"
)

// openSafeLibraries opens only the Lua standard libraries that hook files
// need. io, os, debug and package stay closed: hooks observe and rewrite
// commands, they do not get system access from inside the Lua state.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// OpenBase registers loaders that would let scripts pull in
	// arbitrary code.
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)
}
