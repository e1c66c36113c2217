package scripting

import (
	"encoding/json"

	lua "github.com/yuin/gopher-lua"
)

// installAPI registers the terminal table exposed to hook files:
//
//	terminal.interceptor([prefix, ]fn) -- fn(command) -> bool | string
//	terminal.callback([prefix, ]fn)    -- fn(command, exit_code, stdout, stderr)
//	terminal.log(level, message)
//	terminal.json_encode(value) -> string
//	terminal.json_decode(string) -> value
func (e *Engine) installAPI() {
	L := e.state

	terminal := L.NewTable()
	L.SetField(terminal, "interceptor", L.NewFunction(e.apiInterceptor))
	L.SetField(terminal, "callback", L.NewFunction(e.apiCallback))
	L.SetField(terminal, "log", L.NewFunction(e.apiLog))
	L.SetField(terminal, "json_encode", L.NewFunction(apiJSONEncode))
	L.SetField(terminal, "json_decode", L.NewFunction(apiJSONDecode))
	L.SetGlobal("terminal", terminal)
}

func (e *Engine) apiInterceptor(L *lua.LState) int {
	prefix, fn := registrationArgs(L)
	name := e.nextHookName("interceptor")

	if _, err := e.registry.RegisterInterceptor(name, prefix, e.interceptorAction(name, fn)); err != nil {
		L.RaiseError("failed to register interceptor: %v", err)
	}
	return 0
}

func (e *Engine) apiCallback(L *lua.LState) int {
	prefix, fn := registrationArgs(L)
	name := e.nextHookName("callback")

	if _, err := e.registry.RegisterCallback(name, prefix, e.callbackAction(fn)); err != nil {
		L.RaiseError("failed to register callback: %v", err)
	}
	return 0
}

// registrationArgs reads the optional prefix and the hook function from
// the Lua stack. Both terminal.interceptor(fn) and
// terminal.interceptor("git", fn) are accepted; nil stands in for the
// global prefix.
func registrationArgs(L *lua.LState) (string, *lua.LFunction) {
	if L.GetTop() < 2 {
		return "", L.CheckFunction(1)
	}
	prefix := ""
	if L.Get(1) != lua.LNil {
		prefix = L.CheckString(1)
	}
	return prefix, L.CheckFunction(2)
}

func (e *Engine) apiLog(L *lua.LState) int {
	level := L.CheckString(1)
	message := L.CheckString(2)

	switch level {
	case "debug":
		e.logger.Debug(message, "source", "lua")
	case "warn", "warning":
		e.logger.Warn(message, "source", "lua")
	case "error":
		e.logger.Error(message, "source", "lua")
	default:
		e.logger.Info(message, "source", "lua")
	}
	return 0
}

func apiJSONEncode(L *lua.LState) int {
	data, err := json.Marshal(toGoValue(L.Get(1)))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(data))
	return 1
}

func apiJSONDecode(L *lua.LState) int {
	var value interface{}
	if err := json.Unmarshal([]byte(L.CheckString(1)), &value); err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(toLuaValue(L, value))
	return 1
}
