package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// toGoValue converts a Lua value to a Go value suitable for JSON
// encoding. Tables with contiguous integer keys starting at 1 become
// slices, other tables become maps. Functions and userdata convert to
// nil.
func toGoValue(lv lua.LValue) interface{} {
	return toGoValueVisited(lv, make(map[*lua.LTable]bool))
}

func toGoValueVisited(lv lua.LValue, visited map[*lua.LTable]bool) interface{} {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			// Break circular references.
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) interface{} {
	maxN := 0
	count := 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok || float64(kn) != float64(int(kn)) || int(kn) < 1 {
			isArray = false
			return
		}
		if int(kn) > maxN {
			maxN = int(kn)
		}
	})

	if isArray && maxN > 0 && count == maxN {
		arr := make([]interface{}, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = toGoValueVisited(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]interface{})
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = toGoValueVisited(v, visited)
	})
	return m
}

// toLuaValue converts a decoded JSON value to a Lua value.
func toLuaValue(L *lua.LState, v interface{}) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case float64:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []interface{}:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, toLuaValue(L, item))
		}
		return t
	case map[string]interface{}:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLuaValue(L, item))
		}
		return t
	default:
		return lua.LNil
	}
}
