package script

import (
	"errors"
	"math"
	"strconv"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shotgun/internal/event"
)

// ToGoValue converts a Lua value to a Go value.
//
// Integral numbers become int64, other numbers float64. Tables with
// contiguous integer keys from 1 become []any, other tables
// map[string]any. Functions and userdata pass through unchanged so a Lua
// function fired as an argument reaches Lua listeners intact.
func ToGoValue(lv lua.LValue) any {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case nil:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	case *lua.LNilType:
		return nil
	case *lua.LUserData:
		return v.Value
	default:
		return lv
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = strconv.FormatFloat(float64(kv), 'f', -1, 64)
		default:
			key = k.String()
		}
		m[key] = toGo(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value.
//
// Errors are converted to their message, except Lua errors which carry
// the value they raised. Snapshots become nested tables. Anything
// unrecognised is wrapped in userdata.
func ToLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint:
		return lua.LNumber(val)
	case uint32:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []byte:
		return lua.LString(val)
	case []string:
		t := L.CreateTable(len(val), 0)
		for i, s := range val {
			t.RawSetInt(i+1, lua.LString(s))
		}
		return t
	case []any:
		t := L.CreateTable(len(val), 0)
		for i, e := range val {
			t.RawSetInt(i+1, ToLuaValue(L, e))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for k, e := range val {
			t.RawSetString(k, ToLuaValue(L, e))
		}
		return t
	case event.Snapshot:
		return snapshotToTable(L, val)
	case error:
		return errorToLua(val)
	default:
		ud := L.NewUserData()
		ud.Value = v
		return ud
	}
}

func errorToLua(err error) lua.LValue {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil && apiErr.Object != lua.LNil {
		return apiErr.Object
	}
	return lua.LString(err.Error())
}

// snapshotToTable builds {id=, listeners={...}, children={name={...}}}.
func snapshotToTable(L *lua.LState, s event.Snapshot) *lua.LTable {
	t := L.CreateTable(0, 3)
	t.RawSetString("id", lua.LString(s.ID))

	listeners := L.CreateTable(len(s.Listeners), 0)
	for i, k := range s.Listeners {
		listeners.RawSetInt(i+1, lua.LString(k))
	}
	t.RawSetString("listeners", listeners)

	children := L.CreateTable(0, len(s.Children))
	for _, c := range s.Children {
		children.RawSetString(c.Name, snapshotToTable(L, c))
	}
	t.RawSetString("children", children)
	return t
}

// pushArgs converts args and pushes them onto the stack.
func pushArgs(L *lua.LState, args []any) {
	for _, a := range args {
		L.Push(ToLuaValue(L, a))
	}
}

// collectArgs converts stack values from index start to the top.
func collectArgs(L *lua.LState, start int) []any {
	top := L.GetTop()
	if top < start {
		return nil
	}
	args := make([]any, 0, top-start+1)
	for i := start; i <= top; i++ {
		args = append(args, ToGoValue(L.Get(i)))
	}
	return args
}
