package script

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shotgun/internal/event"
)

// module builds the shotgun table:
//
//	key = shotgun.listen(path, fn [, key])
//	ok = shotgun.fire(path, ...)
//	ok = shotgun.fire_key(path, key, ...)
//	ok = shotgun.remove(path [, key])
//	ok = shotgun.register_internal(path, ...)
//	shotgun.attempt(fn [, path [, key]])
//	name = shotgun.internal(name)
//	tree = shotgun.user_events()
//	tree = shotgun.internal_events()
//	tree = shotgun.lookup(path)
//	shotgun.version
func (r *Runtime) module() *lua.LTable {
	mod := r.L.SetFuncs(r.L.NewTable(), map[string]lua.LGFunction{
		"listen":            r.luaListen,
		"fire":              r.luaFire,
		"fire_key":          r.luaFireKey,
		"remove":            r.luaRemove,
		"register_internal": r.luaRegisterInternal,
		"attempt":           r.luaAttempt,
		"internal":          r.luaInternal,
		"user_events":       r.luaUserEvents,
		"internal_events":   r.luaInternalEvents,
		"lookup":            r.luaLookup,
	})
	mod.RawSetString("version", lua.LString(event.Version))
	return mod
}

func (r *Runtime) luaListen(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	key := L.OptString(3, "")

	key, err := r.bus.ListenKey(name, key, r.listener(fn))
	if err != nil {
		raise(L, err)
		return 0
	}
	L.Push(lua.LString(key))
	return 1
}

func (r *Runtime) luaFire(L *lua.LState) int {
	name := L.CheckString(1)

	ok, err := r.bus.Fire(name, collectArgs(L, 2)...)
	if err != nil {
		raise(L, err)
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (r *Runtime) luaFireKey(L *lua.LState) int {
	name := L.CheckString(1)
	key := L.CheckString(2)

	ok, err := r.bus.FireKey(name, key, collectArgs(L, 3)...)
	if err != nil {
		raise(L, err)
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (r *Runtime) luaRemove(L *lua.LState) int {
	name := L.CheckString(1)
	key := L.OptString(2, "")

	var (
		ok  bool
		err error
	)
	if key == "" {
		ok, err = r.bus.Remove(name)
	} else {
		ok, err = r.bus.RemoveKey(name, key)
	}
	if err != nil {
		raise(L, err)
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (r *Runtime) luaRegisterInternal(L *lua.LState) int {
	n := L.GetTop()
	paths := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		paths = append(paths, L.CheckString(i))
	}
	L.Push(lua.LBool(r.bus.RegisterInternal(paths...)))
	return 1
}

func (r *Runtime) luaAttempt(L *lua.LState) int {
	fn := L.CheckFunction(1)

	opts := []event.AttemptOption{event.WithReportedFunc(fn)}
	if p := L.OptString(2, ""); p != "" {
		opts = append(opts, event.WithErrorPath(p))
	}
	if k := L.OptString(3, ""); k != "" {
		opts = append(opts, event.WithErrorKey(k))
	}

	r.bus.Attempt(func() error {
		return r.call(fn, nil)
	}, opts...)
	return 0
}

func (r *Runtime) luaInternal(L *lua.LState) int {
	L.Push(lua.LString(r.bus.Internal(L.CheckString(1))))
	return 1
}

func (r *Runtime) luaUserEvents(L *lua.LState) int {
	L.Push(snapshotToTable(L, r.bus.UserEvents()))
	return 1
}

func (r *Runtime) luaInternalEvents(L *lua.LState) int {
	L.Push(snapshotToTable(L, r.bus.InternalEvents()))
	return 1
}

func (r *Runtime) luaLookup(L *lua.LState) int {
	snap, ok := r.bus.Lookup(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(snapshotToTable(L, snap))
	return 1
}

// raise converts err into a Lua error. A value raised by a Lua listener
// is re-raised unchanged.
func raise(L *lua.LState, err error) {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil && apiErr.Object != lua.LNil {
		L.Error(apiErr.Object, 0)
		return
	}
	L.RaiseError("%s", err.Error())
}
