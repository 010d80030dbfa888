package script

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shotgun/internal/event"
)

func TestToGoValue(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	require.NoError(t, L.DoString(`
		arr = {1, "two", true}
		obj = {name = "x", n = 1.5, nested = {1}}
		holes = {[1] = "a", [3] = "c"}
		empty = {}
		fn = function() end
	`))

	tests := []struct {
		name string
		in   lua.LValue
		want any
	}{
		{"nil", lua.LNil, nil},
		{"bool", lua.LTrue, true},
		{"int", lua.LNumber(42), int64(42)},
		{"float", lua.LNumber(0.5), 0.5},
		{"string", lua.LString("s"), "s"},
		{"array", L.GetGlobal("arr"), []any{int64(1), "two", true}},
		{"object", L.GetGlobal("obj"), map[string]any{"name": "x", "n": 1.5, "nested": []any{int64(1)}}},
		{"holes", L.GetGlobal("holes"), map[string]any{"1": "a", "3": "c"}},
		{"empty", L.GetGlobal("empty"), map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToGoValue(tt.in))
		})
	}

	fn := L.GetGlobal("fn")
	assert.Same(t, fn, ToGoValue(fn))
}

func TestToGoValue_Cycle(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	require.NoError(t, L.DoString(`cyc = {name = "c"}; cyc.self = cyc`))

	got, ok := ToGoValue(L.GetGlobal("cyc")).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "c", got["name"])
	assert.Nil(t, got["self"])
}

func TestToLuaValue(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	assert.Equal(t, lua.LNil, ToLuaValue(L, nil))
	assert.Equal(t, lua.LNumber(3), ToLuaValue(L, 3))
	assert.Equal(t, lua.LNumber(3), ToLuaValue(L, int64(3)))
	assert.Equal(t, lua.LString("b"), ToLuaValue(L, []byte("b")))
	assert.Equal(t, lua.LString("failed"), ToLuaValue(L, errors.New("failed")))

	tbl, ok := ToLuaValue(L, map[string]any{"list": []string{"a", "b"}}).(*lua.LTable)
	require.True(t, ok)
	list, ok := tbl.RawGetString("list").(*lua.LTable)
	require.True(t, ok)
	assert.Equal(t, lua.LString("b"), list.RawGetInt(2))

	type opaque struct{ n int }
	ud, ok := ToLuaValue(L, opaque{n: 1}).(*lua.LUserData)
	require.True(t, ok)
	assert.Equal(t, opaque{n: 1}, ToGoValue(ud))
}

func TestToLuaValue_LuaError(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	err := L.DoString(`error({code = 7})`)
	require.Error(t, err)

	wrapped := &event.ListenerError{Path: "a", Key: "k", Err: err}
	tbl, ok := ToLuaValue(L, wrapped).(*lua.LTable)
	require.True(t, ok)
	assert.Equal(t, lua.LNumber(7), tbl.RawGetString("code"))
}

func TestSnapshotToTable(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	snap := event.Snapshot{
		ID:        "root",
		Listeners: []string{"k0"},
		Children: []event.Snapshot{
			{ID: "c", Name: "child", Listeners: []string{"k1", "k2"}},
		},
	}

	tbl, ok := ToLuaValue(L, snap).(*lua.LTable)
	require.True(t, ok)
	assert.Equal(t, lua.LString("root"), tbl.RawGetString("id"))

	want := map[string]any{
		"id":        "root",
		"listeners": []any{"k0"},
		"children": map[string]any{
			"child": map[string]any{
				"id":        "c",
				"listeners": []any{"k1", "k2"},
				"children":  map[string]any{},
			},
		},
	}
	assert.Equal(t, want, ToGoValue(tbl))
}
