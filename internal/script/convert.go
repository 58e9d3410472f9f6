package script

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/statebind/internal/props"
	"github.com/dshills/statebind/internal/store"
)

// propsToTable converts a bag into a fresh Lua table.
func propsToTable(L *lua.LState, p props.Props) *lua.LTable {
	t := L.NewTable()
	for k, v := range p {
		t.RawSetString(k, toLua(L, v))
	}
	return t
}

// actionToTable exposes the action as {kind, type, name, payload}.
func actionToTable(L *lua.LState, a store.Action) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("kind", lua.LString(a.Kind()))
	t.RawSetString("type", lua.LString(a.Type))
	t.RawSetString("name", lua.LString(a.Name))
	t.RawSetString("payload", propsToTable(L, a.Payload))
	return t
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case props.Props:
		return propsToTable(L, val)
	case map[string]any:
		return propsToTable(L, val)
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	case []string:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, lua.LString(item))
		}
		return t
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		t := L.NewTable()
		for i := range rv.Len() {
			t.RawSetInt(i+1, toLua(L, rv.Index(i).Interface()))
		}
		return t
	default:
		ud := L.NewUserData()
		ud.Value = v
		return ud
	}
}

// tableToProps converts a returned Lua table into a bag.
func tableToProps(t *lua.LTable) props.Props {
	p := make(props.Props)
	visited := map[*lua.LTable]bool{t: true}
	t.ForEach(func(k, v lua.LValue) {
		p[keyString(k)] = fromLua(v, visited)
	})
	return p
}

func fromLua(lv lua.LValue, visited map[*lua.LTable]bool) any {
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
	case *lua.LUserData:
		return v.Value
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	default:
		return nil
	}
}

// tableToGo returns a slice for sequences and a bag otherwise.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		items := make([]any, n)
		for i := 1; i <= n; i++ {
			items[i-1] = fromLua(t.RawGetInt(i), visited)
		}
		return items
	}

	p := make(props.Props, count)
	t.ForEach(func(k, v lua.LValue) {
		p[keyString(k)] = fromLua(v, visited)
	})
	return p
}

func keyString(k lua.LValue) string {
	switch kv := k.(type) {
	case lua.LString:
		return string(kv)
	case lua.LNumber:
		return fmt.Sprintf("%v", float64(kv))
	default:
		return k.String()
	}
}
