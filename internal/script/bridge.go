package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rearrange/internal/arrange"
)

// entryTable converts an entry to the table scripts receive.
func entryTable(L *lua.LState, e *arrange.Entry) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(e.Name))
	t.RawSetString("language", lua.LString(e.Language))
	t.RawSetString("types", stringList(L, e.Types))
	t.RawSetString("modifiers", stringList(L, e.Modifiers))
	t.RawSetString("start", lua.LNumber(e.Start))
	t.RawSetString("finish", lua.LNumber(e.End))
	t.RawSetString("anchor", lua.LBool(e.Anchor))
	if e.Parent != nil {
		t.RawSetString("parent", lua.LString(e.Parent.Name))
	}
	return t
}

func stringList(L *lua.LState, list []string) *lua.LTable {
	t := L.CreateTable(len(list), 0)
	for _, s := range list {
		t.Append(lua.LString(s))
	}
	return t
}

// sign maps a numeric comparator result to -1, 0 or 1.
func sign(n lua.LNumber) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
