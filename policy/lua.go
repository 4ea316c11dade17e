package policy

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Lua runs a user-supplied Lua script to pick eviction victims.
//
// The script must define a global function
//
//	function evict(candidates)
//
// that receives an array of candidate tables, each with fields "id"
// (string) and "idle" (seconds since the entry was last updated, number),
// ordered from least to most recently used. It must return the id to
// evict. The function is called repeatedly until the index is within
// bound. If the script errors or returns an unknown id, the remaining
// evictions fall back to LRU so the capacity bound always holds.
type Lua struct {
	script string
}

// NewLua compiles and validates the script. The script is executed once
// here to verify it defines an evict function.
func NewLua(script string) (*Lua, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(script); err != nil {
		return nil, fmt.Errorf("script load error: %w", err)
	}

	if _, ok := L.GetGlobal("evict").(*lua.LFunction); !ok {
		return nil, fmt.Errorf("script does not define an evict function")
	}

	return &Lua{script: script}, nil
}

// Evict implements Policy
func (p *Lua) Evict(idx Index, max int) {
	if idx.Len() <= max {
		return
	}

	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(p.script); err != nil {
		LRU{}.Evict(idx, max)
		return
	}

	fn, ok := L.GetGlobal("evict").(*lua.LFunction)
	if !ok {
		LRU{}.Evict(idx, max)
		return
	}

	now := time.Now()
	for idx.Len() > max {
		candidates := L.NewTable()
		idx.Scan(func(id string, lastUpdated time.Time) bool {
			entry := L.NewTable()
			entry.RawSetString("id", lua.LString(id))
			entry.RawSetString("idle", lua.LNumber(now.Sub(lastUpdated).Seconds()))
			candidates.Append(entry)
			return true
		})

		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, candidates); err != nil {
			LRU{}.Evict(idx, max)
			return
		}

		ret := L.Get(-1)
		L.Pop(1)

		victim, ok := ret.(lua.LString)
		if !ok {
			LRU{}.Evict(idx, max)
			return
		}
		if _, exists := idx.LastUpdated(string(victim)); !exists {
			LRU{}.Evict(idx, max)
			return
		}

		idx.Remove(string(victim))
	}
}
